// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diffeo/go-crest/restapi"
	"github.com/diffeo/go-crest/restclient"
	"github.com/diffeo/go-crest/restdata"
	"github.com/diffeo/go-crest/schema"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var callCommand = cli.Command{
	Name:      "call",
	Usage:     "declare one endpoint and call it",
	ArgsUsage: "METHOD TEMPLATE [name=value...]",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:   "url",
			Usage:  "base URL of the service",
			EnvVar: "CREST_URL",
		},
		cli.IntFlag{
			Name:  "port",
			Usage: "port of the service, if not in the URL",
		},
		cli.StringFlag{
			Name:  "base",
			Usage: "API base path, such as \"api\"",
		},
		cli.StringFlag{
			Name:   "token",
			Usage:  "bearer token",
			EnvVar: "CREST_TOKEN",
		},
		cli.StringFlag{
			Name:   "user",
			Usage:  "basic authentication user name",
			EnvVar: "CREST_USER",
		},
		cli.StringFlag{
			Name:   "password",
			Usage:  "basic authentication password",
			EnvVar: "CREST_PASSWORD",
		},
		cli.StringFlag{
			Name:  "body",
			Usage: "JSON request body",
		},
		cli.StringSliceFlag{
			Name:  "param",
			Usage: "name=value query parameter (repeatable)",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Value: 30 * time.Second,
			Usage: "give up after this long",
		},
		cli.StringFlag{
			Name:  "request-schema",
			Usage: "JSON or YAML schema file the request must match",
		},
		cli.StringFlag{
			Name:  "result-schema",
			Usage: "JSON or YAML schema file the response must match",
		},
	},
	Action: call,
}

// parseAssignments splits name=value words.
func parseAssignments(words []string) (map[string]string, error) {
	result := make(map[string]string, len(words))
	for _, word := range words {
		parts := strings.SplitN(word, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("expected name=value, got %q", word)
		}
		result[parts[0]] = parts[1]
	}
	return result, nil
}

// declare builds the single-endpoint definition a call uses.
func declare(c *cli.Context, method restapi.Method, template string) (*restapi.Definition, error) {
	var opts []restapi.EndpointOption
	for flag, option := range map[string]func(*schema.Node) restapi.EndpointOption{
		"request-schema": restapi.RequestSchema,
		"result-schema":  restapi.ResultSchema,
	} {
		if filename := c.String(flag); filename != "" {
			node, err := schema.FromFile(filename)
			if err != nil {
				return nil, err
			}
			opts = append(opts, option(node))
		}
	}
	endpoint, err := restapi.NewEndpoint([]restapi.Method{method}, template, opts...)
	if err != nil {
		return nil, err
	}
	return restapi.NewDefinition("crest",
		restapi.GlobalAPIBase(c.String("base")),
		restapi.Declare("call", endpoint),
	)
}

func transport(c *cli.Context) (*restclient.Client, error) {
	var opts []restclient.Option
	if port := c.Int("port"); port != 0 {
		opts = append(opts, restclient.Port(port))
	}
	if token := c.String("token"); token != "" {
		opts = append(opts, restclient.BearerToken(token))
	}
	if user := c.String("user"); user != "" {
		opts = append(opts, restclient.BasicAuth(user, c.String("password")))
	}
	return restclient.New(c.String("url"), opts...)
}

func call(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.NewExitError("call needs a METHOD and a TEMPLATE", 2)
	}
	method, err := restapi.ParseMethod(c.Args().Get(0))
	if err != nil {
		return err
	}
	def, err := declare(c, method, c.Args().Get(1))
	if err != nil {
		return err
	}
	client, err := transport(c)
	if err != nil {
		return err
	}

	assignments, err := parseAssignments(c.Args()[2:])
	if err != nil {
		return err
	}
	args := restapi.Args{}
	for name, value := range assignments {
		args[name] = value
	}
	params, err := parseAssignments(c.StringSlice("param"))
	if err != nil {
		return err
	}
	if len(params) > 0 {
		args[restapi.ParamsKey] = params
	}
	if body := c.String("body"); body != "" {
		var decoded interface{}
		if err = restdata.DecodeBytes(restdata.JSONMediaType, []byte(body), &decoded); err != nil {
			return fmt.Errorf("--body: %w", err)
		}
		args[restapi.BodyKey] = decoded
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()
	registry := def.New(client, restapi.Logger(logrus.StandardLogger()))
	result, err := registry.MustEndpoint("call").Invoke(ctx, method, args)
	var terr *restapi.TransportError
	if errors.As(err, &terr) && terr.Content != nil {
		_ = printJSON(c, terr.Content)
	}
	if err != nil {
		return err
	}
	return printJSON(c, result)
}

func printJSON(c *cli.Context, v interface{}) error {
	if err := restdata.Encode(c.App.Writer, v); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.App.Writer)
	return err
}

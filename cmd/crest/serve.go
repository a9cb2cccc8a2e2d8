// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"sort"

	"github.com/diffeo/go-crest/memory"
	"github.com/diffeo/go-crest/reqres"
	"github.com/diffeo/go-crest/restapi"
	"github.com/diffeo/go-crest/restserver"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "serve in-memory fixture collections",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "YAML file describing the collections",
			EnvVar: "CREST_CONFIG",
		},
		cli.StringFlag{
			Name:  "http",
			Usage: "[ip]:port to listen on, overriding the config file",
		},
		cli.BoolFlag{
			Name:  "reqres",
			Usage: "serve a seeded fake of the reqres.in API instead",
		},
	},
	Action: serve,
}

// serverConfig is the YAML configuration for "crest serve".
//
//     listen: ":8080"
//     base: api
//     collections:
//       users:
//         per_page: 6
//         seed:
//           - {first_name: George, last_name: Bluth}
type serverConfig struct {
	Listen      string                      `mapstructure:"listen" validate:"required"`
	Base        string                      `mapstructure:"base"`
	Metrics     string                      `mapstructure:"metrics"`
	Collections map[string]collectionConfig `mapstructure:"collections" validate:"dive"`
}

type collectionConfig struct {
	PerPage int                      `mapstructure:"per_page" validate:"gte=0"`
	Seed    []map[string]interface{} `mapstructure:"seed"`
}

var configValidator = validator.New()

func loadConfigYaml(filename string) (map[string]interface{}, error) {
	var result map[string]interface{}
	var err error
	var bytes []byte
	bytes, err = ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

// decodeConfig fills in a serverConfig from generic YAML data.
func decodeConfig(raw map[string]interface{}) (*serverConfig, error) {
	cfg := &serverConfig{
		Listen:  ":8080",
		Metrics: "/metrics",
	}
	config := mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      cfg,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(raw)
	}
	if err == nil {
		err = configValidator.Struct(cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// collectionAPI declares two endpoints per collection: "name" for the
// collection itself and "name_item" for one item in it.
func collectionAPI(cfg *serverConfig) (*restapi.Definition, map[string]restserver.Resource, error) {
	names := make([]string, 0, len(cfg.Collections))
	for name := range cfg.Collections {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := []restapi.DefinitionOption{restapi.GlobalAPIBase(cfg.Base)}
	resources := make(map[string]restserver.Resource)
	for _, name := range names {
		list, err := restapi.NewEndpoint([]restapi.Method{restapi.MethodGet, restapi.MethodPost}, name)
		if err != nil {
			return nil, nil, err
		}
		item, err := restapi.NewEndpoint([]restapi.Method{
			restapi.MethodGet,
			restapi.MethodPut,
			restapi.MethodPatch,
			restapi.MethodDelete,
		}, name+"/{id}")
		if err != nil {
			return nil, nil, err
		}
		itemName := name + "_item"
		opts = append(opts, restapi.Declare(name, list), restapi.Declare(itemName, item))

		collOpts := []memory.Option{memory.ItemEndpoint(itemName)}
		if perPage := cfg.Collections[name].PerPage; perPage > 0 {
			collOpts = append(collOpts, memory.PerPage(perPage))
		}
		coll := memory.NewCollection(collOpts...)
		for _, seed := range cfg.Collections[name].Seed {
			coll.Add(memory.Item(seed))
		}
		resources[name] = coll.ListResource()
		resources[itemName] = coll.ItemResource()
	}
	def, err := restapi.NewDefinition("crest", opts...)
	if err != nil {
		return nil, nil, err
	}
	return def, resources, nil
}

// buildHandler serves the metrics endpoint, if any, and sends
// everything else to the API.
func buildHandler(def *restapi.Definition, resources map[string]restserver.Resource, metricsPath string) (http.Handler, error) {
	api, err := restserver.NewHandler(def, resources)
	if err != nil {
		return nil, err
	}
	r := mux.NewRouter()
	if metricsPath != "" {
		r.Handle(metricsPath, promhttp.Handler())
	}
	r.PathPrefix("/").Handler(api)
	return r, nil
}

func serve(c *cli.Context) error {
	raw := map[string]interface{}{}
	if filename := c.String("config"); filename != "" {
		loaded, err := loadConfigYaml(filename)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		if loaded != nil {
			raw = loaded
		}
	}
	cfg, err := decodeConfig(raw)
	if err != nil {
		return err
	}
	if listen := c.String("http"); listen != "" {
		cfg.Listen = listen
	}

	var def *restapi.Definition
	var resources map[string]restserver.Resource
	if c.Bool("reqres") {
		fake := reqres.NewServer()
		fake.Seed()
		def, resources = reqres.Definition, fake.Resources()
	} else {
		def, resources, err = collectionAPI(cfg)
		if err != nil {
			return err
		}
	}
	handler, err := buildHandler(def, resources, cfg.Metrics)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"listen":    cfg.Listen,
		"api":       def.Name(),
		"endpoints": def.Fields(),
	}).Info("Serving")
	return http.ListenAndServe(cfg.Listen, handler)
}

// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package crest is a command-line tool for declared REST APIs.  It
// can call a single endpoint ad hoc, serve in-memory fixture
// collections described by a YAML file, and flatten or check JSON
// schemas.
//
//     crest --url https://reqres.in/ call --base api GET users/{id} id=2
//     crest serve --config fixtures.yaml
//     crest schema validate user.yaml instance.json
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "crest"
	app.Usage = "call, serve, and check declared REST APIs"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			Usage:  "minimum level of log messages",
			EnvVar: "CREST_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		callCommand,
		serveCommand,
		schemaCommand,
	}
	app.Before = func(c *cli.Context) error {
		level, err := logrus.ParseLevel(c.String("log-level"))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	}
	return app
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("crest failed")
	}
}

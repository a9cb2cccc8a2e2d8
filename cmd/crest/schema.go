// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/diffeo/go-crest/schema"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

var schemaCommand = cli.Command{
	Name:  "schema",
	Usage: "work with JSON schema files",
	Subcommands: []cli.Command{
		{
			Name:      "flatten",
			Usage:     "embed definition files into a root schema and print it",
			ArgsUsage: "ROOT [DEFINITION...]",
			Action:    flatten,
		},
		{
			Name:      "validate",
			Usage:     "check an instance document against a schema",
			ArgsUsage: "SCHEMA INSTANCE",
			Action:    validate,
		},
	},
}

// definitionName is the name a definition file is embedded under:
// its base name without extension.
func definitionName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// compose loads a root schema and embeds each further file under
// "definitions", named for the file, then rewrites references.
func compose(root string, defs []string) (*schema.Node, error) {
	node, err := schema.FromFile(root, schema.DeferReferences())
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return node, node.AdjustReferences()
	}
	doc, isMap := node.Document().(map[string]interface{})
	if !isMap {
		return nil, fmt.Errorf("%s: root schema must be an object", root)
	}
	definitions, _ := doc["definitions"].(map[string]interface{})
	if definitions == nil {
		definitions = make(map[string]interface{})
		doc["definitions"] = definitions
	}
	for _, filename := range defs {
		def, err := schema.FromFile(filename, schema.DeferReferences())
		if err != nil {
			return nil, err
		}
		name := definitionName(filename)
		if _, exists := definitions[name]; exists {
			return nil, fmt.Errorf("%s: definition %q already exists", filename, name)
		}
		definitions[name] = def
	}
	return schema.New(doc)
}

func flatten(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("flatten needs a ROOT schema file", 2)
	}
	node, err := compose(c.Args().First(), c.Args().Tail())
	if err != nil {
		return err
	}
	return printJSON(c, node.Document())
}

func loadInstance(filename string) (interface{}, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	// YAML is a superset of JSON; Embed turns any interface-keyed
	// maps into string-keyed ones
	var raw interface{}
	if err = yaml.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return schema.Embed(raw)
}

func validate(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("validate needs a SCHEMA and an INSTANCE", 2)
	}
	node, err := schema.FromFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	instance, err := loadInstance(c.Args().Get(1))
	if err != nil {
		return err
	}
	err = node.Validate(instance)
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		for _, leaf := range verr.Leaves() {
			fmt.Fprintf(c.App.Writer, "%s: %s\n", leaf.Path, leaf.Message)
		}
		return cli.NewExitError("instance does not match schema", 1)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "ok")
	return nil
}

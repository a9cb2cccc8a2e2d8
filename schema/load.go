// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// FromJSON builds a Node from a JSON document.
func FromJSON(b []byte, opts ...Option) (*Node, error) {
	doc, err := decodeJSON(b)
	if err != nil {
		return nil, &ConfigurationError{Op: "parse JSON", Err: err}
	}
	return New(doc, opts...)
}

// FromYAML builds a Node from a YAML document.  Scalars follow the
// YAML 1.2 core schema, so keys such as "y" or "on" stay strings.
// Mapping keys are converted to strings.
func FromYAML(b []byte, opts ...Option) (*Node, error) {
	var doc interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, &ConfigurationError{Op: "parse YAML", Err: err}
	}
	return New(doc, opts...)
}

// FromFile builds a Node from a file.  Files named *.yaml or *.yml
// are read as YAML, and anything else as JSON.
func FromFile(filename string, opts ...Option) (*Node, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FromYAML(b, opts...)
	default:
		return FromJSON(b, opts...)
	}
}

// Reflect builds a Node describing the Go type of v, following its
// json struct tags.  Nested types are inlined rather than placed in
// definitions, and the $schema and $id keywords are dropped, so that
// the result can be embedded in other schemas.  Objects accept
// properties beyond the struct's fields, as servers often add them.
func Reflect(v interface{}, opts ...Option) (*Node, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	b, err := r.Reflect(v).MarshalJSON()
	if err != nil {
		return nil, &ConfigurationError{Op: "reflect", Err: err}
	}
	doc, err := decodeJSON(b)
	if err != nil {
		return nil, &ConfigurationError{Op: "reflect", Err: err}
	}
	if root, isMap := doc.(map[string]interface{}); isMap {
		delete(root, "$schema")
		delete(root, "$id")
	} else {
		return nil, &ConfigurationError{Op: "reflect", Err: fmt.Errorf("unexpected %T document", doc)}
	}
	return New(doc, opts...)
}

// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

import (
	"bytes"
	"encoding/json"
	"errors"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// resourceURL is the name the compiler knows the document by.  It is
// never fetched.
const resourceURL = "mem://crest/schema.json"

// Validate checks instance against the schema.  instance may be any
// value that encodes to JSON; it is round-tripped through JSON before
// validation so that structs and Go numeric types behave like their
// JSON equivalents.  Returns nil on success, a *ValidationError if
// the instance does not match, or a *CompileError if the schema
// itself is unusable.
func (n *Node) Validate(instance interface{}) error {
	compiled, err := n.compile()
	if err != nil {
		return err
	}
	b, err := encodeJSON(instance)
	if err != nil {
		return err
	}
	// The validator wants numbers as json.Number
	var normalized interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err = dec.Decode(&normalized); err != nil {
		return err
	}
	err = compiled.Validate(normalized)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return convertValidationError(verr)
	}
	return err
}

// compile returns the compiled form of the document, compiling it if
// required.  Failures are not cached.
func (n *Node) compile() (*jsonschema.Schema, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.compiled != nil {
		return n.compiled, nil
	}

	b, err := encodeJSON(n.doc)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err = compiler.AddResource(resourceURL, bytes.NewReader(b)); err != nil {
		return nil, &CompileError{Err: err}
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	n.compiled = compiled
	return compiled, nil
}

// convertValidationError copies the validator's error tree into our
// own type.  The validator wraps the interesting failures in a root
// error about the document as a whole; that root is kept, since its
// message names the schema location.
func convertValidationError(e *jsonschema.ValidationError) *ValidationError {
	result := &ValidationError{
		Path:    e.InstanceLocation,
		Keyword: e.KeywordLocation,
		Message: e.Message,
	}
	for _, cause := range e.Causes {
		result.Causes = append(result.Causes, convertValidationError(cause))
	}
	return result
}

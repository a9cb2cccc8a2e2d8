// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when a schema embeds itself, directly or
// through some chain of other schemas or containers.
var ErrCycle = errors.New("schema embeds itself")

// ErrUnresolvedReference is returned by AdjustReferences when a local
// $ref names a definition that does not exist anywhere in the
// composite document.
var ErrUnresolvedReference = errors.New("reference does not name any definition")

// ErrAmbiguousReference is returned by AdjustReferences when a local
// $ref names a definition, and more than one definition in the
// composite document has that name.
var ErrAmbiguousReference = errors.New("reference names more than one definition")

// ConfigurationError describes a schema that cannot be built.  Path,
// if set, is the JSON pointer of the offending location.
type ConfigurationError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("schema %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// CompileError is returned from Validate if the document itself is not
// a usable JSON Schema, for instance because a $ref cannot be
// resolved.
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string {
	return "schema compile: " + e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ValidationError is returned from Validate if an instance does not
// match the schema.
type ValidationError struct {
	// Path is the JSON pointer into the instance of the failing
	// value, "" for the instance root.
	Path string

	// Keyword is the JSON pointer into the schema of the keyword
	// that failed, for instance "/properties/x/type".
	Keyword string

	// Message describes the expected-versus-actual mismatch.
	Message string

	// Causes holds nested failures, if the keyword combines other
	// schemas.
	Causes []*ValidationError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	e.write(&sb, 0)
	return sb.String()
}

func (e *ValidationError) write(sb *strings.Builder, depth int) {
	if depth > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("  ", depth))
	}
	path := e.Path
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(sb, "%s: %s", path, e.Message)
	for _, cause := range e.Causes {
		cause.write(sb, depth+1)
	}
}

// Leaves returns the innermost failures, which usually name the
// specific constraint an instance violated.
func (e *ValidationError) Leaves() []*ValidationError {
	if len(e.Causes) == 0 {
		return []*ValidationError{e}
	}
	var result []*ValidationError
	for _, cause := range e.Causes {
		result = append(result, cause.Leaves()...)
	}
	return result
}

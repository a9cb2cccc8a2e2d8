// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package schema provides composable JSON Schema documents.
//
// A Node is built from a JSON-like Go value: maps with string keys,
// slices, strings, numbers, booleans, and nil.  Anywhere in that value
// another *Node may appear; building the new node replaces each such
// value with an independent copy of the embedded node's document.
// This makes it easy to define a "point" or "user" schema once and
// reuse it across many larger schemas:
//
//     point := schema.MustNew(map[string]interface{}{
//         "type": "object",
//         "properties": map[string]interface{}{
//             "x": map[string]interface{}{"type": "number"},
//             "y": map[string]interface{}{"type": "number"},
//         },
//     })
//     line := schema.MustNew(map[string]interface{}{
//         "type":  "array",
//         "items": map[string]interface{}{"$ref": "#/definitions/point"},
//         "definitions": map[string]interface{}{"point": point},
//     })
//
// Embedding moves definitions to new locations, so a $ref that was
// correct inside the embedded schema may no longer be correct in the
// composite.  After embedding, every local $ref is rewritten to point
// at the definition of the same name wherever it now lives.  This
// requires definition names (the keys under "definitions" or "$defs")
// to be unique across the composite document.
//
// Nodes are immutable once built, except through AdjustReferences on a
// node built with DeferReferences, and are safe for concurrent use.
package schema

import (
	"bytes"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/ugorji/go/codec"
)

// Node is a JSON Schema document with all embedded nodes flattened.
type Node struct {
	lock     sync.Mutex
	doc      interface{}
	compiled *jsonschema.Schema
}

type options struct {
	deferReferences bool
}

// Option modifies how New builds a Node.
type Option func(*options)

// DeferReferences skips the reference adjustment pass when building a
// node.  The caller may call AdjustReferences later.  This is mostly
// useful to inspect a composite document before its references are
// rewritten, or to build a schema that will only be used embedded in
// another.
func DeferReferences() Option {
	return func(o *options) {
		o.deferReferences = true
	}
}

// New builds a Node from a JSON-like document.  The document is
// copied; later changes to it, or to any node embedded in it, do not
// affect the new node.
func New(doc interface{}, opts ...Option) (*Node, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	tree, err := Embed(doc)
	if err != nil {
		return nil, err
	}
	n := &Node{doc: tree}
	if !o.deferReferences {
		if err = n.AdjustReferences(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// MustNew is New, but panics on error.  It is intended for schemas
// declared as package-level variables.
func MustNew(doc interface{}, opts ...Option) *Node {
	n, err := New(doc, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Document returns a copy of the flattened schema document.
func (n *Node) Document() interface{} {
	n.lock.Lock()
	defer n.lock.Unlock()
	return copyTree(n.doc)
}

// MarshalJSON returns the JSON encoding of the flattened document.
func (n *Node) MarshalJSON() ([]byte, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	return encodeJSON(n.doc)
}

func (n *Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return "<invalid schema: " + err.Error() + ">"
	}
	return string(b)
}

// jsonHandle returns a codec handle that decodes JSON objects as
// string-keyed maps.
func jsonHandle() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	h.MapType = mapStringInterface
	return h
}

func encodeJSON(v interface{}) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, jsonHandle()).Encode(v)
	return b, err
}

func decodeJSON(b []byte) (interface{}, error) {
	var v interface{}
	err := codec.NewDecoder(bytes.NewReader(b), jsonHandle()).Decode(&v)
	return v, err
}

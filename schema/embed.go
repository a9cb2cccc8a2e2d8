// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

// This file flattens embedded nodes into plain documents.

import (
	"fmt"
	"reflect"
)

var mapStringInterface = reflect.TypeOf(map[string]interface{}(nil))

// Embed returns a deep copy of doc in which every *Node has been
// replaced by a copy of that node's document.  Maps with non-string
// keys (as produced by some YAML decoders) are converted to
// string-keyed maps, and typed slices and maps are converted to their
// generic equivalents.  A document that contains itself fails with
// ErrCycle.
func Embed(doc interface{}) (interface{}, error) {
	e := embedder{
		containers: make(map[uintptr]bool),
		nodes:      make(map[*Node]bool),
	}
	return e.copy(doc, nil)
}

// embedder tracks the containers and nodes on the path currently
// being copied.
type embedder struct {
	containers map[uintptr]bool
	nodes      map[*Node]bool
}

func (e *embedder) cycle(path []string) error {
	return &ConfigurationError{Op: "embed", Path: pointer(path), Err: ErrCycle}
}

func (e *embedder) copy(v interface{}, path []string) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Node:
		if t == nil {
			return nil, nil
		}
		if e.nodes[t] {
			return nil, e.cycle(path)
		}
		e.nodes[t] = true
		defer delete(e.nodes, t)
		return e.copy(t.Document(), path)
	case string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return t, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return map[string]interface{}{}, nil
		}
		id := rv.Pointer()
		if e.containers[id] {
			return nil, e.cycle(path)
		}
		e.containers[id] = true
		defer delete(e.containers, id)
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			item, err := e.copy(iter.Value().Interface(), appendPath(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = item
		}
		return out, nil

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Len() > 0 {
			id := rv.Pointer()
			if e.containers[id] {
				return nil, e.cycle(path)
			}
			e.containers[id] = true
			defer delete(e.containers, id)
		}
		out := make([]interface{}, rv.Len())
		for i := range out {
			item, err := e.copy(rv.Index(i).Interface(), appendPath(path, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return e.copy(rv.Elem().Interface(), path)
	}

	// Anything else (json.Number, named string types, ...) is a
	// scalar as far as we are concerned.
	return v, nil
}

// copyTree deep-copies an already-flattened document.
func copyTree(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = copyTree(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = copyTree(item)
		}
		return out
	default:
		return t
	}
}

func appendPath(path []string, segment string) []string {
	result := make([]string, len(path), len(path)+1)
	copy(result, path)
	return append(result, segment)
}

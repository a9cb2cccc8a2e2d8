// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"fmt"
	"strings"
)

// Method is an HTTP method an endpoint may be called with.
type Method string

// The recognized HTTP methods.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

// allMethods lists every recognized method; its order is the order
// MethodSet.Methods() reports them in.
var allMethods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodPatch,
	MethodHead,
	MethodOptions,
	MethodConnect,
	MethodTrace,
}

// ParseMethod converts a method name, in any case, to a Method.
func ParseMethod(name string) (Method, error) {
	m := Method(strings.ToUpper(name))
	if methodBit(m) == 0 {
		return "", &ConfigurationError{Op: "parse method", Err: fmt.Errorf("unrecognized method %q", name)}
	}
	return m, nil
}

// hasBody returns true if calls with this method carry their payload
// in the request body rather than the query string.
func (m Method) hasBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

func methodBit(m Method) MethodSet {
	for i, known := range allMethods {
		if known == m {
			return 1 << uint(i)
		}
	}
	return 0
}

// MethodSet is an immutable set of recognized methods.
type MethodSet uint16

// NewMethodSet builds a MethodSet.  It is an error to pass an
// unrecognized method.
func NewMethodSet(methods ...Method) (MethodSet, error) {
	var s MethodSet
	for _, m := range methods {
		bit := methodBit(m)
		if bit == 0 {
			return 0, &ConfigurationError{Op: "method set", Err: fmt.Errorf("unrecognized method %q", m)}
		}
		s |= bit
	}
	return s, nil
}

// Has returns true if m is in the set.
func (s MethodSet) Has(m Method) bool {
	bit := methodBit(m)
	return bit != 0 && s&bit != 0
}

// Len returns the number of methods in the set.
func (s MethodSet) Len() int {
	n := 0
	for _, m := range allMethods {
		if s.Has(m) {
			n++
		}
	}
	return n
}

// Methods returns the members of the set in a fixed order.
func (s MethodSet) Methods() []Method {
	var result []Method
	for _, m := range allMethods {
		if s.Has(m) {
			result = append(result, m)
		}
	}
	return result
}

func (s MethodSet) String() string {
	names := make([]string, 0, len(allMethods))
	for _, m := range s.Methods() {
		names = append(names, string(m))
	}
	return strings.Join(names, ",")
}

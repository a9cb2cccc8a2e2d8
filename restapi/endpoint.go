// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"errors"
	"fmt"

	"github.com/diffeo/go-crest/schema"
	"github.com/jtacoma/uritemplates"
)

// Endpoint declares one family of REST operations: a URL template,
// the methods it may be called with, and optional schemas for the
// request payload and the response.  An Endpoint is immutable and may
// be shared by any number of definitions and registries.
type Endpoint struct {
	methods  MethodSet
	template string
	apiBase  string
	params   []string
	expander *uritemplates.UriTemplate
	request  *schema.Node
	result   *schema.Node
}

// EndpointOption sets an optional property of an Endpoint.
type EndpointOption func(*Endpoint)

// APIBase sets a base path for this endpoint that overrides the
// definition's global base path.
func APIBase(base string) EndpointOption {
	return func(e *Endpoint) {
		e.apiBase = base
	}
}

// RequestSchema sets a schema that call payloads must match before
// they are sent.
func RequestSchema(n *schema.Node) EndpointOption {
	return func(e *Endpoint) {
		e.request = n
	}
}

// ResultSchema sets a schema that successful responses must match
// before they are returned.
func ResultSchema(n *schema.Node) EndpointOption {
	return func(e *Endpoint) {
		e.result = n
	}
}

// NewEndpoint declares an endpoint.  methods must be non-empty and
// contain only recognized methods; template may contain {name}
// placeholders, where each name is an identifier.
func NewEndpoint(methods []Method, template string, opts ...EndpointOption) (*Endpoint, error) {
	if len(methods) == 0 {
		return nil, &ConfigurationError{
			Op:  fmt.Sprintf("declare %q", template),
			Err: errors.New("no methods"),
		}
	}
	set, err := NewMethodSet(methods...)
	if err != nil {
		return nil, err
	}
	params, expander, err := compileTemplate(template)
	if err != nil {
		return nil, err
	}
	e := &Endpoint{
		methods:  set,
		template: template,
		params:   params,
		expander: expander,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MustEndpoint is NewEndpoint, but panics on error.
func MustEndpoint(methods []Method, template string, opts ...EndpointOption) *Endpoint {
	e, err := NewEndpoint(methods, template, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Get declares a GET-only endpoint.  It panics on a malformed
// template.
func Get(template string, opts ...EndpointOption) *Endpoint {
	return MustEndpoint([]Method{MethodGet}, template, opts...)
}

// Post declares a POST-only endpoint.  It panics on a malformed
// template.
func Post(template string, opts ...EndpointOption) *Endpoint {
	return MustEndpoint([]Method{MethodPost}, template, opts...)
}

// Put declares a PUT-only endpoint.  It panics on a malformed
// template.
func Put(template string, opts ...EndpointOption) *Endpoint {
	return MustEndpoint([]Method{MethodPut}, template, opts...)
}

// Delete declares a DELETE-only endpoint.  It panics on a malformed
// template.
func Delete(template string, opts ...EndpointOption) *Endpoint {
	return MustEndpoint([]Method{MethodDelete}, template, opts...)
}

// GetPost declares an endpoint supporting GET and POST.  It panics on
// a malformed template.
func GetPost(template string, opts ...EndpointOption) *Endpoint {
	return MustEndpoint([]Method{MethodGet, MethodPost}, template, opts...)
}

// Methods returns the methods this endpoint may be called with.
func (e *Endpoint) Methods() MethodSet {
	return e.methods
}

// Template returns the URL template.
func (e *Endpoint) Template() string {
	return e.template
}

// APIBase returns the endpoint's own base path, which may be empty.
func (e *Endpoint) APIBase() string {
	return e.apiBase
}

// Params returns the template's placeholder names.
func (e *Endpoint) Params() []string {
	return append([]string(nil), e.params...)
}

// RequestSchema returns the request schema, or nil.
func (e *Endpoint) RequestSchema() *schema.Node {
	return e.request
}

// ResultSchema returns the result schema, or nil.
func (e *Endpoint) ResultSchema() *schema.Node {
	return e.result
}

// effectiveBase picks the endpoint's base path if it has one, and the
// global one otherwise.
func (e *Endpoint) effectiveBase(global string) string {
	if e.apiBase != "" {
		return e.apiBase
	}
	return global
}

// expand substitutes path values into the template.  Every
// placeholder must have a value.
func (e *Endpoint) expand(values map[string]interface{}) (string, error) {
	vars := make(map[string]interface{}, len(values))
	for name, value := range values {
		vars[name] = fmt.Sprint(value)
	}
	return e.expander.Expand(vars)
}

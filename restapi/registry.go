// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Definition is the declaration of one logical API: a set of named
// endpoints and a global base path.  A Definition is built once,
// typically as a package-level variable, and is immutable; New binds
// it to a transport.
type Definition struct {
	name    string
	apiBase string
	fields  []string
	decls   map[string]*Endpoint
}

// DefinitionOption adds to a Definition under construction.
type DefinitionOption func(*Definition) error

// GlobalAPIBase sets the base path used by every endpoint that does
// not declare its own.
func GlobalAPIBase(base string) DefinitionOption {
	return func(d *Definition) error {
		d.apiBase = base
		return nil
	}
}

// Declare adds a named endpoint.  Names must be unique within a
// definition.
func Declare(field string, e *Endpoint) DefinitionOption {
	return func(d *Definition) error {
		if field == "" {
			return errors.New("empty endpoint name")
		}
		if e == nil {
			return fmt.Errorf("nil endpoint %q", field)
		}
		if _, exists := d.decls[field]; exists {
			return fmt.Errorf("endpoint %q declared twice", field)
		}
		d.fields = append(d.fields, field)
		d.decls[field] = e
		return nil
	}
}

// NewDefinition builds a Definition.
func NewDefinition(name string, opts ...DefinitionOption) (*Definition, error) {
	d := &Definition{
		name:  name,
		decls: make(map[string]*Endpoint),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, &ConfigurationError{Op: fmt.Sprintf("define %q", name), Err: err}
		}
	}
	sort.Strings(d.fields)
	return d, nil
}

// Define is NewDefinition, but panics on error.
func Define(name string, opts ...DefinitionOption) *Definition {
	d, err := NewDefinition(name, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the definition's name.
func (d *Definition) Name() string {
	return d.name
}

// APIBase returns the global base path.
func (d *Definition) APIBase() string {
	return d.apiBase
}

// Fields returns the declared endpoint names, sorted.
func (d *Definition) Fields() []string {
	return append([]string(nil), d.fields...)
}

// Endpoint returns the declaration of a named endpoint.
func (d *Definition) Endpoint(field string) (*Endpoint, bool) {
	e, ok := d.decls[field]
	return e, ok
}

// RegistryOption modifies a Registry as it is created.
type RegistryOption func(*Registry)

// Logger sets the logger the registry reports calls to.  The default
// is the logrus standard logger.
func Logger(logger *logrus.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates a registry: one client session of this API over a
// transport.  Every declared endpoint is bound to the new registry.
// Registries created from the same definition share nothing but the
// (immutable) declarations.
func (d *Definition) New(t Transport, opts ...RegistryOption) *Registry {
	r := &Registry{
		definition: d,
		transport:  t,
		logger:     logrus.StandardLogger(),
		bound:      make(map[string]*Bound, len(d.fields)),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, field := range d.fields {
		r.bound[field] = bind(r, field, d.decls[field])
	}
	return r
}

// Registry is a Definition bound to a Transport.  It is read-only
// after creation and safe for concurrent use.
type Registry struct {
	definition *Definition
	transport  Transport
	logger     *logrus.Logger
	bound      map[string]*Bound
}

// Definition returns the definition this registry was created from.
func (r *Registry) Definition() *Definition {
	return r.definition
}

// Transport returns the registry's transport.
func (r *Registry) Transport() Transport {
	return r.transport
}

// APIBase returns the global base path.
func (r *Registry) APIBase() string {
	return r.definition.apiBase
}

// Endpoints returns the names of the bound endpoints, sorted.
func (r *Registry) Endpoints() []string {
	return r.definition.Fields()
}

// Endpoint returns a bound endpoint by name.
func (r *Registry) Endpoint(field string) (*Bound, error) {
	b, ok := r.bound[field]
	if !ok {
		return nil, fmt.Errorf("%q in %q: %w", field, r.definition.name, ErrNoSuchEndpoint)
	}
	return b, nil
}

// MustEndpoint is Endpoint, but panics if there is no such endpoint.
func (r *Registry) MustEndpoint(field string) *Bound {
	b, err := r.Endpoint(field)
	if err != nil {
		panic(err)
	}
	return b
}

var boundType = reflect.TypeOf((*Bound)(nil))

// Bind fills in the *Bound fields of the structure target points to.
// A field tagged `rest:"name"` gets the endpoint of that name; an
// untagged field gets the endpoint whose name matches the field name,
// ignoring case; a field tagged `rest:"-"` is skipped.  It is an
// error for a field to name no endpoint.
//
//     type ReqRes struct {
//         Users *restapi.Bound `rest:"users"`
//         User  *restapi.Bound
//     }
//     var api ReqRes
//     err := registry.Bind(&api)
func (r *Registry) Bind(target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("Bind target must be a pointer to a struct, not %T", target)
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" || field.Type != boundType {
			continue
		}
		name, tagged := field.Tag.Lookup("rest")
		if name == "-" {
			continue
		}
		var b *Bound
		if tagged {
			b = r.bound[name]
		} else {
			b = r.lookupFold(field.Name)
		}
		if b == nil {
			return fmt.Errorf("field %s: %w", field.Name, ErrNoSuchEndpoint)
		}
		rv.Field(i).Set(reflect.ValueOf(b))
	}
	return nil
}

func (r *Registry) lookupFold(name string) *Bound {
	if b, ok := r.bound[name]; ok {
		return b
	}
	for field, b := range r.bound {
		if strings.EqualFold(field, name) {
			return b
		}
	}
	return nil
}

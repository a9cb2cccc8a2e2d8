// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/diffeo/go-crest/schema"
	"github.com/sirupsen/logrus"
)

// callFunc performs one method of a bound endpoint.
type callFunc func(ctx context.Context, args Args) (interface{}, error)

// Bound is an Endpoint joined to the Registry that owns it.  It has a
// callable operation for each method the endpoint was declared with,
// and no others.
type Bound struct {
	name   string
	decl   *Endpoint
	parent *Registry
	calls  map[Method]callFunc
}

// bind creates the per-registry view of a declaration.  The call
// table is fixed here and never changes.
func bind(parent *Registry, name string, decl *Endpoint) *Bound {
	b := &Bound{
		name:   name,
		decl:   decl,
		parent: parent,
		calls:  make(map[Method]callFunc),
	}
	for _, m := range decl.methods.Methods() {
		method := m
		b.calls[method] = func(ctx context.Context, args Args) (interface{}, error) {
			return parent.dispatch(ctx, name, decl, method, args)
		}
	}
	return b
}

// Name returns the name the endpoint was declared under.
func (b *Bound) Name() string {
	return b.name
}

// Parent returns the registry this endpoint is bound to.
func (b *Bound) Parent() *Registry {
	return b.parent
}

// Declaration returns the underlying endpoint declaration.
func (b *Bound) Declaration() *Endpoint {
	return b.decl
}

// Supports returns true if the endpoint may be called with m.
func (b *Bound) Supports(m Method) bool {
	_, ok := b.calls[m]
	return ok
}

// Invoke calls the endpoint.  It fails with *MethodNotSupported if the
// endpoint was not declared with method.  On success it returns the
// decoded response body, which may be nil.
func (b *Bound) Invoke(ctx context.Context, method Method, args Args) (interface{}, error) {
	call, ok := b.calls[method]
	if !ok {
		return nil, &MethodNotSupported{Endpoint: b.name, Method: method}
	}
	return call(ctx, args)
}

// InvokeInto calls the endpoint and decodes the result into out, as
// DecodeResult does.
func (b *Bound) InvokeInto(ctx context.Context, method Method, args Args, out interface{}) error {
	result, err := b.Invoke(ctx, method, args)
	if err == nil {
		err = DecodeResult(result, out)
	}
	return err
}

// Get calls the endpoint with GET.
func (b *Bound) Get(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodGet, args)
}

// Post calls the endpoint with POST.
func (b *Bound) Post(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodPost, args)
}

// Put calls the endpoint with PUT.
func (b *Bound) Put(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodPut, args)
}

// Delete calls the endpoint with DELETE.
func (b *Bound) Delete(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodDelete, args)
}

// Patch calls the endpoint with PATCH.
func (b *Bound) Patch(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodPatch, args)
}

// Head calls the endpoint with HEAD.
func (b *Bound) Head(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodHead, args)
}

// Options calls the endpoint with OPTIONS.
func (b *Bound) Options(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodOptions, args)
}

// Connect calls the endpoint with CONNECT.
func (b *Bound) Connect(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodConnect, args)
}

// Trace calls the endpoint with TRACE.
func (b *Bound) Trace(ctx context.Context, args Args) (interface{}, error) {
	return b.Invoke(ctx, MethodTrace, args)
}

// dispatch resolves and sends one call.  Nothing here modifies the
// registry or the declaration, so any number of calls may run at
// once.
func (r *Registry) dispatch(ctx context.Context, name string, decl *Endpoint, method Method, args Args) (interface{}, error) {
	call, err := splitArgs(decl.params, method, args)
	if err != nil {
		return nil, err
	}
	for _, param := range decl.params {
		if value, present := call.path[param]; !present || value == nil {
			return nil, &MissingPathParameter{Endpoint: name, Name: param}
		}
	}
	expanded, err := decl.expand(call.path)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	path := joinPath(decl.effectiveBase(r.definition.apiBase), expanded)

	log := r.logger.WithFields(logrus.Fields{
		"endpoint": name,
		"method":   method,
		"path":     path,
	})

	if decl.request != nil && call.payload != nil {
		if err = decl.request.Validate(call.payload); err != nil {
			log.WithField("err", err).Debug("Request failed validation")
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				return nil, &RequestValidationError{Endpoint: name, Method: method, Err: verr}
			}
			return nil, &ConfigurationError{Op: fmt.Sprintf("request schema for %q", name), Err: err}
		}
	}

	if r.transport == nil {
		return nil, ErrNoTransport
	}
	req := &Request{
		Method: method,
		Path:   path,
		Query:  call.query,
		Body:   call.body,
		Header: call.header,
	}
	resp, err := r.transport.Send(ctx, req)
	if err != nil {
		log.WithField("err", err).Debug("Transport failed")
		return nil, &TransportError{Endpoint: name, Method: method, Err: err}
	}
	log = log.WithField("status", resp.StatusCode)
	if !resp.OK() {
		log.Debug("Request failed")
		return nil, &TransportError{
			Endpoint:   name,
			Method:     method,
			StatusCode: resp.StatusCode,
			Message:    resp.Reason,
			Content:    resp.Body,
		}
	}

	if decl.result != nil {
		if err = decl.result.Validate(resp.Body); err != nil {
			log.WithField("err", err).Debug("Response failed validation")
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				return nil, &ResponseValidationError{Endpoint: name, Method: method, Payload: resp.Body, Err: verr}
			}
			return nil, &ConfigurationError{Op: fmt.Sprintf("result schema for %q", name), Err: err}
		}
	}
	log.Debug("Request complete")
	return resp.Body, nil
}

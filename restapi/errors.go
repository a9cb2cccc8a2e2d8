// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"errors"
	"fmt"

	"github.com/diffeo/go-crest/schema"
)

// ErrNoSuchEndpoint is returned by Registry.Endpoint() and
// Registry.Bind() when a name does not match any declared endpoint.
var ErrNoSuchEndpoint = errors.New("No such endpoint")

// ErrInvalidArguments is returned from calls whose arguments cannot be
// turned into a request, for instance a "params" value that is not a
// map or struct.
var ErrInvalidArguments = errors.New("Invalid call arguments")

// ErrNoTransport is returned from calls on a registry that was
// created without a transport.
var ErrNoTransport = errors.New("Registry has no transport")

// ConfigurationError describes a declaration that cannot be built:
// a malformed URL template, an unrecognized method, an empty method
// set, or a duplicate endpoint name.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// MethodNotSupported is returned when an endpoint is called with a
// method it was not declared with.
type MethodNotSupported struct {
	Endpoint string
	Method   Method
}

func (e *MethodNotSupported) Error() string {
	return fmt.Sprintf("%v not implemented for endpoint %q", e.Method, e.Endpoint)
}

// MissingPathParameter is returned when a call does not supply a
// value for one of the endpoint's URL template placeholders.
type MissingPathParameter struct {
	Endpoint string
	Name     string
}

func (e *MissingPathParameter) Error() string {
	return fmt.Sprintf("endpoint %q requires path parameter %q", e.Endpoint, e.Name)
}

// RequestValidationError is returned when a call's payload does not
// match the endpoint's request schema.  The request is never sent.
type RequestValidationError struct {
	Endpoint string
	Method   Method
	Err      *schema.ValidationError
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("%v %q request: %v", e.Method, e.Endpoint, e.Err)
}

func (e *RequestValidationError) Unwrap() error {
	return e.Err
}

// ResponseValidationError is returned when the server's response does
// not match the endpoint's result schema.  Payload holds what the
// server actually sent.
type ResponseValidationError struct {
	Endpoint string
	Method   Method
	Payload  interface{}
	Err      *schema.ValidationError
}

func (e *ResponseValidationError) Error() string {
	return fmt.Sprintf("%v %q response: %v", e.Method, e.Endpoint, e.Err)
}

func (e *ResponseValidationError) Unwrap() error {
	return e.Err
}

// TransportError is returned when the transport fails, or the server
// returns a non-2xx status.  In the first case Err is set and
// StatusCode is zero; in the second Message is the HTTP reason
// phrase and Content is the decoded response body, if any.
type TransportError struct {
	Endpoint   string
	Method     Method
	StatusCode int
	Message    string
	Content    interface{}
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v %q: %v", e.Method, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%v %q: %d %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

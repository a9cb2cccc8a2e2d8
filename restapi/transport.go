// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"context"
	"net/http"
	"net/url"
)

// Transport sends requests on behalf of a registry.  Implementations
// must be safe for concurrent use; see the restclient package for an
// HTTP implementation.
type Transport interface {
	// Send performs one request.  It returns an error only if no
	// response was received at all; HTTP-level failures are
	// reported through the Response status.
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Request is a single resolved call.
type Request struct {
	// Method is the HTTP method.
	Method Method

	// Path is the request path relative to the transport's base
	// URL, with placeholders already substituted, for instance
	// "api/users/2".  It has no leading slash.
	Path string

	// Query holds query-string values; it may be nil.
	Query url.Values

	// Body is the JSON payload, or nil if there is none.
	Body interface{}

	// Header holds per-call headers; it may be nil.
	Header http.Header
}

// Response is the transport's view of the server's answer.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the decoded JSON body, or a structured description
	// of a body that could not be decoded, or nil if the response
	// was empty.
	Body interface{}

	// Reason is the HTTP reason phrase, "Not Found" and the like.
	Reason string
}

// OK returns true if the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

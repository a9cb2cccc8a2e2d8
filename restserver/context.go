// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diffeo/go-crest/restapi"
	"github.com/diffeo/go-crest/restdata"
	"github.com/gorilla/mux"
)

// Context holds everything a resource function gets from the HTTP
// request.
type Context struct {
	// Endpoint is the name of the endpoint being called.
	Endpoint string

	// Method is the HTTP method.
	Method restapi.Method

	// Vars holds the values of the URL template placeholders.
	Vars map[string]string

	// Query holds the query-string parameters.
	Query url.Values

	// Body holds the decoded JSON request body for PUT, POST, and
	// PATCH requests, or nil if the request had no body.
	Body interface{}

	// Request is the underlying HTTP request.
	Request *http.Request

	api *restAPI
}

// IntVar returns a URL placeholder value as an integer.  A value that
// is not an integer is a 404, since no resource could be at that URL.
func (ctx *Context) IntVar(name string) (int, error) {
	n, err := strconv.Atoi(ctx.Vars[name])
	if err != nil {
		return 0, restdata.ErrNotFound{Err: err}
	}
	return n, nil
}

// IntQuery returns a query parameter as an integer, or def if it is
// absent.  A value that is not an integer is a 400.
func (ctx *Context) IntQuery(name string, def int) (int, error) {
	s := ctx.Query.Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, restdata.ErrBadRequest{Err: err}
	}
	return n, nil
}

// URL returns the path to another endpoint of the same API, given
// alternating placeholder names and values.
func (ctx *Context) URL(endpoint string, pairs ...string) (string, error) {
	return ctx.api.url(endpoint, pairs...)
}

// newContext extracts the request parts.  hasBody is true for
// methods whose body should be decoded.
func (api *restAPI) newContext(req *http.Request, endpoint string, hasBody bool) (*Context, error) {
	ctx := &Context{
		Endpoint: endpoint,
		Method:   restapi.Method(req.Method),
		Vars:     mux.Vars(req),
		Query:    req.URL.Query(),
		Request:  req,
		api:      api,
	}
	if !hasBody || req.Body == nil {
		return ctx, nil
	}
	b, err := ioutil.ReadAll(req.Body)
	if err != nil {
		return nil, restdata.ErrBadRequest{Err: err}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return ctx, nil
	}
	err = restdata.DecodeBytes(req.Header.Get("Content-Type"), b, &ctx.Body)
	if _, unsupported := err.(restdata.ErrUnsupportedMediaType); unsupported {
		return nil, err
	} else if err != nil {
		return nil, restdata.ErrBadRequest{Err: err}
	}
	return ctx, nil
}

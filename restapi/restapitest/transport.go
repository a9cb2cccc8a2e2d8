// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restapitest provides a scripted restapi.Transport for
// tests.  It records every request it is sent and answers from a
// table of canned responses, so tests can check exactly what a
// registry would put on the wire without running a server.
package restapitest

import (
	"context"
	"net/http"
	"sync"

	"github.com/diffeo/go-crest/restapi"
	"github.com/diffeo/go-crest/restdata"
)

// Handler computes a response to a recorded request.
type Handler func(req *restapi.Request) (*restapi.Response, error)

// Transport is a restapi.Transport that answers from a table.  The
// zero value answers every request with 404.  It is safe for
// concurrent use.
type Transport struct {
	lock     sync.Mutex
	routes   map[string]Handler
	requests []*restapi.Request
}

// New creates an empty Transport.
func New() *Transport {
	return &Transport{}
}

func routeKey(method restapi.Method, path string) string {
	return string(method) + " " + path
}

// Reply installs a handler for one method and request path.  path is
// the resolved path as the registry sends it, for instance
// "api/users/2".
func (t *Transport) Reply(method restapi.Method, path string, h Handler) *Transport {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.routes == nil {
		t.routes = make(map[string]Handler)
	}
	t.routes[routeKey(method, path)] = h
	return t
}

// On installs a fixed response for one method and request path.
func (t *Transport) On(method restapi.Method, path string, status int, body interface{}) *Transport {
	return t.Reply(method, path, func(*restapi.Request) (*restapi.Response, error) {
		return &restapi.Response{
			StatusCode: status,
			Body:       body,
			Reason:     http.StatusText(status),
		}, nil
	})
}

// Fail makes one method and request path fail with err, as though
// the server could not be reached.
func (t *Transport) Fail(method restapi.Method, path string, err error) *Transport {
	return t.Reply(method, path, func(*restapi.Request) (*restapi.Response, error) {
		return nil, err
	})
}

// Send records req and answers it.  Unknown routes get a 404 with the
// same body shape a real server's error page would decode to.
func (t *Transport) Send(ctx context.Context, req *restapi.Request) (*restapi.Response, error) {
	t.lock.Lock()
	t.requests = append(t.requests, req)
	h := t.routes[routeKey(req.Method, req.Path)]
	t.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h == nil {
		return &restapi.Response{
			StatusCode: http.StatusNotFound,
			Body: restdata.ErrorResponse{
				Code:    http.StatusNotFound,
				Message: http.StatusText(http.StatusNotFound),
			}.Payload(),
			Reason: http.StatusText(http.StatusNotFound),
		}, nil
	}
	return h(req)
}

// Requests returns every request sent so far, oldest first.
func (t *Transport) Requests() []*restapi.Request {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]*restapi.Request(nil), t.requests...)
}

// Last returns the most recent request, or nil if there has not been
// one.
func (t *Transport) Last() *restapi.Request {
	t.lock.Lock()
	defer t.lock.Unlock()
	if len(t.requests) == 0 {
		return nil
	}
	return t.requests[len(t.requests)-1]
}

// Reset forgets the recorded requests, but keeps the routes.
func (t *Transport) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.requests = nil
}

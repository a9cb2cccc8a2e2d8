// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"fmt"
	"net/http"

	"github.com/diffeo/go-crest/restapi"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// Resource implements the methods of one endpoint.  A nil function
// leaves that method unimplemented, answering 405 even if the
// endpoint declares it.
type Resource struct {
	Get    func(*Context) (interface{}, error)
	Put    func(*Context) (interface{}, error)
	Post   func(*Context) (interface{}, error)
	Patch  func(*Context) (interface{}, error)
	Delete func(*Context) (interface{}, error)
}

func (r Resource) handler(m restapi.Method) func(*Context) (interface{}, error) {
	switch m {
	case restapi.MethodGet:
		return r.Get
	case restapi.MethodPut:
		return r.Put
	case restapi.MethodPost:
		return r.Post
	case restapi.MethodPatch:
		return r.Patch
	case restapi.MethodDelete:
		return r.Delete
	}
	return nil
}

// Option configures a router as it is built.
type Option func(*restAPI)

// Logger sets the logger requests and failures are reported to.
func Logger(logger *logrus.Logger) Option {
	return func(api *restAPI) {
		api.Logger = logger
	}
}

// NewRouter creates a new HTTP handler that serves every endpoint of
// def.  resources maps endpoint names to their implementations; it is
// an error to name an endpoint def does not declare.  For more
// control over this setup, create a mux.Router and call
// PopulateRouter instead.
func NewRouter(def *restapi.Definition, resources map[string]Resource, opts ...Option) (*mux.Router, error) {
	r := mux.NewRouter()
	err := PopulateRouter(r, def, resources, opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// PopulateRouter adds the routes of def to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the API under a subpath:
//
//     r := mux.NewRouter()
//     s := r.PathPrefix("/fixtures").Subrouter()
//     err := PopulateRouter(s, def, resources)
func PopulateRouter(r *mux.Router, def *restapi.Definition, resources map[string]Resource, opts ...Option) error {
	api := &restAPI{
		Router:     r,
		Logger:     logrus.StandardLogger(),
		routeNames: make(map[string]string),
	}
	for _, opt := range opts {
		opt(api)
	}
	for name := range resources {
		if _, declared := def.Endpoint(name); !declared {
			return fmt.Errorf("resource %q: %w", name, restapi.ErrNoSuchEndpoint)
		}
	}

	// Group endpoints by path, keeping declaration order stable
	var paths []string
	handlers := make(map[string]*resourceHandler)
	owners := make(map[string]string)
	for _, field := range def.Fields() {
		decl, _ := def.Endpoint(field)
		base := decl.APIBase()
		if base == "" {
			base = def.APIBase()
		}
		path := routePath(base, decl.Template())
		h, exists := handlers[path]
		if !exists {
			h = &resourceHandler{api: api, operations: make(map[string]*operation)}
			handlers[path] = h
			owners[path] = field
			paths = append(paths, path)
		}
		api.routeNames[field] = owners[path]
		resource := resources[field]
		for _, m := range decl.Methods().Methods() {
			if prior, taken := h.operations[string(m)]; taken {
				return fmt.Errorf("%v %s declared by both %q and %q", m, path, prior.Endpoint, field)
			}
			h.operations[string(m)] = &operation{
				Endpoint: field,
				Request:  decl.RequestSchema(),
				Handle:   resource.handler(m),
			}
		}
	}
	for _, path := range paths {
		r.Path(path).Name(owners[path]).Handler(handlers[path])
	}
	return nil
}

// NewHandler wraps NewRouter's router in negroni middleware that
// recovers from panics outside resource functions and logs every
// request.
func NewHandler(def *restapi.Definition, resources map[string]Resource, opts ...Option) (http.Handler, error) {
	api := &restAPI{Logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(api)
	}
	router, err := NewRouter(def, resources, opts...)
	if err != nil {
		return nil, err
	}
	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	n := negroni.New(recovery, requestLogger(api.Logger))
	n.UseHandler(router)
	return n, nil
}

// requestLogger logs each request once it completes.
func requestLogger(logger *logrus.Logger) negroni.Handler {
	return negroni.HandlerFunc(func(rw http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
		next(rw, req)
		entry := logger.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
		})
		if res, ok := rw.(negroni.ResponseWriter); ok {
			entry = entry.WithFields(logrus.Fields{
				"status": res.Status(),
				"size":   res.Size(),
			})
		}
		entry.Debug("Served request")
	})
}

// restAPI holds the persistent state for a served API.
type restAPI struct {
	Router *mux.Router
	Logger *logrus.Logger

	// routeNames maps endpoint names to the names of their
	// routes.  Endpoints sharing a path share the route named
	// for the first of them.
	routeNames map[string]string
}

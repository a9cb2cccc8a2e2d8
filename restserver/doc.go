// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver serves a declared REST API over HTTP.  It is the
// other end of the restclient package: given a restapi.Definition and
// an implementation of each endpoint, it routes every declared method
// to its implementation and answers everything else with 405 Method
// Not Allowed.
//
// This is mainly useful for tests and local fixtures.  Pair it with
// the memory package for a self-contained fake of a simple CRUD
// service:
//
//     users := memory.NewCollection()
//     handler, err := restserver.NewHandler(reqres.Definition, map[string]restserver.Resource{
//         "users": users.ListResource(),
//         "user":  users.ItemResource(),
//     })
//
// HTTP Considerations
//
// Every route sits at the endpoint's effective base path joined to its
// URL template, so an endpoint "users/{id}" in a definition with base
// path "api" is served at /api/users/{id}.  Endpoints that share a
// path share a route; each method goes to the endpoint that declared
// it.
//
// Request and response bodies are JSON.  If the endpoint has a
// request schema, PUT, POST, and PATCH bodies are validated against
// it and rejected with 400 Bad Request if they do not match.  Errors
// are returned as a restdata.ErrorResponse object; a panic in a
// resource function becomes a 500 Internal Server Error with a stack
// trace in the "content" field.
//
// A successful response with no content is sent as 204 No Content.
// Returning a Created value sends 201 Created with an optional
// Location: header.
package restserver

// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restapi declares REST APIs as data and calls them.
//
// An API is a Definition: a name, an optional global base path, and a
// set of named Endpoint declarations.  Each endpoint has a URL
// template with {name} placeholders, the HTTP methods it supports, an
// optional base path of its own, and optional JSON schemas for its
// request payload and its result.
//
//     var ReqRes = restapi.Define("reqres",
//         restapi.GlobalAPIBase("api"),
//         restapi.Declare("users", restapi.Get("users")),
//         restapi.Declare("user", restapi.GetPost("users/{id}")),
//     )
//
// Definitions do nothing on their own.  Definition.New binds one to a
// Transport, producing a Registry in which every endpoint is a Bound
// value that can be invoked:
//
//     api := ReqRes.New(restclient.MustNew("https://reqres.in/"))
//     user, err := api.MustEndpoint("user").Get(ctx, restapi.Args{"id": 2})
//
// This sends GET https://reqres.in/api/users/2.  Calling a method the
// endpoint was not declared with fails with *MethodNotSupported before
// anything is sent.  Registries are independent: two registries built
// from one definition share only the immutable declarations, and a
// Registry may be used from any number of goroutines.
//
// Arguments are sorted by name.  Values for template placeholders are
// substituted into the path; "params", "body", and "headers" supply
// the query string, JSON body, and extra headers; anything else is
// added to the body for POST, PUT, and PATCH and to the query string
// otherwise.
package restapi

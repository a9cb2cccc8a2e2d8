// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains various HTTP-related helpers.

import (
	"fmt"
	"strings"
)

// routePath turns a base path and a URL template into a mux route
// path.  The {name} placeholder syntax is the same in both.
func routePath(base, template string) string {
	var parts []string
	for _, part := range []string{base, template} {
		part = strings.Trim(part, "/")
		if part != "" {
			parts = append(parts, part)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// url builds the path to a named endpoint.
func (api *restAPI) url(endpoint string, pairs ...string) (string, error) {
	name, ok := api.routeNames[endpoint]
	if !ok {
		return "", fmt.Errorf("No such route %q", endpoint)
	}
	r := api.Router.Get(name)
	if r == nil {
		return "", fmt.Errorf("No such route %q", name)
	}
	u, err := r.URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

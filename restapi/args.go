// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"

	formschema "github.com/gorilla/schema"
)

// Args are the keyword arguments of a call.  Keys that name a URL
// template placeholder supply its value.  Of the rest, ParamsKey,
// BodyKey, and HeadersKey are recognized specially; anything else is
// payload, added to the body for POST, PUT, and PATCH calls and to
// the query string otherwise.
type Args map[string]interface{}

// Recognized argument keys.
const (
	// ParamsKey supplies query-string values, as a url.Values,
	// a string-keyed map, or a struct with `url` field tags.
	ParamsKey = "params"

	// BodyKey supplies the JSON payload.
	BodyKey = "body"

	// HeadersKey supplies extra request headers, as an
	// http.Header or a map[string]string.
	HeadersKey = "headers"
)

// queryEncoder turns structs into query strings.  It is safe for
// concurrent use once configured.
var queryEncoder = func() *formschema.Encoder {
	enc := formschema.NewEncoder()
	enc.SetAliasTag("url")
	return enc
}()

// callArgs is Args sorted into the parts of a request.
type callArgs struct {
	path   map[string]interface{}
	query  url.Values
	body   interface{}
	header http.Header

	// payload is what the request schema checks: the body if
	// there is one, and otherwise the query parameters as given.
	payload interface{}
}

func invalidArgs(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArguments)
}

// splitArgs sorts a call's arguments.  params is the set of
// placeholder names in the endpoint's template.
func splitArgs(params []string, method Method, args Args) (*callArgs, error) {
	c := &callArgs{path: make(map[string]interface{})}
	isParam := make(map[string]bool, len(params))
	for _, name := range params {
		isParam[name] = true
	}

	extra := make(map[string]interface{})
	var rawParams interface{}
	for key, value := range args {
		switch {
		case isParam[key]:
			c.path[key] = value
		case key == ParamsKey:
			rawParams = value
		case key == BodyKey:
			c.body = value
		case key == HeadersKey:
			header, err := toHeader(value)
			if err != nil {
				return nil, err
			}
			c.header = header
		default:
			extra[key] = value
		}
	}

	if len(extra) > 0 {
		if method.hasBody() {
			body, err := mergeMap(c.body, extra)
			if err != nil {
				return nil, err
			}
			c.body = body
		} else {
			merged, err := mergeParams(rawParams, extra)
			if err != nil {
				return nil, err
			}
			rawParams = merged
		}
	}

	query, err := toQuery(rawParams)
	if err != nil {
		return nil, err
	}
	c.query = query

	if c.body != nil {
		c.payload = c.body
	} else if rawParams != nil {
		c.payload = rawParams
	}
	return c, nil
}

// mergeMap adds extra to a copy of base, which must be nil or a
// string-keyed map.  Values already in base win.
func mergeMap(base interface{}, extra map[string]interface{}) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(extra))
	switch t := base.(type) {
	case nil:
	case map[string]interface{}:
		for k, v := range t {
			result[k] = v
		}
	case map[string]string:
		for k, v := range t {
			result[k] = v
		}
	default:
		return nil, invalidArgs("cannot add %d extra arguments to a %T", len(extra), base)
	}
	for k, v := range extra {
		if _, present := result[k]; !present {
			result[k] = v
		}
	}
	return result, nil
}

// mergeParams adds extra to query parameters.  Maps merge as in
// mergeMap; anything else toQuery accepts is encoded first and the
// extras added to the encoded values.  Values already present win.
func mergeParams(base interface{}, extra map[string]interface{}) (interface{}, error) {
	switch base.(type) {
	case nil, map[string]interface{}, map[string]string:
		return mergeMap(base, extra)
	}
	query, err := toQuery(base)
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, present := query[k]; !present {
			query[k] = queryStrings(v)
		}
	}
	return query, nil
}

func toHeader(value interface{}) (http.Header, error) {
	switch t := value.(type) {
	case nil:
		return nil, nil
	case http.Header:
		return t.Clone(), nil
	case map[string]string:
		header := make(http.Header, len(t))
		for k, v := range t {
			header.Set(k, v)
		}
		return header, nil
	case map[string][]string:
		return http.Header(t).Clone(), nil
	default:
		return nil, invalidArgs("headers must be a map, not %T", value)
	}
}

func toQuery(value interface{}) (url.Values, error) {
	switch t := value.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return cloneValues(t), nil
	case map[string][]string:
		return cloneValues(t), nil
	case map[string]string:
		query := make(url.Values, len(t))
		for k, v := range t {
			query.Set(k, v)
		}
		return query, nil
	case map[string]interface{}:
		query := make(url.Values, len(t))
		for k, v := range t {
			query[k] = queryStrings(v)
		}
		return query, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, invalidArgs("params must be a map or struct, not %T", value)
	}
	query := make(url.Values)
	if err := queryEncoder.Encode(rv.Interface(), query); err != nil {
		return nil, invalidArgs("params: %v", err)
	}
	return query, nil
}

// queryStrings formats one query value; slices become repeated
// parameters.
func queryStrings(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []interface{}:
		result := make([]string, len(t))
		for i, item := range t {
			result[i] = fmt.Sprint(item)
		}
		return result
	default:
		return []string{fmt.Sprint(v)}
	}
}

func cloneValues(v map[string][]string) url.Values {
	result := make(url.Values, len(v))
	for k, vv := range v {
		result[k] = append([]string(nil), vv...)
	}
	return result
}

// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata holds the wire-level pieces shared by the HTTP
// client and the fixture server: media types, JSON body encoding and
// decoding, and the error body both sides agree on.
//
// Every body on the wire is JSON.  A client decodes response bodies
// into generic values (string-keyed maps, slices, strings, numbers,
// booleans, and nil); when a response body is not JSON at all, the
// client reports it as an ErrorResponse instead, so callers always
// get something structured back.
package restdata

// JSONMediaType is the MIME type of every request and response body.
const JSONMediaType = "application/json"

// ErrorResponse is the body of a failed request, and also the
// structured form of a successful response whose body could not be
// decoded as JSON.
type ErrorResponse struct {
	// Code is the HTTP status code.
	Code int `json:"code"`

	// Content holds the raw response body, or a stack trace if
	// the server panicked.
	Content string `json:"content"`

	// Message is a human-readable description of the failure;
	// for undecodable responses this is the HTTP reason phrase.
	Message string `json:"message"`
}

// Payload returns e as a generic value, the same shape a client would
// get by decoding it from JSON.
func (e ErrorResponse) Payload() map[string]interface{} {
	return map[string]interface{}{
		"code":    e.Code,
		"content": e.Content,
		"message": e.Message,
	}
}

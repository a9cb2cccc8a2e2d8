// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains a REST skeleton framework.
//
// The bulk of this is dealing with HTTP content type negotiation, and
// providing a standard way to deal with input and output values.

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/diffeo/go-crest/restapi"
	"github.com/diffeo/go-crest/restdata"
	"github.com/diffeo/go-crest/schema"
	"github.com/sirupsen/logrus"
)

var typeMap = map[string]string{
	"text/json":            restdata.JSONMediaType,
	restdata.JSONMediaType: restdata.JSONMediaType,
}

// errBadAccept is returned from negotiateResponse() if the Accept:
// header is malformed (and no more specific error applies).
var errBadAccept = errors.New("Invalid Accept: header")

// errNotAcceptable is returned from negotiateResponse() if the Accept:
// header does not mention any media types we can actually return.
type errNotAcceptable struct{}

func (e errNotAcceptable) Error() string {
	return "No acceptable representation for response"
}

func (e errNotAcceptable) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// errMethodNotAllowed is used within the resourceHandler implementation
// to flag an error if a particular HTTP method is not allowed.  This
// corresponds exactly to the 405 Method Not Allowed HTTP status code.
type errMethodNotAllowed struct {
	Method string
}

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed", e.Method)
}

func (e errMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// Created is returned as a value response from resource functions
// that want to indicate that a new resource was created.
type Created struct {
	// Location holds the canonical URL to the newly created resource.
	Location string

	// Body contains the object sent in the body of the response.
	Body interface{}
}

// operation is one method of one route.
type operation struct {
	// Endpoint is the name of the declaring endpoint.
	Endpoint string

	// Request, if non-nil, is the schema request bodies must
	// match.
	Request *schema.Node

	// Handle, if non-nil, produces the response.
	Handle func(*Context) (interface{}, error)
}

// resourceHandler serves every method of one route.
type resourceHandler struct {
	api        *restAPI
	operations map[string]*operation
}

// allow lists the implemented methods, for the Allow: header.
func (h *resourceHandler) allow() string {
	var methods []string
	for method, op := range h.operations {
		if op.Handle != nil {
			methods = append(methods, method)
		}
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

// lookup finds the operation for a method.  HEAD falls back to GET.
func (h *resourceHandler) lookup(method string) *operation {
	op := h.operations[method]
	if (op == nil || op.Handle == nil) && method == http.MethodHead {
		op = h.operations[http.MethodGet]
	}
	if op == nil || op.Handle == nil {
		return nil
	}
	return op
}

func (h *resourceHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var (
		ctx          *Context
		op           *operation
		out          interface{}
		err          error
		status       int
		responseType string
	)

	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			response := restdata.ErrorResponse{}
			response.FromPanic(recovered)
			h.api.Logger.WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.URL.Path,
				"panic":  response.Message,
			}).Error("Resource function panicked")
			resp.Header().Set("Content-Type", restdata.JSONMediaType)
			resp.WriteHeader(http.StatusInternalServerError)
			_ = restdata.Encode(resp, response.Payload())
		}
	}()

	// Start by trying to come up with a response type, even before
	// trying to parse the input.  This determines what format an
	// error message could be sent back as.
	status = http.StatusBadRequest
	responseType, err = negotiateResponse(req)
	if err != nil {
		// Gotta pick something
		responseType = restdata.JSONMediaType
	}

	if err == nil {
		op = h.lookup(req.Method)
		if op == nil {
			err = errMethodNotAllowed{Method: req.Method}
			resp.Header().Set("Allow", h.allow())
		}
	}

	// Get bits from URL parameters, and the body if there is one
	if err == nil {
		method := restapi.Method(req.Method)
		hasBody := method == restapi.MethodPost || method == restapi.MethodPut || method == restapi.MethodPatch
		ctx, err = h.api.newContext(req, op.Endpoint, hasBody)
		if err == nil && hasBody && op.Request != nil && ctx.Body != nil {
			err = op.Request.Validate(ctx.Body)
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				err = restdata.ErrBadRequest{Err: verr}
			}
		}
	}

	// Actually call the handler method
	if err == nil {
		// If anything goes wrong here, it's an error in client
		// code
		status = http.StatusInternalServerError
		out, err = op.Handle(ctx)
	}

	// Fix up the final result based on what we know.
	if err != nil {
		// Pick a better status code if we know of one
		var errS restdata.ErrorStatus
		if errors.As(err, &errS) {
			status = errS.HTTPStatus()
		}
		errResp := restdata.ErrorResponse{}
		errResp.FromError(err)
		errResp.Code = status
		out = errResp.Payload()
		h.api.Logger.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
			"status": status,
			"err":    err,
		}).Debug("Request failed")
	} else if out == nil {
		status = http.StatusNoContent
	} else if created, isCreated := out.(Created); isCreated {
		status = http.StatusCreated
		if created.Location != "" {
			resp.Header().Set("Location", created.Location)
		}
		out = created.Body
	} else {
		status = http.StatusOK
	}
	if req.Method == http.MethodHead {
		out = nil
	}

	// It is possible for the actual writer to fail, but by the
	// point this happens we've already written an HTTP status
	// line, so we're not necessarily doing better than panicking.
	if out != nil {
		resp.Header().Set("Content-Type", responseType)
	}
	resp.WriteHeader(status)
	if out != nil {
		_ = restdata.Encode(resp, out)
	}
}

// negotiateResponse returns a supported MIME type for the response
// body, following the path laid out in RFC 7231 section 5.3.
func negotiateResponse(req *http.Request) (string, error) {
	accept := req.Header.Get("Accept")
	if accept == "" {
		accept = "*/*"
	}
	bestType := ""
	bestQ := 0.0
	mediaRanges := strings.Split(accept, ",")
	for _, mediaRange := range mediaRanges {
		mediaRange = strings.TrimSpace(mediaRange)
		mediaType, params, err := mime.ParseMediaType(mediaRange)
		if err != nil {
			return "", err
		}

		// What is the "q" ("quality") parameter for this type?
		// If it is less than the best known so far, skip it
		q := 1.0
		if qStr, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qStr, 64)
			if err != nil {
				return "", err
			}
			if q < 0.0 || q > 1.0 {
				return "", errBadAccept
			}
		}
		if q < bestQ {
			continue
		}

		switch {
		case mediaType == "*/*":
			// Doesn't override anything.
			if q > bestQ {
				bestType = mediaType
				bestQ = q
			}
		case mediaType == "text/*" || mediaType == "application/*":
			// Only overrides "*/*".
			if q > bestQ || bestType == "*/*" {
				bestType = mediaType
				bestQ = q
			}
		case typeMap[mediaType] != "":
			// Overrides any wildcard.  The first one at a
			// given q wins.
			if q > bestQ || strings.HasSuffix(bestType, "/*") {
				bestType = mediaType
				bestQ = q
			}
		}
		// Otherwise we don't recognize this type at all, so
		// just drop it.
	}
	// If this failed to win, return an error
	if bestQ == 0.0 {
		return "", errNotAcceptable{}
	}
	switch bestType {
	case "*/*", "application/*":
		return restdata.JSONMediaType, nil
	case "text/*":
		return "text/json", nil
	default:
		return bestType, nil
	}
}

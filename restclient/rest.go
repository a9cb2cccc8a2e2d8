// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides an HTTP implementation of
// restapi.Transport.  Create one with the base URL of the service and
// bind an API definition to it:
//
//     c, err := restclient.New("https://reqres.in/")
//     api := reqres.Definition.New(c)
//
// Request and response bodies are JSON.  A response body that is not
// JSON is returned as a restdata.ErrorResponse payload carrying the
// status code, reason phrase, and raw text.
package restclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-crest/restapi"
	"github.com/diffeo/go-crest/restdata"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries a unique identifier for every request.
const RequestIDHeader = "X-Request-Id"

// Client is a restapi.Transport that talks HTTP.  Its configuration
// is fixed when it is created, and it is safe for concurrent use.
type Client struct {
	base     *url.URL
	header   http.Header
	username string
	password string
	token    string
	client   *http.Client
	logger   *logrus.Logger
	metrics  *Metrics
	clock    clock.Clock
}

// New creates a new HTTP transport rooted at baseURL.  Request paths
// are resolved relative to it, so "https://example.com/v2/" and the
// path "users/2" produce "https://example.com/v2/users/2".
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := config{
		BaseURL:    baseURL,
		header:     make(http.Header),
		httpClient: http.DefaultClient,
		logger:     logrus.StandardLogger(),
		clock:      clock.New(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.Port != 0 && cfg.Port != 80 {
		base.Host = net.JoinHostPort(base.Hostname(), strconv.Itoa(cfg.Port))
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
		if base.RawPath != "" {
			base.RawPath += "/"
		}
	}

	return &Client{
		base:     base,
		header:   cfg.header,
		username: cfg.Username,
		password: cfg.Password,
		token:    cfg.Token,
		client:   cfg.httpClient,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		clock:    cfg.clock,
	}, nil
}

// MustNew is New, but panics on error.
func MustNew(baseURL string, opts ...Option) *Client {
	c, err := New(baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// BaseURL returns the URL request paths are resolved against.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// URL returns the absolute URL for a request.
func (c *Client) URL(req *restapi.Request) (*url.URL, error) {
	// "./" keeps a path like "a:b" from parsing as a scheme
	u, err := c.base.Parse("./" + req.Path)
	if err != nil {
		return nil, err
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u, nil
}

// Send performs one HTTP request.  It returns an error only if the
// request could not be built or no response arrived; any HTTP status
// is reported through the Response.
func (c *Client) Send(ctx context.Context, req *restapi.Request) (resp *restapi.Response, err error) {
	u, err := c.URL(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		b, err := restdata.EncodeBytes(req.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), u.String(), body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq, req)

	requestID := httpReq.Header.Get(RequestIDHeader)
	log := c.logger.WithFields(logrus.Fields{
		"method":     req.Method,
		"url":        u.String(),
		"request_id": requestID,
	})

	start := c.clock.Now()
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		elapsed := c.clock.Now().Sub(start)
		c.metrics.observe(string(req.Method), 0, elapsed)
		log.WithFields(logrus.Fields{
			"elapsed": elapsed,
			"err":     err,
		}).Debug("Request failed")
		return nil, err
	}
	defer func() {
		err = firstError(err, httpResp.Body.Close())
		if err != nil {
			resp = nil
		}
	}()

	content, err := ioutil.ReadAll(httpResp.Body)
	elapsed := c.clock.Now().Sub(start)
	c.metrics.observe(string(req.Method), httpResp.StatusCode, elapsed)
	log = log.WithFields(logrus.Fields{
		"status":  httpResp.StatusCode,
		"elapsed": elapsed,
	})
	if err != nil {
		log.WithField("err", err).Debug("Reading response failed")
		return nil, err
	}
	log.Debug("Request complete")

	reason := reasonPhrase(httpResp)
	return &restapi.Response{
		StatusCode: httpResp.StatusCode,
		Body:       decodeBody(httpResp.StatusCode, reason, httpResp.Header.Get("Content-Type"), content),
		Reason:     reason,
	}, nil
}

func (c *Client) setHeaders(httpReq *http.Request, req *restapi.Request) {
	httpReq.Header.Set("Accept", restdata.JSONMediaType)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", restdata.JSONMediaType)
	}
	for k, vv := range c.header {
		httpReq.Header[k] = append([]string(nil), vv...)
	}
	for k, vv := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
	}
	switch {
	case c.token != "":
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	case c.username != "":
		httpReq.SetBasicAuth(c.username, c.password)
	}
	if httpReq.Header.Get(RequestIDHeader) == "" {
		httpReq.Header.Set(RequestIDHeader, uuid.NewV4().String())
	}
}

// decodeBody turns a response body into a generic value.  An empty
// body is nil; a body that is not JSON becomes an error payload.
func decodeBody(status int, reason, contentType string, content []byte) interface{} {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}
	var result interface{}
	if restdata.IsJSON(contentType) {
		err := restdata.DecodeBytes(contentType, content, &result)
		if err == nil {
			return result
		}
	}
	return restdata.ErrorResponse{
		Code:    status,
		Content: string(content),
		Message: reason,
	}.Payload()
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func firstError(e1, e2 error) error {
	if e1 != nil {
		return e1
	}
	return e2
}

// String describes the client for log messages.
func (c *Client) String() string {
	return fmt.Sprintf("restclient(%v)", c.base)
}

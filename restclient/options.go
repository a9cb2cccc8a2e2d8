// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// config collects the settings New() applies.  Only the fields with
// validate tags come from the caller as plain values.
type config struct {
	BaseURL  string `validate:"required,url"`
	Port     int    `validate:"gte=0,lte=65535"`
	Username string `validate:"required_with=Password"`
	Password string
	Token    string

	header     http.Header
	httpClient *http.Client
	logger     *logrus.Logger
	metrics    *Metrics
	clock      clock.Clock
}

var validate = validator.New()

// Option configures a Client as it is created.
type Option func(*config)

// Port sets the server's port.  Port 80 leaves the base URL alone;
// any other value replaces the base URL's port.
func Port(port int) Option {
	return func(c *config) {
		c.Port = port
	}
}

// BasicAuth sends HTTP basic authentication with every request.
func BasicAuth(username, password string) Option {
	return func(c *config) {
		c.Username = username
		c.Password = password
	}
}

// BearerToken sends an "Authorization: Bearer" header with every
// request.  It takes precedence over BasicAuth.
func BearerToken(token string) Option {
	return func(c *config) {
		c.Token = token
	}
}

// Header adds a header sent with every request.  Per-call headers
// with the same name replace it.
func Header(key, value string) Option {
	return func(c *config) {
		c.header.Add(key, value)
	}
}

// HTTPClient sets the underlying HTTP client.  The default is
// http.DefaultClient.
func HTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// Logger sets the logger requests are reported to.  The default is
// the logrus standard logger.
func Logger(logger *logrus.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records request counts and latencies in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// Clock sets the time source used to measure request latency.
func Clock(clk clock.Clock) Option {
	return func(c *config) {
		c.clock = clk
	}
}

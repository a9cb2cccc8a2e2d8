// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a Client reports to.  One
// Metrics may be shared by any number of clients.
type Metrics struct {
	// Requests counts completed requests by method and status
	// code.  Requests that got no response have status "error".
	Requests *prometheus.CounterVec

	// Latency observes request durations in seconds, by method.
	Latency *prometheus.HistogramVec
}

// NewMetrics creates unregistered collectors under a Prometheus
// namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "restclient",
				Name:      "requests_total",
				Help:      "Number of REST requests sent",
			},
			[]string{
				"method",
				"status",
			},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "restclient",
				Name:      "request_duration_seconds",
				Help:      "Time from sending a REST request to reading its response",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{
				"method",
			},
		),
	}
}

// Register registers the collectors with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	if err := r.Register(m.Requests); err != nil {
		return err
	}
	return r.Register(m.Latency)
}

func (m *Metrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	m.Requests.WithLabelValues(method, label).Inc()
	m.Latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

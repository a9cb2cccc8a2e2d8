// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-crest/restapi"
	"github.com/diffeo/go-crest/restclient"
	"github.com/diffeo/go-crest/restdata"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is an HTTP server that remembers the last request it got
// and answers with a fixed response.
type recorder struct {
	contentType string
	status      int
	body        string

	method string
	path   string
	query  url.Values
	header http.Header
	sent   map[string]interface{}
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.method = req.Method
	r.path = req.URL.Path
	r.query = req.URL.Query()
	r.header = req.Header.Clone()
	r.sent = nil
	if req.Body != nil {
		b, _ := ioutil.ReadAll(req.Body)
		if len(b) > 0 {
			_ = restdata.DecodeBytes(req.Header.Get("Content-Type"), b, &r.sent)
		}
	}
	if r.contentType != "" {
		w.Header().Set("Content-Type", r.contentType)
	}
	w.WriteHeader(r.status)
	_, _ = w.Write([]byte(r.body))
}

func newServer(t *testing.T, r *recorder) *httptest.Server {
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestEmptyURL(t *testing.T) {
	_, err := restclient.New("")
	assert.Error(t, err, "Expected error when given empty URL.")

	_, err = restclient.New("not a url")
	assert.Error(t, err)

	_, err = restclient.New("http://localhost/", restclient.BasicAuth("", "secret"))
	assert.Error(t, err)
}

func TestBaseURL(t *testing.T) {
	c := restclient.MustNew("https://reqres.in")
	assert.Equal(t, "https://reqres.in/", c.BaseURL().String())

	c = restclient.MustNew("https://example.com/v2", restclient.Port(8443))
	assert.Equal(t, "https://example.com:8443/v2/", c.BaseURL().String())

	c = restclient.MustNew("http://example.com:9000/", restclient.Port(80))
	assert.Equal(t, "http://example.com:9000/", c.BaseURL().String())

	u, err := c.URL(&restapi.Request{
		Path:  "api/users/2",
		Query: url.Values{"delay": {"3"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:9000/api/users/2?delay=3", u.String())
}

func TestSendGet(t *testing.T) {
	rec := &recorder{
		contentType: "application/json; charset=utf-8",
		status:      http.StatusOK,
		body:        `{"data": {"id": 2, "first_name": "Janet"}}`,
	}
	server := newServer(t, rec)
	c := restclient.MustNew(server.URL+"/prefix", restclient.Header("X-Client", "crest"))

	resp, err := c.Send(context.Background(), &restapi.Request{
		Method: restapi.MethodGet,
		Path:   "api/users/2",
		Query:  url.Values{"delay": {"1"}},
		Header: http.Header{"X-Trace": {"abc"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", resp.Reason)
	body, ok := resp.Body.(map[string]interface{})
	require.True(t, ok, "body is %T", resp.Body)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "data is %T", body["data"])
	assert.Equal(t, "Janet", data["first_name"])
	assert.EqualValues(t, 2, data["id"])

	assert.Equal(t, "GET", rec.method)
	assert.Equal(t, "/prefix/api/users/2", rec.path)
	assert.Equal(t, "1", rec.query.Get("delay"))
	assert.Equal(t, "crest", rec.header.Get("X-Client"))
	assert.Equal(t, "abc", rec.header.Get("X-Trace"))
	assert.Equal(t, restdata.JSONMediaType, rec.header.Get("Accept"))
	assert.NotEmpty(t, rec.header.Get(restclient.RequestIDHeader))
	assert.Empty(t, rec.header.Get("Content-Type"))
	assert.Nil(t, rec.sent)
}

func TestSendPost(t *testing.T) {
	rec := &recorder{
		contentType: "application/json",
		status:      http.StatusCreated,
		body:        `{"name": "morpheus", "id": "7"}`,
	}
	server := newServer(t, rec)
	c := restclient.MustNew(server.URL)

	resp, err := c.Send(context.Background(), &restapi.Request{
		Method: restapi.MethodPost,
		Path:   "api/users",
		Body:   map[string]interface{}{"name": "morpheus", "job": "leader"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "POST", rec.method)
	assert.Equal(t, "/api/users", rec.path)
	assert.Equal(t, restdata.JSONMediaType, rec.header.Get("Content-Type"))
	assert.Equal(t, map[string]interface{}{"name": "morpheus", "job": "leader"}, rec.sent)
}

func TestNonJSONResponse(t *testing.T) {
	rec := &recorder{
		contentType: "text/html",
		status:      http.StatusNotFound,
		body:        "<html>nope</html>",
	}
	server := newServer(t, rec)
	c := restclient.MustNew(server.URL)

	resp, err := c.Send(context.Background(), &restapi.Request{
		Method: restapi.MethodGet,
		Path:   "api/unknown/23",
	})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "Not Found", resp.Reason)
	assert.Equal(t, map[string]interface{}{
		"code":    http.StatusNotFound,
		"content": "<html>nope</html>",
		"message": "Not Found",
	}, resp.Body)
}

func TestEmptyResponse(t *testing.T) {
	rec := &recorder{status: http.StatusNoContent}
	server := newServer(t, rec)
	c := restclient.MustNew(server.URL)

	resp, err := c.Send(context.Background(), &restapi.Request{
		Method: restapi.MethodDelete,
		Path:   "api/users/2",
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Nil(t, resp.Body)
}

func TestAuthentication(t *testing.T) {
	rec := &recorder{status: http.StatusOK}
	server := newServer(t, rec)
	req := &restapi.Request{Method: restapi.MethodGet, Path: "me"}
	ctx := context.Background()

	c := restclient.MustNew(server.URL, restclient.BasicAuth("eve", "pistol"))
	_, err := c.Send(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Basic ZXZlOnBpc3RvbA==", rec.header.Get("Authorization"))

	c = restclient.MustNew(server.URL,
		restclient.BasicAuth("eve", "pistol"),
		restclient.BearerToken("QpwL5tke4Pnpja7X4"))
	_, err = c.Send(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Bearer QpwL5tke4Pnpja7X4", rec.header.Get("Authorization"))
}

func TestMetrics(t *testing.T) {
	rec := &recorder{status: http.StatusOK, body: "{}"}
	server := newServer(t, rec)
	m := restclient.NewMetrics("test")
	c := restclient.MustNew(server.URL,
		restclient.WithMetrics(m),
		restclient.Clock(clock.NewMock()))

	for i := 0; i < 3; i++ {
		_, err := c.Send(context.Background(), &restapi.Request{Method: restapi.MethodGet, Path: "x"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Latency))
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	m := restclient.NewMetrics("test")
	c := restclient.MustNew(baseURL, restclient.WithMetrics(m))
	_, err := c.Send(context.Background(), &restapi.Request{Method: restapi.MethodGet, Path: "x"})
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "error")))
}

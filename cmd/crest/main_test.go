// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diffeo/go-crest/reqres"
	"github.com/diffeo/go-crest/restdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

func TestParseAssignments(t *testing.T) {
	result, err := parseAssignments([]string{"id=2", "q=a=b", "empty="})
	if assert.NoError(t, err) {
		assert.Equal(t, map[string]string{
			"id":    "2",
			"q":     "a=b",
			"empty": "",
		}, result)
	}

	_, err = parseAssignments([]string{"id"})
	assert.Error(t, err)

	_, err = parseAssignments([]string{"=2"})
	assert.Error(t, err)
}

func parseYAML(t *testing.T, text string) map[string]interface{} {
	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(text), &raw))
	return raw
}

func TestDecodeConfigDefaults(t *testing.T) {
	cfg, err := decodeConfig(map[string]interface{}{})
	if assert.NoError(t, err) {
		assert.Equal(t, ":8080", cfg.Listen)
		assert.Equal(t, "/metrics", cfg.Metrics)
		assert.Empty(t, cfg.Collections)
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := decodeConfig(parseYAML(t, `
listen: ":9090"
base: api
collections:
  users:
    per_page: 2
    seed:
      - {first_name: George, last_name: Bluth}
      - {first_name: Janet, last_name: Weaver}
  things: {}
`))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "api", cfg.Base)
	if assert.Contains(t, cfg.Collections, "users") {
		users := cfg.Collections["users"]
		assert.Equal(t, 2, users.PerPage)
		if assert.Len(t, users.Seed, 2) {
			assert.Equal(t, "Janet", users.Seed[1]["first_name"])
		}
	}
	assert.Contains(t, cfg.Collections, "things")
}

func TestDecodeConfigUnknownKey(t *testing.T) {
	_, err := decodeConfig(parseYAML(t, `
listen: ":9090"
colections: {}
`))
	assert.Error(t, err)
}

func TestDecodeConfigInvalid(t *testing.T) {
	_, err := decodeConfig(parseYAML(t, `
collections:
  users:
    per_page: -1
`))
	assert.Error(t, err)

	_, err = decodeConfig(parseYAML(t, `listen: ""`))
	assert.Error(t, err)
}

func decodeResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, restdata.Decode(resp.Header.Get("Content-Type"), resp.Body, &body))
	return body
}

func TestServeCollections(t *testing.T) {
	cfg, err := decodeConfig(parseYAML(t, `
base: api
collections:
  users:
    per_page: 1
    seed:
      - {first_name: George}
`))
	require.NoError(t, err)
	def, resources, err := collectionAPI(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "users_item"}, def.Fields())

	handler, err := buildHandler(def, resources, cfg.Metrics)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/users", restdata.JSONMediaType,
		strings.NewReader(`{"first_name": "Janet"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "/api/users/2"),
		"Location %q", resp.Header.Get("Location"))
	created := decodeResponse(t, resp)
	assert.Equal(t, "Janet", created["first_name"])
	assert.Contains(t, created, "createdAt")

	resp, err = http.Get(server.URL + "/api/users?page=2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeResponse(t, resp)
	assert.EqualValues(t, 2, page["total"])
	assert.EqualValues(t, 2, page["total_pages"])
	if data, ok := page["data"].([]interface{}); assert.True(t, ok) && assert.Len(t, data, 1) {
		assert.Equal(t, "Janet", data[0].(map[string]interface{})["first_name"])
	}

	resp, err = http.Get(server.URL + "/api/users/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	item := decodeResponse(t, resp)
	if data, ok := item["data"].(map[string]interface{}); assert.True(t, ok) {
		assert.Equal(t, "George", data["first_name"])
	}

	resp, err = http.Get(server.URL + "/api/users/9")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(server.URL + cfg.Metrics)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// runApp runs the command line with output captured.
func runApp(t *testing.T, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	saved := cli.OsExiter
	cli.OsExiter = func(int) {}
	defer func() { cli.OsExiter = saved }()
	err := app.Run(append([]string{"crest"}, args...))
	return out.String(), err
}

func TestCallCommand(t *testing.T) {
	fake := reqres.NewServer()
	fake.Seed()
	handler, err := fake.Handler()
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	defer server.Close()

	out, err := runApp(t, "call", "--url", server.URL, "--base", "api", "GET", "users/{id}", "id=2")
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, restdata.DecodeBytes(restdata.JSONMediaType, []byte(out), &result))
	if data, ok := result["data"].(map[string]interface{}); assert.True(t, ok) {
		assert.EqualValues(t, 2, data["id"])
		assert.Equal(t, "Janet", data["first_name"])
	}

	out, err = runApp(t, "call", "--url", server.URL, "--base", "api",
		"--param", "page=2", "GET", "users")
	require.NoError(t, err)
	require.NoError(t, restdata.DecodeBytes(restdata.JSONMediaType, []byte(out), &result))
	assert.EqualValues(t, 2, result["page"])

	_, err = runApp(t, "call", "--url", server.URL, "--base", "api", "GET", "users/{id}", "id=23")
	assert.Error(t, err)

	_, err = runApp(t, "call", "--url", server.URL, "GET")
	assert.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) string {
	filename := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestSchemaFlatten(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"type": "object",
		"properties": {"path": {"$ref": "#/definitions/line"}}
	}`)
	line := writeFile(t, dir, "line.yaml", `
type: array
items: {$ref: "#/definitions/point"}
definitions:
  point:
    type: object
    properties:
      x: {type: number}
      y: {type: number}
`)

	out, err := runApp(t, "schema", "flatten", root, line)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, restdata.DecodeBytes(restdata.JSONMediaType, []byte(out), &doc))

	definitions, ok := doc["definitions"].(map[string]interface{})
	require.True(t, ok, "flattened document %q has no definitions", out)
	lineDef, ok := definitions["line"].(map[string]interface{})
	require.True(t, ok, "definitions %v have no line", definitions)
	assert.Equal(t, map[string]interface{}{"$ref": "#/definitions/line/definitions/point"}, lineDef["items"])
	path := doc["properties"].(map[string]interface{})["path"]
	assert.Equal(t, map[string]interface{}{"$ref": "#/definitions/line"}, path)

	_, err = runApp(t, "schema", "flatten", root, line, line)
	assert.Error(t, err)
}

func TestSchemaValidate(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.yaml", `
type: object
required: [name]
properties:
  name: {type: string}
`)
	good := writeFile(t, dir, "good.json", `{"name": "George"}`)
	bad := writeFile(t, dir, "bad.yaml", "name: 3\n")

	out, err := runApp(t, "schema", "validate", user, good)
	assert.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	out, err = runApp(t, "schema", "validate", user, bad)
	assert.Error(t, err)
	assert.Contains(t, out, "/name")
}

func TestSchemaValidateShortKeys(t *testing.T) {
	dir := t.TempDir()
	point := writeFile(t, dir, "point.yaml", `
type: object
required: [x, y]
properties:
  x: {type: number}
  y: {type: number}
`)
	good := writeFile(t, dir, "good.yaml", "x: 1\ny: 2\n")
	bad := writeFile(t, dir, "bad.yaml", "x: 1\n")

	out, err := runApp(t, "schema", "validate", point, good)
	assert.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, err = runApp(t, "schema", "validate", point, bad)
	assert.Error(t, err)
}

func TestDefinitionName(t *testing.T) {
	assert.Equal(t, "user", definitionName("/schemas/user.yaml"))
	assert.Equal(t, "point", definitionName("point.json"))
	assert.Equal(t, "line", definitionName("line"))
}

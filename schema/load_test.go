// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointJSON = `{
  "type": "object",
  "properties": {"location": {"$ref": "#/definitions/point"}},
  "definitions": {
    "point": {
      "type": "object",
      "properties": {"x": {"type": "number"}, "y": {"type": "number"}},
      "required": ["x", "y"]
    }
  }
}`

const pointYAML = `
type: object
properties:
  location:
    $ref: "#/definitions/point"
definitions:
  point:
    type: object
    properties:
      x: {type: number}
      y: {type: number}
    required: [x, y]
`

func TestFromJSONAndYAML(t *testing.T) {
	fromJSON, err := FromJSON([]byte(pointJSON))
	require.NoError(t, err)
	fromYAML, err := FromYAML([]byte(pointYAML))
	require.NoError(t, err)

	jsonBytes, err := fromJSON.MarshalJSON()
	require.NoError(t, err)
	yamlBytes, err := fromYAML.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(jsonBytes), string(yamlBytes))

	good := map[string]interface{}{"location": map[string]interface{}{"x": 1, "y": 2.5}}
	bad := map[string]interface{}{"location": map[string]interface{}{"x": 1}}
	for _, node := range []*Node{fromJSON, fromYAML} {
		assert.NoError(t, node.Validate(good))
		assert.Error(t, node.Validate(bad))
	}
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"type": `))
	var cerr *ConfigurationError
	assert.IsType(t, cerr, err)
}

func TestFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "schema")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	jsonFile := filepath.Join(dir, "point.json")
	yamlFile := filepath.Join(dir, "point.yaml")
	require.NoError(t, ioutil.WriteFile(jsonFile, []byte(pointJSON), 0644))
	require.NoError(t, ioutil.WriteFile(yamlFile, []byte(pointYAML), 0644))

	for _, filename := range []string{jsonFile, yamlFile} {
		node, err := FromFile(filename)
		if assert.NoError(t, err, filename) {
			assert.NoError(t, node.Validate(map[string]interface{}{}))
		}
	}

	_, err = FromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

type reflectedUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func TestReflect(t *testing.T) {
	user, err := Reflect(&reflectedUser{})
	require.NoError(t, err)
	doc := user.Document().(map[string]interface{})
	assert.NotContains(t, doc, "$schema")
	assert.Equal(t, "object", doc["type"])

	assert.NoError(t, user.Validate(reflectedUser{ID: 1, Email: "a@example.com"}))
	assert.Error(t, user.Validate(map[string]interface{}{"id": "one", "email": "a@example.com"}))
	assert.NoError(t, user.Validate(map[string]interface{}{"id": 1, "email": "a@example.com", "createdAt": "now"}))

	// Reflected schemas embed like any other.
	list := MustNew(map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"$ref": "#/definitions/user"},
		"definitions": map[string]interface{}{
			"user": user,
		},
	})
	assert.NoError(t, list.Validate([]reflectedUser{{ID: 1, Email: "a@example.com"}}))
	assert.Error(t, list.Validate([]interface{}{map[string]interface{}{"email": 7}}))
}

func TestFromYAMLShortKeys(t *testing.T) {
	node, err := FromYAML([]byte(`
type: object
properties:
  y: {type: number}
  n: {type: number}
  on: {type: boolean}
  off: {type: boolean}
required: [y, n, on, off]
`))
	require.NoError(t, err)
	doc := node.Document().(map[string]interface{})
	properties := doc["properties"].(map[string]interface{})
	for _, key := range []string{"y", "n", "on", "off"} {
		assert.Contains(t, properties, key)
	}
	assert.Equal(t, []interface{}{"y", "n", "on", "off"}, doc["required"])

	assert.NoError(t, node.Validate(map[string]interface{}{"y": 1, "n": 2, "on": true, "off": false}))
	assert.Error(t, node.Validate(map[string]interface{}{"y": 1}))
}

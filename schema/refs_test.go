// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointSchema(t *testing.T) *Node {
	inner, err := New(map[string]interface{}{
		"title": "inner_schema",
		"type":  "object",
		"properties": map[string]interface{}{
			"point": map[string]interface{}{
				"type": "object",
				"$ref": "#/definitions/point",
			},
		},
		"definitions": map[string]interface{}{
			"point": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{"type": "number"},
					"y": map[string]interface{}{"type": "number"},
				},
			},
		},
	}, DeferReferences())
	require.NoError(t, err)
	return inner
}

func TestAdjustReferences(t *testing.T) {
	outer, err := New(map[string]interface{}{
		"title": "outer_schema",
		"type":  "object",
		"properties": map[string]interface{}{
			"inner_schema": map[string]interface{}{
				"type": "object",
				"$ref": "#/definitions/inner_schema",
			},
		},
		"definitions": map[string]interface{}{
			"inner_schema": pointSchema(t),
		},
	}, DeferReferences())
	require.NoError(t, err)

	instance := map[string]interface{}{
		"inner_schema": map[string]interface{}{
			"point": map[string]interface{}{"x": 5, "y": 10},
		},
	}

	// Before the references are adjusted, the inner schema's
	// reference to its point definition points nowhere.
	err = outer.Validate(instance)
	var cerr *CompileError
	assert.True(t, errors.As(err, &cerr), "got %v", err)

	require.NoError(t, outer.AdjustReferences())
	assert.NoError(t, outer.Validate(instance))

	doc := outer.Document().(map[string]interface{})
	innerDoc := doc["definitions"].(map[string]interface{})["inner_schema"].(map[string]interface{})
	pointProp := innerDoc["properties"].(map[string]interface{})["point"].(map[string]interface{})
	assert.Equal(t, "#/definitions/inner_schema/definitions/point", pointProp["$ref"])
	outerProp := doc["properties"].(map[string]interface{})["inner_schema"].(map[string]interface{})
	assert.Equal(t, "#/definitions/inner_schema", outerProp["$ref"])

	bad := map[string]interface{}{
		"inner_schema": map[string]interface{}{
			"point": map[string]interface{}{"x": "five"},
		},
	}
	var verr *ValidationError
	if assert.True(t, errors.As(outer.Validate(bad), &verr)) {
		leaves := verr.Leaves()
		require.NotEmpty(t, leaves)
		assert.Equal(t, "/inner_schema/point/x", leaves[0].Path)
	}
}

func TestAdjustReferencesAfterEmbed(t *testing.T) {
	// The embedded schema was already finalized, so its reference
	// pointed at its own root definitions; in the composite it has
	// to move.
	point := MustNew(map[string]interface{}{
		"$ref": "#/definitions/point",
		"definitions": map[string]interface{}{
			"point": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"x", "y"},
			},
		},
	})
	line := MustNew(map[string]interface{}{
		"type":  "array",
		"items": point,
	})
	doc := line.Document().(map[string]interface{})
	items := doc["items"].(map[string]interface{})
	assert.Equal(t, "#/items/definitions/point", items["$ref"])

	// The source node is unchanged.
	assert.Equal(t, "#/definitions/point", point.Document().(map[string]interface{})["$ref"])

	assert.NoError(t, line.Validate([]interface{}{
		map[string]interface{}{"x": 1, "y": 2},
	}))
	assert.Error(t, line.Validate([]interface{}{
		map[string]interface{}{"x": 1},
	}))
}

func TestAmbiguousReference(t *testing.T) {
	point := MustNew(map[string]interface{}{
		"$ref": "#/definitions/point",
		"definitions": map[string]interface{}{
			"point": map[string]interface{}{"type": "object"},
		},
	})
	_, err := New(map[string]interface{}{
		"properties": map[string]interface{}{
			"a": point,
			"b": point,
		},
	})
	assert.True(t, errors.Is(err, ErrAmbiguousReference), "got %v", err)
}

func TestUnresolvedReference(t *testing.T) {
	_, err := New(map[string]interface{}{
		"properties": map[string]interface{}{
			"a": map[string]interface{}{"$ref": "#/definitions/missing"},
		},
	})
	assert.True(t, errors.Is(err, ErrUnresolvedReference), "got %v", err)
	var cerr *ConfigurationError
	if assert.True(t, errors.As(err, &cerr)) {
		assert.Equal(t, "#/properties/a/$ref", cerr.Path)
	}
}

func TestNonLocalReferencesUntouched(t *testing.T) {
	node, err := New(map[string]interface{}{
		"properties": map[string]interface{}{
			"self":   map[string]interface{}{"$ref": "#"},
			"remote": map[string]interface{}{"$ref": "http://example.com/schema.json"},
		},
	}, DeferReferences())
	require.NoError(t, err)
	require.NoError(t, node.AdjustReferences())
	doc := node.Document().(map[string]interface{})
	props := doc["properties"].(map[string]interface{})
	assert.Equal(t, "#", props["self"].(map[string]interface{})["$ref"])
	assert.Equal(t, "http://example.com/schema.json", props["remote"].(map[string]interface{})["$ref"])
}

func TestReferenceInsideArray(t *testing.T) {
	node, err := New(map[string]interface{}{
		"allOf": []interface{}{
			map[string]interface{}{"$ref": "#/nowhere/named"},
			map[string]interface{}{
				"$defs": map[string]interface{}{
					"named": map[string]interface{}{"type": "string"},
				},
			},
		},
	})
	require.NoError(t, err)
	doc := node.Document().(map[string]interface{})
	first := doc["allOf"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "#/allOf/1/$defs/named", first["$ref"])
	assert.NoError(t, node.Validate("text"))
	assert.Error(t, node.Validate(5))
}

func TestEscapedDefinitionNames(t *testing.T) {
	node, err := New(map[string]interface{}{
		"$ref": "#/definitions/a~1b",
		"definitions": map[string]interface{}{
			"a/b": map[string]interface{}{"type": "integer"},
		},
	})
	require.NoError(t, err)
	doc := node.Document().(map[string]interface{})
	assert.Equal(t, "#/definitions/a~1b", doc["$ref"])
	assert.NoError(t, node.Validate(3))
	assert.Error(t, node.Validate("three"))
}

func TestPointer(t *testing.T) {
	assert.Equal(t, "#", pointer(nil))
	assert.Equal(t, "#/a/0/b~1c/d~0e", pointer([]string{"a", "0", "b/c", "d~e"}))

	name, local := referenceName("#/definitions/b~1c")
	assert.True(t, local)
	assert.Equal(t, "b/c", name)
	_, local = referenceName("#")
	assert.False(t, local)
	_, local = referenceName("other.json#/definitions/x")
	assert.False(t, local)
}

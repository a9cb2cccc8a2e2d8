// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("get")
	require.NoError(t, err)
	assert.Equal(t, MethodGet, m)

	m, err = ParseMethod("Patch")
	require.NoError(t, err)
	assert.Equal(t, MethodPatch, m)

	_, err = ParseMethod("FETCH")
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr), "got %v", err)
}

func TestMethodSet(t *testing.T) {
	s, err := NewMethodSet(MethodPost, MethodGet, MethodPost)
	require.NoError(t, err)
	assert.True(t, s.Has(MethodGet))
	assert.True(t, s.Has(MethodPost))
	assert.False(t, s.Has(MethodDelete))
	assert.False(t, s.Has(Method("FETCH")))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Method{MethodGet, MethodPost}, s.Methods())
	assert.Equal(t, "GET,POST", s.String())
}

func TestMethodSetRejectsUnknown(t *testing.T) {
	_, err := NewMethodSet(MethodGet, Method("get"))
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr), "got %v", err)
}

func TestMethodHasBody(t *testing.T) {
	for _, m := range allMethods {
		switch m {
		case MethodPost, MethodPut, MethodPatch:
			assert.True(t, m.hasBody(), "%v", m)
		default:
			assert.False(t, m.hasBody(), "%v", m)
		}
	}
}

// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package reqres

import (
	"github.com/diffeo/go-crest/schema"
)

// UserSchema describes one user record.  It is reflected from User.
var UserSchema = mustReflect(User{})

// userDefinitions carries the user schema as a named definition.
// Schemas that embed it refer to "#/definitions/user" and their
// references are rewritten to wherever it lands.
var userDefinitions = schema.MustNew(map[string]interface{}{
	"definitions": map[string]interface{}{
		"user": UserSchema,
	},
})

// SingleSchema describes the response to fetching one user.
var SingleSchema = schema.MustNew(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"data"},
	"properties": map[string]interface{}{
		"data": map[string]interface{}{"$ref": "#/definitions/user"},
	},
	"definitions": map[string]interface{}{
		"shared": userDefinitions,
	},
})

// PageSchema describes one page of the user listing.
var PageSchema = schema.MustNew(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"page", "per_page", "total", "total_pages", "data"},
	"properties": map[string]interface{}{
		"page":        map[string]interface{}{"type": "integer", "minimum": 1},
		"per_page":    map[string]interface{}{"type": "integer", "minimum": 1},
		"total":       map[string]interface{}{"type": "integer", "minimum": 0},
		"total_pages": map[string]interface{}{"type": "integer", "minimum": 0},
		"data": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"$ref": "#/definitions/user"},
		},
	},
	"definitions": map[string]interface{}{
		"shared": userDefinitions,
	},
})

// CreatedSchema describes the response to creating a user.
var CreatedSchema = schema.MustNew(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id", "createdAt"},
	"properties": map[string]interface{}{
		"createdAt": map[string]interface{}{"type": "string"},
	},
})

// CredentialsSchema describes a registration request.
var CredentialsSchema = schema.MustNew(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"email", "password"},
	"properties": map[string]interface{}{
		"email":    map[string]interface{}{"type": "string", "minLength": 1},
		"password": map[string]interface{}{"type": "string", "minLength": 1},
	},
})

// TokenSchema describes a successful registration.
var TokenSchema = mustReflect(Token{})

func mustReflect(v interface{}) *schema.Node {
	n, err := schema.Reflect(v)
	if err != nil {
		panic(err)
	}
	return n
}

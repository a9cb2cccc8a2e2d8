// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package reqres

import (
	"context"

	"github.com/diffeo/go-crest/restapi"
)

// Endpoints holds the bound endpoints of one registry.
type Endpoints struct {
	Users    *restapi.Bound
	User     *restapi.Bound
	Create   *restapi.Bound
	Register *restapi.Bound
}

// Client makes typed calls to the reqres API.
type Client struct {
	Registry  *restapi.Registry
	Endpoints Endpoints
}

// NewClient binds Definition to a transport.
func NewClient(t restapi.Transport, opts ...restapi.RegistryOption) (*Client, error) {
	c := &Client{Registry: Definition.New(t, opts...)}
	if err := c.Registry.Bind(&c.Endpoints); err != nil {
		return nil, err
	}
	return c, nil
}

// ListUsers fetches one page of users.  Pages are numbered from 1.
func (c *Client) ListUsers(ctx context.Context, page int) (*UserPage, error) {
	var result UserPage
	err := c.Endpoints.Users.InvokeInto(ctx, restapi.MethodGet, restapi.Args{"page": page}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser fetches one user.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var result struct {
		Data User `json:"data"`
	}
	err := c.Endpoints.User.InvokeInto(ctx, restapi.MethodGet, restapi.Args{"id": id}, &result)
	if err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// UpdateUser changes some fields of a user and returns the result.
func (c *Client) UpdateUser(ctx context.Context, id int, changes map[string]interface{}) (*User, error) {
	var result struct {
		Data User `json:"data"`
	}
	err := c.Endpoints.User.InvokeInto(ctx, restapi.MethodPost, restapi.Args{
		"id":   id,
		"body": changes,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// CreateUser creates a user with a name and job.
func (c *Client) CreateUser(ctx context.Context, name, job string) (*CreatedUser, error) {
	var result CreatedUser
	err := c.Endpoints.Create.InvokeInto(ctx, restapi.MethodPost, restapi.Args{
		"name": name,
		"job":  job,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register registers an existing user and returns their token.
func (c *Client) Register(ctx context.Context, email, password string) (*Token, error) {
	var result Token
	err := c.Endpoints.Register.InvokeInto(ctx, restapi.MethodPost, restapi.Args{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package reqres declares the API of the https://reqres.in/ test
// service, a small user directory.  It serves as a worked example of
// declaring an API with composed response schemas, calling it through
// a typed client, and faking it with an in-memory server.
//
//     c, err := reqres.NewClient(restclient.MustNew("https://reqres.in/"))
//     user, err := c.GetUser(ctx, 2)
package reqres

import (
	"github.com/diffeo/go-crest/restapi"
)

// Definition is the reqres.in API.
var Definition = restapi.Define("reqres",
	restapi.GlobalAPIBase("api"),
	restapi.Declare("users", restapi.Get("users",
		restapi.ResultSchema(PageSchema))),
	restapi.Declare("user", restapi.GetPost("users/{id}",
		restapi.ResultSchema(SingleSchema))),
	restapi.Declare("create", restapi.Post("users",
		restapi.ResultSchema(CreatedSchema))),
	restapi.Declare("register", restapi.Post("register",
		restapi.RequestSchema(CredentialsSchema),
		restapi.ResultSchema(TokenSchema))),
)

// User is one user record.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
}

// UserPage is one page of the user listing.
type UserPage struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

// CreatedUser is the response to creating a user.
type CreatedUser struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Job       string `json:"job"`
	CreatedAt string `json:"createdAt"`
}

// Token is the response to a successful registration.
type Token struct {
	ID    int    `json:"id"`
	Token string `json:"token"`
}

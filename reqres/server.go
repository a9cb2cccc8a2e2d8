// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package reqres

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/diffeo/go-crest/memory"
	"github.com/diffeo/go-crest/restdata"
	"github.com/diffeo/go-crest/restserver"
	"github.com/satori/go.uuid"
)

// ErrUndefinedUser is returned from registration when the email
// address does not belong to a known user.
var ErrUndefinedUser = restdata.ErrBadRequest{Err: errors.New("Note: Only defined users succeed registration")}

// Server is an in-memory fake of the reqres API.
type Server struct {
	users *memory.Collection
}

// NewServer creates a fake with no users.
func NewServer(opts ...memory.Option) *Server {
	opts = append([]memory.Option{memory.ItemEndpoint("user")}, opts...)
	return &Server{users: memory.NewCollection(opts...)}
}

// Users returns the backing collection.
func (s *Server) Users() *memory.Collection {
	return s.users
}

// AddUser stores a user, assigning its id, and returns the stored
// record.
func (s *Server) AddUser(u User) User {
	item := s.users.Add(memory.Item{
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"avatar":     u.Avatar,
	})
	u.ID = item["id"].(int)
	return u
}

// Seed adds the first page of the real service's users.
func (s *Server) Seed() {
	for _, name := range [][3]string{
		{"george.bluth@reqres.in", "George", "Bluth"},
		{"janet.weaver@reqres.in", "Janet", "Weaver"},
		{"emma.wong@reqres.in", "Emma", "Wong"},
		{"eve.holt@reqres.in", "Eve", "Holt"},
		{"charles.morris@reqres.in", "Charles", "Morris"},
		{"tracey.ramos@reqres.in", "Tracey", "Ramos"},
	} {
		id := s.users.Len() + 1
		s.AddUser(User{
			Email:     name[0],
			FirstName: name[1],
			LastName:  name[2],
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		})
	}
}

// Resources returns the implementation of every endpoint in
// Definition.
func (s *Server) Resources() map[string]restserver.Resource {
	user := s.users.ItemResource()
	update := user.Post
	user.Post = func(ctx *restserver.Context) (interface{}, error) {
		item, err := update(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"data": item}, nil
	}
	return map[string]restserver.Resource{
		"users":    {Get: s.users.ListResource().Get},
		"create":   {Post: s.users.ListResource().Post},
		"user":     user,
		"register": {Post: s.register},
	}
}

// Handler returns an HTTP handler serving the fake.
func (s *Server) Handler(opts ...restserver.Option) (http.Handler, error) {
	return restserver.NewHandler(Definition, s.Resources(), opts...)
}

func (s *Server) register(ctx *restserver.Context) (interface{}, error) {
	body, _ := ctx.Body.(map[string]interface{})
	email, _ := body["email"].(string)
	item, ok := s.users.Find(func(item memory.Item) bool {
		return item["email"] == email
	})
	if !ok {
		return nil, ErrUndefinedUser
	}
	return map[string]interface{}{
		"id":    item["id"],
		"token": uuid.NewV4().String(),
	}, nil
}

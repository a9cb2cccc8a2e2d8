// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"strconv"

	"github.com/diffeo/go-crest/restserver"
)

// ListResource serves the whole collection: GET lists one page,
// selected by the "page" and "per_page" query parameters, and POST
// creates an item.
func (c *Collection) ListResource() restserver.Resource {
	return restserver.Resource{
		Get:  c.serveList,
		Post: c.serveCreate,
	}
}

// ItemResource serves single items at an endpoint with an {id}
// placeholder.  GET returns {"data": item}; PUT replaces, PATCH
// merges, and DELETE removes.
func (c *Collection) ItemResource() restserver.Resource {
	return restserver.Resource{
		Get:    c.serveGet,
		Put:    c.serveUpdate(true),
		Patch:  c.serveUpdate(false),
		Post:   c.serveUpdate(false),
		Delete: c.serveDelete,
	}
}

func (c *Collection) serveList(ctx *restserver.Context) (interface{}, error) {
	page, err := ctx.IntQuery("page", 1)
	if err != nil {
		return nil, err
	}
	perPage, err := ctx.IntQuery("per_page", c.perPage)
	if err != nil {
		return nil, err
	}
	result, err := c.List(page, perPage)
	if err != nil {
		return nil, err
	}
	return result.Payload(), nil
}

func (c *Collection) serveCreate(ctx *restserver.Context) (interface{}, error) {
	item, err := c.Create(ctx.Body)
	if err != nil {
		return nil, err
	}
	created := restserver.Created{Body: map[string]interface{}(item)}
	if c.itemEndpoint != "" {
		created.Location, err = ctx.URL(c.itemEndpoint, "id", strconv.Itoa(item["id"].(int)))
	}
	return created, err
}

func (c *Collection) serveGet(ctx *restserver.Context) (interface{}, error) {
	id, err := ctx.IntVar("id")
	if err != nil {
		return nil, err
	}
	item, ok := c.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	return map[string]interface{}{"data": map[string]interface{}(item)}, nil
}

func (c *Collection) serveUpdate(replace bool) func(*restserver.Context) (interface{}, error) {
	return func(ctx *restserver.Context) (interface{}, error) {
		id, err := ctx.IntVar("id")
		if err != nil {
			return nil, err
		}
		item, err := c.Update(id, ctx.Body, replace)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}(item), nil
	}
}

func (c *Collection) serveDelete(ctx *restserver.Context) (interface{}, error) {
	id, err := ctx.IntVar("id")
	if err != nil {
		return nil, err
	}
	return nil, c.Delete(id)
}

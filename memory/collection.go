// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides in-process, in-memory resource collections
// that plug into restserver.  There is no persistence, nor is there
// any sharing between collections.  Each collection is behind a
// single mutex to protect against concurrent updates.
//
// This is mostly intended for fixtures that let a declared API be
// exercised end to end without a real service.  It is tuned for
// correctness, not performance or scalability.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-crest/restdata"
)

// DefaultPerPage is the page size when neither the collection nor
// the request sets one.
const DefaultPerPage = 6

// ErrNotObject is returned when a created or updated item is not a
// JSON object.
var ErrNotObject = restdata.ErrBadRequest{Err: errors.New("Item must be an object")}

// Item is one stored resource.
type Item map[string]interface{}

// Collection is a set of JSON objects with integer ids.
type Collection struct {
	lock         sync.Mutex
	clock        clock.Clock
	perPage      int
	itemEndpoint string
	items        map[int]Item
	nextID       int
}

// Option configures a Collection as it is created.
type Option func(*Collection)

// WithClock sets the time source for the createdAt and updatedAt
// stamps.
func WithClock(clk clock.Clock) Option {
	return func(c *Collection) {
		c.clock = clk
	}
}

// PerPage sets the default page size for List.
func PerPage(n int) Option {
	return func(c *Collection) {
		c.perPage = n
	}
}

// ItemEndpoint names the endpoint single items are served at, whose
// template has an {id} placeholder.  If set, Create responses carry a
// Location: header.
func ItemEndpoint(name string) Option {
	return func(c *Collection) {
		c.itemEndpoint = name
	}
}

// NewCollection creates an empty collection.
func NewCollection(opts ...Option) *Collection {
	c := &Collection{
		clock:   clock.New(),
		perPage: DefaultPerPage,
		items:   make(map[int]Item),
		nextID:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// copyItem copies the top level of an item; values are shared, but
// nothing here modifies them.
func copyItem(item Item) Item {
	result := make(Item, len(item))
	for k, v := range item {
		result[k] = v
	}
	return result
}

func asItem(v interface{}) (Item, error) {
	switch t := v.(type) {
	case Item:
		return copyItem(t), nil
	case map[string]interface{}:
		return copyItem(t), nil
	case nil:
		return Item{}, nil
	}
	return nil, ErrNotObject
}

// Add stores a new item, assigning it the next id, and returns a copy
// of what was stored.  It does not add timestamps.
func (c *Collection) Add(item Item) Item {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.add(copyItem(item))
}

func (c *Collection) add(item Item) Item {
	id := c.nextID
	c.nextID++
	item["id"] = id
	c.items[id] = item
	return copyItem(item)
}

// Get returns a copy of an item.
func (c *Collection) Get(id int) (Item, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return copyItem(item), true
}

// Len returns the number of stored items.
func (c *Collection) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.items)
}

// Find returns the first item, in id order, for which match returns
// true.
func (c *Collection) Find(match func(Item) bool) (Item, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, id := range c.ids() {
		if match(c.items[id]) {
			return copyItem(c.items[id]), true
		}
	}
	return nil, false
}

// ids returns the stored ids in order.  Call with the lock held.
func (c *Collection) ids() []int {
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Page is one page of a listing.
type Page struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []Item `json:"data"`
}

// Payload returns the page as a generic value.
func (p Page) Payload() map[string]interface{} {
	data := make([]interface{}, len(p.Data))
	for i, item := range p.Data {
		data[i] = map[string]interface{}(item)
	}
	return map[string]interface{}{
		"page":        p.Page,
		"per_page":    p.PerPage,
		"total":       p.Total,
		"total_pages": p.TotalPages,
		"data":        data,
	}
}

// List returns one page of items, in id order.  Pages are numbered
// from 1; a page past the end is empty.
func (c *Collection) List(page, perPage int) (Page, error) {
	if page < 1 || perPage < 1 {
		return Page{}, restdata.ErrBadRequest{Err: fmt.Errorf("invalid page %d of %d", page, perPage)}
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	ids := c.ids()
	result := Page{
		Page:       page,
		PerPage:    perPage,
		Total:      len(ids),
		TotalPages: (len(ids) + perPage - 1) / perPage,
		Data:       []Item{},
	}
	start := (page - 1) * perPage
	for i := start; i < len(ids) && i < start+perPage; i++ {
		result.Data = append(result.Data, copyItem(c.items[ids[i]]))
	}
	return result, nil
}

func (c *Collection) stamp() string {
	return c.clock.Now().UTC().Format(time.RFC3339)
}

// Create stores a new item with a createdAt timestamp.
func (c *Collection) Create(v interface{}) (Item, error) {
	item, err := asItem(v)
	if err != nil {
		return nil, err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	item["createdAt"] = c.stamp()
	return c.add(item), nil
}

func notFound(id int) error {
	return restdata.ErrNotFound{Err: fmt.Errorf("No such item %d", id)}
}

// Update changes an existing item and stamps updatedAt.  If replace
// is true the stored item becomes exactly v; otherwise the keys of v
// are merged into it.  The id never changes.
func (c *Collection) Update(id int, v interface{}, replace bool) (Item, error) {
	changes, err := asItem(v)
	if err != nil {
		return nil, err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	item, ok := c.items[id]
	if !ok {
		return nil, notFound(id)
	}
	if replace {
		item = Item{}
	}
	for k, v := range changes {
		item[k] = v
	}
	item["id"] = id
	item["updatedAt"] = c.stamp()
	c.items[id] = item
	return copyItem(item), nil
}

// Delete removes an item.
func (c *Collection) Delete(id int) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.items[id]; !ok {
		return notFound(id)
	}
	delete(c.items, id)
	return nil
}

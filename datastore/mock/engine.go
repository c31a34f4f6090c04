/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/suparena/entityext/datastore"
	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

// Engine is an in-memory datastore.Engine. Owning records are resolved
// through the embedded Owners registry.
type Engine struct {
	*datastore.Owners

	mu          sync.RWMutex
	collections map[string]*Collection
	defines     atomic.Int64
	defineError error
	clock       func() time.Time
}

// NewEngine creates an empty in-memory engine
func NewEngine() *Engine {
	return &Engine{
		Owners:      datastore.NewOwners(),
		collections: make(map[string]*Collection),
		clock:       time.Now,
	}
}

// WithDefineError makes Define return an error
func (e *Engine) WithDefineError(err error) *Engine {
	e.defineError = err
	return e
}

// WithClock replaces the time source used for createdAt
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// Define registers a record type. Defining the same name twice is an error.
func (e *Engine) Define(ctx context.Context, rt *storagemodels.RecordType) (datastore.Collection, error) {
	e.defines.Add(1)
	if e.defineError != nil {
		return nil, e.defineError
	}
	if err := rt.Fields.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.collections[rt.Name]; exists {
		return nil, errors.NewAlreadyExistsError("record type", rt.Name)
	}
	c := &Collection{
		rt:    rt,
		data:  make(map[string]*storagemodels.Record),
		clock: e.clock,
	}
	e.collections[rt.Name] = c
	return c, nil
}

// DefineCount returns how many times Define was called, failed calls included
func (e *Engine) DefineCount() int {
	return int(e.defines.Load())
}

// Collection returns a previously defined collection
func (e *Engine) Collection(name string) (*Collection, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.collections[name]
	return c, ok
}

// Collection is an in-memory datastore.Collection
type Collection struct {
	mu          sync.RWMutex
	rt          *storagemodels.RecordType
	data        map[string]*storagemodels.Record
	clock       func() time.Time
	createError error
	findError   error
	removeError error
}

// WithCreateError makes Create operations return an error
func (c *Collection) WithCreateError(err error) *Collection {
	c.createError = err
	return c
}

// WithFindError makes Find and FindOne operations return an error
func (c *Collection) WithFindError(err error) *Collection {
	c.findError = err
	return c
}

// WithRemoveError makes Remove operations return an error
func (c *Collection) WithRemoveError(err error) *Collection {
	c.removeError = err
	return c
}

// Name returns the record type name
func (c *Collection) Name() string {
	return c.rt.Name
}

// Create stores a copy of rec with generated id and defaults applied
func (c *Collection) Create(ctx context.Context, rec *storagemodels.Record) (*storagemodels.Record, error) {
	if c.createError != nil {
		return nil, c.createError
	}

	stored := rec.Clone()
	if err := c.rt.Prepare(stored, c.clock()); err != nil {
		return nil, err
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[stored.ID]; exists {
		return nil, errors.NewAlreadyExistsError(c.rt.DefaultType, stored.ID)
	}
	c.data[stored.ID] = stored
	return stored.Clone(), nil
}

// Find returns matching records ordered by creation time, then id
func (c *Collection) Find(ctx context.Context, filter storagemodels.Filter) ([]*storagemodels.Record, error) {
	if c.findError != nil {
		return nil, c.findError
	}
	return c.match(filter), nil
}

// FindOne returns the first matching record
func (c *Collection) FindOne(ctx context.Context, filter storagemodels.Filter) (*storagemodels.Record, error) {
	results, err := c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NewNotFoundError(c.rt.DefaultType, describe(filter))
	}
	return results[0], nil
}

// Remove deletes matching records
func (c *Collection) Remove(ctx context.Context, filter storagemodels.Filter) (int64, error) {
	if c.removeError != nil {
		return 0, c.removeError
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for id, rec := range c.data {
		if filter.Matches(rec) {
			delete(c.data, id)
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored records
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Records returns copies of all stored records (for testing)
func (c *Collection) Records() []*storagemodels.Record {
	return c.match(nil)
}

func (c *Collection) match(filter storagemodels.Filter) []*storagemodels.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make([]*storagemodels.Record, 0)
	for _, rec := range c.data {
		if filter.Matches(rec) {
			results = append(results, rec.Clone())
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func describe(filter storagemodels.Filter) string {
	return "filter(" + strings.Join(filter.Keys(), ",") + ")"
}

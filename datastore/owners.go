/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/entityext/errors"
)

// OwnerLoader loads one owning record by identity.
type OwnerLoader func(ctx context.Context, id string) (Owner, error)

// Owners maps model names to the data stores holding their records.
// Engines without a native notion of models embed it to implement Resolve.
type Owners struct {
	mu      sync.RWMutex
	loaders map[string]OwnerLoader
}

// NewOwners creates an empty owner registry
func NewOwners() *Owners {
	return &Owners{
		loaders: make(map[string]OwnerLoader),
	}
}

// Register adds a loader for the given model name
func (o *Owners) Register(model string, load OwnerLoader) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.loaders[model]; exists {
		return fmt.Errorf("owner store for model %q already registered", model)
	}
	o.loaders[model] = load
	return nil
}

// Remove deletes the loader of a model
func (o *Owners) Remove(model string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.loaders[model]; !exists {
		return fmt.Errorf("owner store for model %q not found", model)
	}
	delete(o.loaders, model)
	return nil
}

// List returns all registered model names
func (o *Owners) List() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	models := make([]string, 0, len(o.loaders))
	for m := range o.loaders {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// Resolve loads the owner with the given identity from the model's store.
func (o *Owners) Resolve(ctx context.Context, model string, id string) (Owner, error) {
	o.mu.RLock()
	load, exists := o.loaders[model]
	o.mu.RUnlock()

	if !exists {
		return nil, errors.NewNotFoundError("owner store", model)
	}
	return load(ctx, id)
}

// RegisterOwnerStore registers a typed data store as the owner source of a model.
// A store returning (nil, nil) for a missing key is reported as not found.
func RegisterOwnerStore[T any, PT interface {
	*T
	Owner
}](o *Owners, model string, ds DataStore[T]) error {
	return o.Register(model, func(ctx context.Context, id string) (Owner, error) {
		entity, err := ds.GetOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if entity == nil {
			return nil, errors.NewNotFoundError(model, id)
		}
		return PT(entity), nil
	})
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sort"
	"sync"

	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

// TypeRegistry maps the EntityType attribute written next to each stored item
// to the record type that defines it, so a backend can decode the item again.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]*storagemodels.RecordType
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]*storagemodels.RecordType)}
}

// Register adds rt under its name. A name can only be registered once.
func (r *TypeRegistry) Register(rt *storagemodels.RecordType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[rt.Name]; exists {
		return errors.NewAlreadyExistsError("record type", rt.Name)
	}
	r.types[rt.Name] = rt
	return nil
}

// Get returns the record type registered under name.
func (r *TypeRegistry) Get(name string) (*storagemodels.RecordType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.types[name]
	if !ok {
		return nil, errors.NewNotFoundError("record type", name)
	}
	return rt, nil
}

// Names lists registered type names in sorted order.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"context"
	"sort"
	"sync"

	"github.com/suparena/entityext/datastore"
	"github.com/suparena/entityext/errors"
)

// Options is the argument object every generated method takes. A nil
// Options is the same as an empty one.
type Options map[string]any

// InstanceMethod is a method invoked on an owning record.
type InstanceMethod func(ctx context.Context, m *Model, owner datastore.Owner, opts Options) (any, error)

// StaticMethod is a method invoked on the model itself.
type StaticMethod func(ctx context.Context, m *Model, opts Options) (any, error)

// Schema is the method registry of a model: one table of instance methods
// and one of static methods, both keyed by name.
type Schema struct {
	name string

	mu      sync.RWMutex
	methods map[string]InstanceMethod
	statics map[string]StaticMethod
}

// NewSchema creates an empty schema for the named model.
func NewSchema(name string) *Schema {
	return &Schema{
		name:    name,
		methods: make(map[string]InstanceMethod),
		statics: make(map[string]StaticMethod),
	}
}

// Name returns the model name.
func (s *Schema) Name() string {
	return s.name
}

// AddMethod registers an instance method.
func (s *Schema) AddMethod(name string, fn InstanceMethod) error {
	return s.register(map[string]InstanceMethod{name: fn}, nil)
}

// AddStatic registers a static method.
func (s *Schema) AddStatic(name string, fn StaticMethod) error {
	return s.register(nil, map[string]StaticMethod{name: fn})
}

// register adds all methods or none of them.
func (s *Schema) register(methods map[string]InstanceMethod, statics map[string]StaticMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range sortedKeys(methods) {
		if _, exists := s.methods[name]; exists {
			return errors.NewDuplicateMethodError(s.name, "instance", name)
		}
	}
	for _, name := range sortedKeys(statics) {
		if _, exists := s.statics[name]; exists {
			return errors.NewDuplicateMethodError(s.name, "static", name)
		}
	}

	for name, fn := range methods {
		s.methods[name] = fn
	}
	for name, fn := range statics {
		s.statics[name] = fn
	}
	return nil
}

// HasMethod reports whether an instance method is registered under name.
func (s *Schema) HasMethod(name string) bool {
	_, ok := s.Method(name)
	return ok
}

// HasStatic reports whether a static method is registered under name.
func (s *Schema) HasStatic(name string) bool {
	_, ok := s.Static(name)
	return ok
}

// Method looks up an instance method.
func (s *Schema) Method(name string) (InstanceMethod, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.methods[name]
	return fn, ok
}

// Static looks up a static method.
func (s *Schema) Static(name string) (StaticMethod, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.statics[name]
	return fn, ok
}

// Methods returns the instance method names in sorted order.
func (s *Schema) Methods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.methods)
}

// Statics returns the static method names in sorted order.
func (s *Schema) Statics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.statics)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Model binds a schema to the engine its records live in.
type Model struct {
	schema *Schema
	engine datastore.Engine
}

// NewModel creates a model for schema backed by engine.
func NewModel(schema *Schema, engine datastore.Engine) *Model {
	return &Model{schema: schema, engine: engine}
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.schema.name
}

// Schema returns the model's method registry.
func (m *Model) Schema() *Schema {
	return m.schema
}

// Engine returns the engine the model persists through.
func (m *Model) Engine() datastore.Engine {
	return m.engine
}

// Call invokes a static method by name.
func (m *Model) Call(ctx context.Context, name string, opts Options) (any, error) {
	fn, ok := m.schema.Static(name)
	if !ok {
		return nil, errors.NewNotFoundError("static method", name)
	}
	return fn(ctx, m, opts)
}

// Invoke invokes an instance method by name on owner.
func (m *Model) Invoke(ctx context.Context, owner datastore.Owner, name string, opts Options) (any, error) {
	fn, ok := m.schema.Method(name)
	if !ok {
		return nil, errors.NewNotFoundError("instance method", name)
	}
	return fn(ctx, m, owner, opts)
}

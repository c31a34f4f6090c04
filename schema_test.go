/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entityext/datastore"
	"github.com/suparena/entityext/datastore/mock"
	"github.com/suparena/entityext/errors"
)

func TestSchemaRegistry(t *testing.T) {
	schema := NewSchema("User")

	hello := func(ctx context.Context, m *Model, owner datastore.Owner, opts Options) (any, error) {
		return "hello " + owner.OwnerID(), nil
	}
	count := func(ctx context.Context, m *Model, opts Options) (any, error) {
		return len(opts), nil
	}

	require.NoError(t, schema.AddMethod("hello", hello))
	require.NoError(t, schema.AddStatic("count", count))

	err := schema.AddMethod("hello", hello)
	assert.True(t, errors.IsDuplicateMethod(err))

	assert.True(t, schema.HasMethod("hello"))
	assert.False(t, schema.HasStatic("hello"))
	assert.Equal(t, []string{"hello"}, schema.Methods())
	assert.Equal(t, []string{"count"}, schema.Statics())
}

func TestSchemaRegisterIsAtomic(t *testing.T) {
	schema := NewSchema("User")
	noop := func(ctx context.Context, m *Model, opts Options) (any, error) { return nil, nil }
	require.NoError(t, schema.AddStatic("taken", noop))

	err := schema.register(
		map[string]InstanceMethod{"fresh": func(ctx context.Context, m *Model, o datastore.Owner, opts Options) (any, error) { return nil, nil }},
		map[string]StaticMethod{"taken": noop},
	)
	assert.True(t, errors.IsDuplicateMethod(err))
	assert.False(t, schema.HasMethod("fresh"), "a failed registration must not leave partial methods behind")
}

func TestModelDispatch(t *testing.T) {
	ctx := context.Background()
	schema := NewSchema("User")
	require.NoError(t, schema.AddMethod("hello", func(ctx context.Context, m *Model, owner datastore.Owner, opts Options) (any, error) {
		return m.Name() + ":" + owner.OwnerID(), nil
	}))
	require.NoError(t, schema.AddStatic("name", func(ctx context.Context, m *Model, opts Options) (any, error) {
		return m.Name(), nil
	}))

	model := NewModel(schema, mock.NewEngine())

	got, err := model.Invoke(ctx, datastore.Document{"id": "abc123"}, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "User:abc123", got)

	got, err = model.Call(ctx, "name", nil)
	require.NoError(t, err)
	assert.Equal(t, "User", got)

	_, err = model.Call(ctx, "missing", nil)
	assert.True(t, errors.IsNotFound(err))

	_, err = model.Invoke(ctx, datastore.Document{"id": "abc123"}, "missing", nil)
	assert.True(t, errors.IsNotFound(err))
}

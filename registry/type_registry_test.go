/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

func TestTypeRegistry(t *testing.T) {
	r := NewTypeRegistry()
	badge := storagemodels.NewRecordType("Badge", nil)

	require.NoError(t, r.Register(badge))
	require.NoError(t, r.Register(storagemodels.NewRecordType("Award", nil)))

	got, err := r.Get("Badge")
	require.NoError(t, err)
	assert.Same(t, badge, got)

	err = r.Register(storagemodels.NewRecordType("Badge", nil))
	assert.True(t, errors.IsAlreadyExists(err))

	_, err = r.Get("Medal")
	assert.True(t, errors.IsNotFound(err))

	assert.Equal(t, []string{"Award", "Badge"}, r.Names())
}

type indexed struct {
	ID string
}

func TestIndexMapRegistry(t *testing.T) {
	_, ok := GetIndexMap[indexed]()
	assert.False(t, ok)

	RegisterIndexMap[indexed](map[string]string{"PK": "IDX#{ID}", "SK": "IDX#{ID}"})

	m, ok := GetIndexMap[indexed]()
	require.True(t, ok)
	assert.Equal(t, "IDX#{ID}", m["PK"])
}

func TestIndexMapIsCopied(t *testing.T) {
	type copied struct{ ID string }
	src := map[string]string{"PK": "C#{ID}", "SK": "C#{ID}"}
	RegisterIndexMap[copied](src)
	src["PK"] = "changed"

	m, ok := GetIndexMap[copied]()
	require.True(t, ok)
	assert.Equal(t, "C#{ID}", m["PK"])
}

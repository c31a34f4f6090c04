/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/entityext/storagemodels"
)

// Owner is an owning record: anything with a stable identity that extension
// records can reference through their modelId.
type Owner interface {
	OwnerID() string
}

// Document is a schemaless owning record as returned by document engines.
type Document map[string]any

// OwnerID returns the document's "id" attribute, falling back to "_id".
func (d Document) OwnerID() string {
	for _, k := range []string{"id", "_id"} {
		if v, ok := d[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
			if s, ok := v.(interface{ Hex() string }); ok {
				return s.Hex()
			}
		}
	}
	return ""
}

// Engine is the persistence collaborator the extension attacher consumes.
type Engine interface {
	// Define registers a record type and returns the collection holding it.
	Define(ctx context.Context, rt *storagemodels.RecordType) (Collection, error)

	// Resolve loads the owning record of the named model by identity.
	Resolve(ctx context.Context, model string, id string) (Owner, error)
}

// Collection holds the records of one record type.
type Collection interface {
	// Name returns the record type name the collection was defined with.
	Name() string

	// Create persists rec, filling in id, type, createdAt and field defaults.
	Create(ctx context.Context, rec *storagemodels.Record) (*storagemodels.Record, error)

	// Find returns every record matching filter.
	Find(ctx context.Context, filter storagemodels.Filter) ([]*storagemodels.Record, error)

	// FindOne returns the first record matching filter, or a not found error.
	FindOne(ctx context.Context, filter storagemodels.Filter) (*storagemodels.Record, error)

	// Remove deletes every record matching filter and returns how many were removed.
	Remove(ctx context.Context, filter storagemodels.Filter) (int64, error)
}

// DataStore persists owning records of a single type T.
type DataStore[T any] interface {
	GetOne(ctx context.Context, key string) (*T, error)

	Put(ctx context.Context, entity T) error

	Delete(ctx context.Context, key string) error
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"context"

	"github.com/suparena/entityext/datastore"
	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

// Records is the auxiliary collection handle of an extension. It is what the
// generated accessor returns, for queries beyond the generated shortcuts.
type Records struct {
	coll   datastore.Collection
	engine datastore.Engine
	owner  string
	rt     *storagemodels.RecordType
}

// Collection returns the underlying engine collection.
func (r *Records) Collection() datastore.Collection {
	return r.coll
}

// Type returns the record type the collection was defined with.
func (r *Records) Type() *storagemodels.RecordType {
	return r.rt
}

// OwnerModel returns the name of the model owning the records.
func (r *Records) OwnerModel() string {
	return r.owner
}

// Create persists a record owned by modelID. The reserved "id" and "type"
// keys of fields preset the record id and type.
func (r *Records) Create(ctx context.Context, modelID string, fields map[string]any) (*storagemodels.Record, error) {
	if modelID == "" {
		return nil, errors.NewValidationError(storagemodels.AttrModelID, "owner reference is required")
	}

	rec := &storagemodels.Record{ModelID: modelID, Fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		switch k {
		case storagemodels.AttrID, storagemodels.AttrType:
			s, ok := v.(string)
			if !ok {
				return nil, errors.NewValidationError(k, "must be a string")
			}
			if k == storagemodels.AttrID {
				rec.ID = s
			} else {
				rec.Type = s
			}
		case storagemodels.AttrModelID:
			if v != modelID {
				return nil, errors.NewValidationError(k, "does not match the owning record")
			}
		case storagemodels.AttrCreatedAt:
			return nil, errors.NewValidationError(k, "is set by the store")
		default:
			rec.Fields[k] = v
		}
	}
	return r.coll.Create(ctx, rec)
}

// Remove deletes the records of modelID that match filter.
func (r *Records) Remove(ctx context.Context, modelID string, filter storagemodels.Filter) (int64, error) {
	if modelID == "" {
		return 0, errors.NewValidationError(storagemodels.AttrModelID, "owner reference is required")
	}
	return r.coll.Remove(ctx, filter.With(storagemodels.AttrModelID, modelID))
}

// Find returns the records matching filter.
func (r *Records) Find(ctx context.Context, filter storagemodels.Filter) ([]*storagemodels.Record, error) {
	return r.coll.Find(ctx, filter)
}

// FindOne returns the first record matching filter.
func (r *Records) FindOne(ctx context.Context, filter storagemodels.Filter) (*storagemodels.Record, error) {
	return r.coll.FindOne(ctx, filter)
}

// FindModel resolves the owning record referenced by rec.
func (r *Records) FindModel(ctx context.Context, rec *storagemodels.Record) (datastore.Owner, error) {
	if rec == nil || rec.ModelID == "" {
		return nil, errors.NewValidationError(storagemodels.AttrModelID, "record has no owner reference")
	}
	return r.engine.Resolve(ctx, r.owner, rec.ModelID)
}

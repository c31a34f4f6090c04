/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/suparena/entityext/datastore"
	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

// Config names the table an extension is generated from.
type Config struct {
	// TableName derives every generated identifier and names the record type.
	TableName string `yaml:"tableName" json:"tableName"`
	// Schema holds extra record fields, merged next to type and modelId.
	Schema storagemodels.FieldSchema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Extension is one attachment of a table onto a schema. It owns the
// memoized auxiliary collection.
type Extension struct {
	cfg     Config
	names   MethodNames
	schema  *Schema
	log     logrus.FieldLogger
	metrics *Metrics

	mu      sync.Mutex
	records *Records
}

// Attach derives the method names for cfg.TableName and registers the
// generated create, find, remove, find-by and accessor methods on both the
// instance and static tables of schema. It fails without touching the schema
// when the table name is unusable or any derived name is already taken.
func Attach(schema *Schema, cfg Config, opts ...Option) (*Extension, error) {
	if schema == nil {
		return nil, errors.NewConfigError("schema", "is required")
	}
	names, err := DeriveNames(cfg.TableName)
	if err != nil {
		return nil, err
	}
	if err := cfg.Schema.Validate(); err != nil {
		return nil, errors.NewConfigError("schema", err.Error())
	}

	o := defaultAttachOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Extension{
		cfg:     cfg,
		names:   names,
		schema:  schema,
		metrics: NewMetrics(o.scope, names.Camel),
		log: o.logger.WithFields(logrus.Fields{
			"model": schema.Name(),
			"table": cfg.TableName,
		}),
	}

	methods := map[string]InstanceMethod{
		names.Create:   e.instanceCreate,
		names.Find:     e.instanceFind,
		names.Remove:   e.instanceRemove,
		names.FindBy:   e.findByMethod,
		names.Accessor: e.instanceAccessor,
	}
	statics := map[string]StaticMethod{
		names.Create:   e.staticCreate,
		names.Find:     e.staticFind,
		names.Remove:   e.staticRemove,
		names.FindBy:   e.staticFindBy,
		names.Accessor: e.staticAccessor,
	}
	if err := schema.register(methods, statics); err != nil {
		return nil, err
	}

	e.log.WithField("methods", names.All()).Debug("extension attached")
	return e, nil
}

// Names returns the generated method names.
func (e *Extension) Names() MethodNames {
	return e.names
}

// Config returns the configuration the extension was attached with.
func (e *Extension) Config() Config {
	return e.cfg
}

// Records returns the auxiliary collection, defining it through m's engine
// on first use. Later calls return the same handle whatever model they pass.
// A failed definition is not memoized.
func (e *Extension) Records(ctx context.Context, m *Model) (*Records, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.records != nil {
		return e.records, nil
	}
	if m == nil || m.Engine() == nil {
		return nil, errors.NewConfigError("model", "an engine is required to define the record type")
	}

	rt := storagemodels.NewRecordType(e.cfg.TableName, e.cfg.Schema)
	coll, err := m.Engine().Define(ctx, rt)
	if err != nil {
		e.metrics.DefineFail.Inc(1)
		e.log.WithError(err).Error("failed to define extension record type")
		return nil, fmt.Errorf("define %s: %w", e.cfg.TableName, err)
	}
	e.metrics.Define.Inc(1)

	e.records = &Records{
		coll:   coll,
		engine: m.Engine(),
		owner:  m.Name(),
		rt:     rt,
	}
	return e.records, nil
}

// Create persists a record owned by ownerID. fields may be nil.
func (e *Extension) Create(ctx context.Context, m *Model, ownerID string, fields Options) (rec *storagemodels.Record, err error) {
	defer e.observe(e.metrics.Create, e.names.Create, time.Now(), &err)

	records, err := e.Records(ctx, m)
	if err != nil {
		return nil, err
	}
	return records.Create(ctx, ownerID, fields)
}

// Find returns the records matching filter.
func (e *Extension) Find(ctx context.Context, m *Model, filter Options) (recs []*storagemodels.Record, err error) {
	defer e.observe(e.metrics.Find, e.names.Find, time.Now(), &err)

	records, err := e.Records(ctx, m)
	if err != nil {
		return nil, err
	}
	return records.Find(ctx, storagemodels.Filter(filter))
}

// Remove deletes the records of ownerID matching filter and returns the count.
func (e *Extension) Remove(ctx context.Context, m *Model, ownerID string, filter Options) (n int64, err error) {
	defer e.observe(e.metrics.Remove, e.names.Remove, time.Now(), &err)

	records, err := e.Records(ctx, m)
	if err != nil {
		return 0, err
	}
	return records.Remove(ctx, ownerID, storagemodels.Filter(filter))
}

// FindBy finds one record matching filter and resolves its owning record.
func (e *Extension) FindBy(ctx context.Context, m *Model, filter Options) (owner datastore.Owner, err error) {
	defer e.observe(e.metrics.FindBy, e.names.FindBy, time.Now(), &err)

	records, err := e.Records(ctx, m)
	if err != nil {
		return nil, err
	}
	rec, err := records.FindOne(ctx, storagemodels.Filter(filter))
	if err != nil {
		return nil, err
	}
	return records.FindModel(ctx, rec)
}

// observe counts the call and logs a failure before it is handed back to the caller.
func (e *Extension) observe(m opMetrics, method string, start time.Time, errp *error) {
	m.record(start, *errp)
	if *errp != nil {
		e.log.WithError(*errp).WithField("method", method).Warn("extension method failed")
		*errp = fmt.Errorf("%s: %w", method, *errp)
	}
}

func (e *Extension) accessor(ctx context.Context, m *Model) (records *Records, err error) {
	defer e.observe(e.metrics.Accessor, e.names.Accessor, time.Now(), &err)
	return e.Records(ctx, m)
}

// boxed keeps a typed nil result from leaking into the any return.
func boxed[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func identityOf(owner datastore.Owner) (string, error) {
	if owner == nil {
		return "", errors.NewValidationError(storagemodels.AttrModelID, "owning record is required")
	}
	id := owner.OwnerID()
	if id == "" {
		return "", errors.NewValidationError(storagemodels.AttrModelID, "owning record has no identity")
	}
	return id, nil
}

func (e *Extension) instanceCreate(ctx context.Context, m *Model, owner datastore.Owner, opts Options) (any, error) {
	id, err := identityOf(owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.names.Create, err)
	}
	return boxed(e.Create(ctx, m, id, opts))
}

// staticOwner reads the owner identity of a static call from opts["modelId"].
// A missing value yields "" and is reported by the operation itself.
func staticOwner(opts Options) (string, error) {
	v, ok := opts[storagemodels.AttrModelID]
	if !ok || v == nil {
		return "", nil
	}
	id, ok := v.(string)
	if !ok {
		return "", errors.NewValidationError(storagemodels.AttrModelID, fmt.Sprintf("modelId must be a string, got %T", v))
	}
	return id, nil
}

// staticCreate takes the owner identity from opts["modelId"].
func (e *Extension) staticCreate(ctx context.Context, m *Model, opts Options) (any, error) {
	id, err := staticOwner(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.names.Create, err)
	}
	return boxed(e.Create(ctx, m, id, opts))
}

func (e *Extension) instanceFind(ctx context.Context, m *Model, owner datastore.Owner, opts Options) (any, error) {
	id, err := identityOf(owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.names.Find, err)
	}
	return boxed(e.Find(ctx, m, Options(storagemodels.Filter(opts).With(storagemodels.AttrModelID, id))))
}

func (e *Extension) staticFind(ctx context.Context, m *Model, opts Options) (any, error) {
	return boxed(e.Find(ctx, m, opts))
}

func (e *Extension) instanceRemove(ctx context.Context, m *Model, owner datastore.Owner, opts Options) (any, error) {
	id, err := identityOf(owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.names.Remove, err)
	}
	return boxed(e.Remove(ctx, m, id, opts))
}

// staticRemove requires opts["modelId"] so a static call cannot empty the collection.
func (e *Extension) staticRemove(ctx context.Context, m *Model, opts Options) (any, error) {
	id, err := staticOwner(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.names.Remove, err)
	}
	return boxed(e.Remove(ctx, m, id, opts))
}

func (e *Extension) findByMethod(ctx context.Context, m *Model, _ datastore.Owner, opts Options) (any, error) {
	return boxed(e.FindBy(ctx, m, opts))
}

func (e *Extension) staticFindBy(ctx context.Context, m *Model, opts Options) (any, error) {
	return boxed(e.FindBy(ctx, m, opts))
}

func (e *Extension) instanceAccessor(ctx context.Context, m *Model, _ datastore.Owner, _ Options) (any, error) {
	return boxed(e.accessor(ctx, m))
}

func (e *Extension) staticAccessor(ctx context.Context, m *Model, _ Options) (any, error) {
	return boxed(e.accessor(ctx, m))
}

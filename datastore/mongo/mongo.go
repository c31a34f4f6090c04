/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suparena/entityext/datastore"
	exterrors "github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

// Engine implements datastore.Engine on a MongoDB database. Every record type
// and every owning model maps to one collection.
type Engine struct {
	db    *mongo.Database
	namer func(string) string
	clock func() time.Time

	mu      sync.Mutex
	defined map[string]*Collection
}

// Option configures an Engine
type Option func(*Engine)

// WithCollectionNamer overrides how model and table names map to collection names
func WithCollectionNamer(namer func(string) string) Option {
	return func(e *Engine) {
		e.namer = namer
	}
}

// WithClock replaces the time source used for createdAt
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// Connect opens a client for uri and returns an engine on database name.
func Connect(ctx context.Context, uri, database string, opts ...Option) (*Engine, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "failed to ping mongodb")
	}
	log.WithField("database", database).Info("MongoDB engine connected")
	return NewEngine(client.Database(database), opts...), nil
}

// NewEngine wraps an already connected database.
func NewEngine(db *mongo.Database, opts ...Option) *Engine {
	e := &Engine{
		db:      db,
		namer:   CollectionName,
		clock:   time.Now,
		defined: make(map[string]*Collection),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Database returns the underlying database handle.
func (e *Engine) Database() *mongo.Database {
	return e.db
}

// Close disconnects the underlying client.
func (e *Engine) Close(ctx context.Context) error {
	return e.db.Client().Disconnect(ctx)
}

// CollectionName lowercases a model name and pluralizes it with a trailing s.
func CollectionName(name string) string {
	n := strings.ToLower(name)
	if strings.HasSuffix(n, "s") {
		return n
	}
	return n + "s"
}

// Define creates the record collection handle and its modelId index.
func (e *Engine) Define(ctx context.Context, rt *storagemodels.RecordType) (datastore.Collection, error) {
	if err := rt.Fields.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.defined[rt.Name]; exists {
		return nil, exterrors.NewAlreadyExistsError("record type", rt.Name)
	}

	name := e.namer(rt.Name)
	coll := e.db.Collection(name)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: storagemodels.AttrModelID, Value: 1}},
		Options: options.Index().SetName("modelId_1"),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to index collection %s", name)
	}

	c := &Collection{rt: rt, coll: coll, clock: e.clock}
	e.defined[rt.Name] = c
	log.WithFields(log.Fields{
		"table":      rt.Name,
		"collection": name,
	}).Debug("record type defined")
	return c, nil
}

// Resolve loads the owning record from the model's collection. The id may be
// an ObjectID hex string or a plain string key.
func (e *Engine) Resolve(ctx context.Context, model string, id string) (datastore.Owner, error) {
	var doc bson.M
	err := e.db.Collection(e.namer(model)).FindOne(ctx, idFilter(id)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, exterrors.NewNotFoundError(model, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s %s", model, id)
	}
	return datastore.Document(doc), nil
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// Collection implements datastore.Collection on one MongoDB collection.
type Collection struct {
	rt    *storagemodels.RecordType
	coll  *mongo.Collection
	clock func() time.Time
}

// Name returns the record type name
func (c *Collection) Name() string {
	return c.rt.Name
}

// Create inserts rec with an ObjectID hex string as its id
func (c *Collection) Create(ctx context.Context, rec *storagemodels.Record) (*storagemodels.Record, error) {
	stored := rec.Clone()
	if err := c.rt.Prepare(stored, c.clock()); err != nil {
		return nil, err
	}
	if stored.ID == "" {
		stored.ID = primitive.NewObjectID().Hex()
	}
	// mongo keeps milliseconds only
	stored.CreatedAt = stored.CreatedAt.Truncate(time.Millisecond)

	if _, err := c.coll.InsertOne(ctx, stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, exterrors.NewAlreadyExistsError(c.rt.DefaultType, stored.ID)
		}
		return nil, errors.Wrap(err, "failed to insert record")
	}
	return stored, nil
}

// recordOrder sorts records by createdAt, then id
var recordOrder = bson.D{{Key: storagemodels.AttrCreatedAt, Value: 1}, {Key: "_id", Value: 1}}

// restore converts decoded BSON datetimes in rec back to time.Time
func (c *Collection) restore(rec *storagemodels.Record) *storagemodels.Record {
	c.rt.Fields.Restore(rec.Fields)
	return rec
}

// Find returns matching records ordered by createdAt, then id
func (c *Collection) Find(ctx context.Context, filter storagemodels.Filter) ([]*storagemodels.Record, error) {
	cur, err := c.coll.Find(ctx, ToBSON(filter), options.Find().SetSort(recordOrder))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query records")
	}
	records := make([]*storagemodels.Record, 0)
	if err := cur.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode records")
	}
	for _, rec := range records {
		c.restore(rec)
	}
	return records, nil
}

// FindOne returns the oldest matching record
func (c *Collection) FindOne(ctx context.Context, filter storagemodels.Filter) (*storagemodels.Record, error) {
	var rec storagemodels.Record
	err := c.coll.FindOne(ctx, ToBSON(filter), options.FindOne().SetSort(recordOrder)).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, exterrors.NewNotFoundError(c.rt.DefaultType, strings.Join(filter.Keys(), ","))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query record")
	}
	return c.restore(&rec), nil
}

// Remove deletes matching records
func (c *Collection) Remove(ctx context.Context, filter storagemodels.Filter) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, ToBSON(filter))
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete records")
	}
	return res.DeletedCount, nil
}

// ToBSON translates a record filter into a MongoDB query document. The id
// attribute maps to _id; caller fields are stored inline and map to themselves.
func ToBSON(filter storagemodels.Filter) bson.M {
	q := bson.M{}
	for k, v := range filter {
		if k == storagemodels.AttrID {
			q["_id"] = v
			continue
		}
		q[k] = v
	}
	return q
}

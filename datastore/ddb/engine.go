/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/suparena/entityext/datastore"
	exterrors "github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/registry"
	"github.com/suparena/entityext/storagemodels"
)

// EntityTypeAttr is written next to every extension record and names the
// record type it belongs to.
const EntityTypeAttr = "EntityType"

func partitionKey(entityType, modelID string) string {
	return "EXT#" + entityType + "#" + modelID
}

func typePartitionKey(entityType string) string {
	return "EXT#" + entityType
}

// Engine implements datastore.Engine on a single DynamoDB table. Owning
// records are resolved through the embedded owner registry.
type Engine struct {
	*datastore.Owners

	client    API
	tableName string
	index     GSIConfig
	keys      map[string]string
	types     *registry.TypeRegistry
	paging    storagemodels.PageOptions
	clock     func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithPageOptions tunes how Find walks result pages
func WithPageOptions(opts ...storagemodels.PageOption) Option {
	return func(e *Engine) {
		for _, opt := range opts {
			opt(&e.paging)
		}
	}
}

// WithRecordIndex selects the secondary index used for finds that do not
// constrain modelId
func WithRecordIndex(index GSIConfig) Option {
	return func(e *Engine) {
		e.index = index
	}
}

// WithClock replaces the time source used for createdAt
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// NewEngine creates an engine storing records in tableName. The table needs
// PK/SK string keys and, by default, a GSI1 index on PK1/SK1.
func NewEngine(client API, tableName string, opts ...Option) *Engine {
	e := &Engine{
		Owners:    datastore.NewOwners(),
		client:    client,
		tableName: tableName,
		index:     DefaultGSIConfigs[RecordIndex],
		types:     registry.NewTypeRegistry(),
		paging:    storagemodels.DefaultPageOptions(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.keys = recordKeyTemplates(e.index)
	return e
}

// Types returns the record types defined on this engine
func (e *Engine) Types() *registry.TypeRegistry {
	return e.types
}

// Define registers the record type. DynamoDB needs no per-type setup, so
// the collection is a view over the shared table.
func (e *Engine) Define(_ context.Context, rt *storagemodels.RecordType) (datastore.Collection, error) {
	if err := rt.Fields.Validate(); err != nil {
		return nil, err
	}
	if err := e.types.Register(rt); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"table":     rt.Name,
		"ddb_table": e.tableName,
	}).Debug("record type defined")
	return &Collection{engine: e, rt: rt}, nil
}

// Collection implements datastore.Collection for one record type
type Collection struct {
	engine *Engine
	rt     *storagemodels.RecordType
}

// Name returns the record type name
func (c *Collection) Name() string {
	return c.rt.Name
}

// Create stores rec under a generated UUID unless it already carries an id.
// A preset id already used by a record of this type, under any owner, fails
// with an already exists error. The lookup reads the record index, which is
// eventually consistent.
func (c *Collection) Create(ctx context.Context, rec *storagemodels.Record) (*storagemodels.Record, error) {
	stored := rec.Clone()
	if err := c.rt.Prepare(stored, c.engine.clock()); err != nil {
		return nil, err
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	} else {
		taken, err := c.idTaken(ctx, stored.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, exterrors.NewAlreadyExistsError(c.rt.DefaultType, stored.ID)
		}
	}

	item, err := c.marshal(stored)
	if err != nil {
		return nil, err
	}

	_, err = c.engine.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &c.engine.tableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, exterrors.NewAlreadyExistsError(c.rt.DefaultType, stored.ID)
		}
		return nil, fmt.Errorf("PutItem failed: %w", err)
	}
	return stored, nil
}

// idTaken looks the id up on the record index, whose key spans all owners.
func (c *Collection) idTaken(ctx context.Context, id string) (bool, error) {
	index := c.engine.index
	out, err := c.engine.client.Query(ctx, &sdk.QueryInput{
		TableName:              &c.engine.tableName,
		IndexName:              aws.String(index.IndexName),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :pk AND %s = :sk", index.PartitionKeyName, index.SortKeyName)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: typePartitionKey(c.rt.Name)},
			":sk": &types.AttributeValueMemberS{Value: "REC#" + id},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up record id %s: %w", id, err)
	}
	return len(out.Items) > 0, nil
}

func (c *Collection) marshal(rec *storagemodels.Record) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	item[EntityTypeAttr] = &types.AttributeValueMemberS{Value: c.rt.Name}
	for k, v := range expandAttributes(c.engine.keys, item) {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	return item, nil
}

func (c *Collection) unmarshal(item map[string]types.AttributeValue) (*storagemodels.Record, error) {
	var rec storagemodels.Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	rt := c.rt
	var entityType string
	if attr, ok := item[EntityTypeAttr]; ok && attributevalue.Unmarshal(attr, &entityType) == nil {
		if registered, err := c.engine.types.Get(entityType); err == nil {
			rt = registered
		}
	}
	rt.Fields.Restore(rec.Fields)
	return &rec, nil
}

// Find returns matching records ordered by createdAt, then id
func (c *Collection) Find(ctx context.Context, filter storagemodels.Filter) ([]*storagemodels.Record, error) {
	params, err := buildRecordQuery(c.engine.tableName, c.engine.index, c.rt.Name, filter)
	if err != nil {
		return nil, err
	}

	items, err := queryAll(ctx, c.engine.client, params, c.engine.paging)
	if err != nil {
		return nil, err
	}

	records := make([]*storagemodels.Record, 0, len(items))
	for _, item := range items {
		rec, err := c.unmarshal(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// FindOne returns the oldest matching record
func (c *Collection) FindOne(ctx context.Context, filter storagemodels.Filter) (*storagemodels.Record, error) {
	records, err := c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, exterrors.NewNotFoundError(c.rt.DefaultType, strings.Join(filter.Keys(), ","))
	}
	return records[0], nil
}

// Remove deletes matching records one item at a time
func (c *Collection) Remove(ctx context.Context, filter storagemodels.Filter) (int64, error) {
	records, err := c.Find(ctx, filter)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, rec := range records {
		_, err := c.engine.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName: &c.engine.tableName,
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: partitionKey(c.rt.Name, rec.ModelID)},
				"SK": &types.AttributeValueMemberS{Value: "REC#" + rec.ID},
			},
		})
		if err != nil {
			return removed, fmt.Errorf("failed to delete record %s: %w", rec.ID, err)
		}
		removed++
	}
	return removed, nil
}

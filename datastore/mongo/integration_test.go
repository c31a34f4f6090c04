//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/suparena/entityext"
	"github.com/suparena/entityext/datastore/mongo"
	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

func setupEngine(t *testing.T, opts ...mongo.Option) *mongo.Engine {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("entityext_test_%d", time.Now().UnixNano())
	engine, err := mongo.Connect(ctx, uri, dbName, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = engine.Database().Drop(context.Background())
		_ = engine.Close(context.Background())
	})
	return engine
}

func TestMongoExtensionLifecycle(t *testing.T) {
	engine := setupEngine(t)
	ctx := context.Background()

	schema := entityext.NewSchema("User")
	ext, err := entityext.Attach(schema, entityext.Config{TableName: "Badge"})
	require.NoError(t, err)
	model := entityext.NewModel(schema, engine)

	_, err = engine.Database().Collection("users").InsertOne(ctx, bson.M{"_id": "abc123", "name": "Ada"})
	require.NoError(t, err)

	rec, err := ext.Create(ctx, model, "abc123", entityext.Options{"code": "XYZ"})
	require.NoError(t, err)
	assert.Equal(t, "badge", rec.Type)

	found, err := ext.Find(ctx, model, entityext.Options{"modelId": "abc123"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	owner, err := ext.FindBy(ctx, model, entityext.Options{"code": "XYZ"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", owner.OwnerID())

	n, err := ext.Remove(ctx, model, "abc123", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = ext.FindBy(ctx, model, entityext.Options{"code": "XYZ"})
	assert.True(t, errors.IsNotFound(err))
}

func TestMongoRecordsKeepTypesAndOrder(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := setupEngine(t, mongo.WithClock(func() time.Time { return created }))
	ctx := context.Background()

	coll, err := engine.Define(ctx, storagemodels.NewRecordType("Badge", storagemodels.FieldSchema{
		"earnedAt": {Type: storagemodels.FieldDateTime},
	}))
	require.NoError(t, err)

	earned := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, id := range []string{"r2", "r1"} {
		_, err := coll.Create(ctx, &storagemodels.Record{ID: id, ModelID: "abc123", Fields: map[string]any{"earnedAt": earned}})
		require.NoError(t, err)
	}

	recs, err := coll.Find(ctx, storagemodels.Filter{"modelId": "abc123"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r1", recs[0].ID)
	assert.Equal(t, earned, recs[0].Fields["earnedAt"])

	rec, err := coll.FindOne(ctx, storagemodels.Filter{"modelId": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, earned, rec.Fields["earnedAt"])
}

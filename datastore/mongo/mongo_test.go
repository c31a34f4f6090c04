/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/suparena/entityext/storagemodels"
)

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "badges", CollectionName("Badge"))
	assert.Equal(t, "users", CollectionName("User"))
	assert.Equal(t, "news", CollectionName("News"))
}

func TestToBSON(t *testing.T) {
	q := ToBSON(storagemodels.Filter{"id": "r1", "modelId": "abc123", "level": 3})
	assert.Equal(t, bson.M{"_id": "r1", "modelId": "abc123", "level": 3}, q)
	assert.Equal(t, bson.M{}, ToBSON(nil))
}

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, bson.M{"_id": bson.M{"$in": bson.A{oid, oid.Hex()}}}, idFilter(oid.Hex()))
	assert.Equal(t, bson.M{"_id": "user-1"}, idFilter("user-1"))
}

func TestRecordBSONInlineFields(t *testing.T) {
	rec := storagemodels.Record{ID: "r1", Type: "badge", ModelID: "abc123", Fields: map[string]any{"level": 3.0}}

	raw, err := bson.Marshal(rec)
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "r1", doc["_id"])
	assert.Equal(t, 3.0, doc["level"])

	var back storagemodels.Record
	assert.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, "abc123", back.ModelID)
	assert.Equal(t, 3.0, back.Fields["level"])
}

func TestRecordBSONRestoresDateTimes(t *testing.T) {
	rt := storagemodels.NewRecordType("Badge", storagemodels.FieldSchema{
		"earnedAt": {Type: storagemodels.FieldDateTime},
		"note":     {Type: storagemodels.FieldString},
	})
	earned := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rec := &storagemodels.Record{ModelID: "abc123", Fields: map[string]any{"earnedAt": "2025-03-01T10:00:00Z", "note": "n"}}
	require.NoError(t, rt.Prepare(rec, time.Now()))
	assert.Equal(t, earned, rec.Fields["earnedAt"])

	raw, err := bson.Marshal(rec)
	require.NoError(t, err)

	var back storagemodels.Record
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.IsType(t, primitive.DateTime(0), back.Fields["earnedAt"])

	c := &Collection{rt: rt}
	c.restore(&back)
	assert.Equal(t, earned, back.Fields["earnedAt"])
	assert.Equal(t, "n", back.Fields["note"])
}

func TestRecordOrderBreaksTiesOnID(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}, recordOrder)
}

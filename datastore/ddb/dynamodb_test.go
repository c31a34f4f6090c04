/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/registry"
)

func init() {
	registry.RegisterIndexMap[member](map[string]string{
		"PK": "MEMBER#{Id}",
		"SK": "MEMBER#{Id}",
	})
}

type unindexed struct {
	ID string
}

func TestExpandAttributesFromEntity(t *testing.T) {
	av, err := attributevalue.MarshalMap(member{ID: "m1", Name: "Ada"})
	require.NoError(t, err)

	expanded := expandAttributes(map[string]string{
		"PK":  "MEMBER#{Id}",
		"SK":  "PROFILE",
		"PK1": "NAME#{Name}#{Missing}",
	}, av)

	assert.Equal(t, "MEMBER#m1", expanded["PK"])
	assert.Equal(t, "PROFILE", expanded["SK"])
	assert.Equal(t, "NAME#Ada#", expanded["PK1"])
}

func TestExpandAttributesScalars(t *testing.T) {
	expanded := expandAttributes(map[string]string{"K": "{N}/{B}/{L}"}, map[string]types.AttributeValue{
		"N": &types.AttributeValueMemberN{Value: "42"},
		"B": &types.AttributeValueMemberBOOL{Value: true},
		"L": &types.AttributeValueMemberL{},
	})
	assert.Equal(t, "42/true/", expanded["K"])
}

func TestExpandStringKey(t *testing.T) {
	expanded := expandStringKey(map[string]string{"PK": "MEMBER#{Id}", "SK": "MEMBER#{Id}"}, "m$1")
	assert.Equal(t, "MEMBER#m$1", expanded["PK"])

	_, err := buildKeyFromExpanded(map[string]string{"PK": "MEMBER#m1"})
	assert.Error(t, err)
}

func TestDataStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewDynamodbDataStore[member](newFakeClient(), "entities")

	client := store.client.(*fakeClient)
	require.NoError(t, store.Put(ctx, member{ID: "m1", Name: "Ada"}))
	stored := client.items["MEMBER#m1|MEMBER#m1"]
	require.NotNil(t, stored)
	assert.Equal(t, "Ada", str(stored["Name"]))

	got, err := store.GetOne(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.Name)

	require.NoError(t, store.Delete(ctx, "m1"))
	got, err = store.GetOne(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDataStoreWithoutIndexMap(t *testing.T) {
	store := NewDynamodbDataStore[unindexed](newFakeClient(), "entities")

	err := store.Put(context.Background(), unindexed{ID: "x"})
	assert.ErrorIs(t, err, errors.ErrNoIndexMap)

	_, err = store.GetOne(context.Background(), "x")
	assert.ErrorIs(t, err, errors.ErrNoIndexMap)
}

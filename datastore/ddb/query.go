/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/suparena/entityext/storagemodels"
)

// recordAttributes maps the fixed record attributes to their stored names.
// Every other filter key addresses a caller field under Fields.
var recordAttributes = map[string]string{
	storagemodels.AttrID:        "Id",
	storagemodels.AttrType:      "Type",
	storagemodels.AttrModelID:   "ModelId",
	storagemodels.AttrCreatedAt: "CreatedAt",
}

// buildRecordQuery translates a record filter into query parameters.
// A modelId constraint becomes the base table partition key; without one the
// query runs against the record index, which groups every record of the
// type. All other constraints become an equality FilterExpression.
func buildRecordQuery(tableName string, index GSIConfig, entityType string, filter storagemodels.Filter) (*storagemodels.QueryParams, error) {
	params := &storagemodels.QueryParams{
		TableName:                 tableName,
		ExpressionAttributeValues: map[string]types.AttributeValue{},
	}

	modelID, byOwner := filter.ModelID()
	if byOwner {
		params.KeyConditionExpression = "PK = :pk"
		params.ExpressionAttributeValues[":pk"] = &types.AttributeValueMemberS{Value: partitionKey(entityType, modelID)}
	} else {
		if index.IndexName == "" || index.PartitionKeyName == "" {
			return nil, fmt.Errorf("record index is not configured")
		}
		params.IndexName = aws.String(index.IndexName)
		params.KeyConditionExpression = fmt.Sprintf("%s = :pk", index.PartitionKeyName)
		params.ExpressionAttributeValues[":pk"] = &types.AttributeValueMemberS{Value: typePartitionKey(entityType)}
	}

	names := map[string]string{}
	var conditions []string
	for i, key := range filter.Keys() {
		if byOwner && key == storagemodels.AttrModelID {
			continue
		}

		nameRef := fmt.Sprintf("#a%d", i)
		valueRef := fmt.Sprintf(":v%d", i)
		path := nameRef
		if attr, fixed := recordAttributes[key]; fixed {
			names[nameRef] = attr
		} else {
			names["#fields"] = "Fields"
			names[nameRef] = key
			path = "#fields." + nameRef
		}

		av, err := attributevalue.Marshal(normalizeValue(filter[key]))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal filter value for %s: %w", key, err)
		}
		params.ExpressionAttributeValues[valueRef] = av
		conditions = append(conditions, fmt.Sprintf("%s = %s", path, valueRef))
	}

	if len(conditions) > 0 {
		params.FilterExpression = aws.String(strings.Join(conditions, " AND "))
		params.ExpressionAttributeNames = names
	}
	return params, nil
}

// normalizeValue brings date-time values into the form records are stored in.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case strfmt.DateTime:
		return time.Time(t).UTC()
	case *strfmt.DateTime:
		if t != nil {
			return time.Time(*t).UTC()
		}
	}
	return v
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory table understanding the key conditions and
// equality filter expressions this package generates.
type fakeClient struct {
	mu         sync.Mutex
	items      map[string]map[string]types.AttributeValue
	queryErrs  []error
	queryCalls int
	deletes    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func itemKey(key map[string]types.AttributeValue) string {
	return str(key["PK"]) + "|" + str(key["SK"])
}

func (f *fakeClient) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sdk.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := itemKey(in.Item)
	if aws.ToString(in.ConditionExpression) == "attribute_not_exists(PK)" {
		if _, exists := f.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("conditional check failed")}
		}
	}
	f.items[k] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemKey(in.Key))
	f.deletes++
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeClient) Query(_ context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if len(f.queryErrs) > 0 {
		err := f.queryErrs[0]
		f.queryErrs = f.queryErrs[1:]
		return nil, err
	}

	keyConds := map[string]string{}
	for _, cond := range strings.Split(aws.ToString(in.KeyConditionExpression), " AND ") {
		parts := strings.SplitN(cond, " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported key condition %q", cond)
		}
		keyConds[parts[0]] = str(in.ExpressionAttributeValues[parts[1]])
	}

	keys := make([]string, 0, len(f.items))
	for k, item := range f.items {
		if matchKeys(item, keyConds) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := itemKey(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	out := &sdk.QueryOutput{}
	end := len(keys)
	if in.Limit != nil && start+int(*in.Limit) < end {
		end = start + int(*in.Limit)
	}
	for _, k := range keys[start:end] {
		item := f.items[k]
		ok, err := matchFilter(item, in)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Items = append(out.Items, item)
		}
	}
	if end < len(keys) {
		last := f.items[keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": last["PK"], "SK": last["SK"]}
	}
	return out, nil
}

func matchKeys(item map[string]types.AttributeValue, conds map[string]string) bool {
	for attr, want := range conds {
		if str(item[attr]) != want {
			return false
		}
	}
	return true
}

func matchFilter(item map[string]types.AttributeValue, in *sdk.QueryInput) (bool, error) {
	if in.FilterExpression == nil {
		return true, nil
	}
	for _, cond := range strings.Split(*in.FilterExpression, " AND ") {
		parts := strings.SplitN(cond, " = ", 2)
		if len(parts) != 2 {
			return false, fmt.Errorf("unsupported condition %q", cond)
		}
		var got types.AttributeValue = &types.AttributeValueMemberM{Value: item}
		for _, ref := range strings.Split(parts[0], ".") {
			m, ok := got.(*types.AttributeValueMemberM)
			if !ok {
				return false, nil
			}
			got, ok = m.Value[in.ExpressionAttributeNames[ref]]
			if !ok {
				return false, nil
			}
		}
		if !reflect.DeepEqual(got, in.ExpressionAttributeValues[parts[1]]) {
			return false, nil
		}
	}
	return true, nil
}

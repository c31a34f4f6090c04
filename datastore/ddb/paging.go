/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"

	"github.com/suparena/entityext/storagemodels"
)

// queryAll walks every page of the query and returns the collected items.
func queryAll(
	ctx context.Context,
	client API,
	params *storagemodels.QueryParams,
	options storagemodels.PageOptions,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 &params.TableName,
		KeyConditionExpression:    &params.KeyConditionExpression,
		ExpressionAttributeNames:  params.ExpressionAttributeNames,
		ExpressionAttributeValues: params.ExpressionAttributeValues,
		FilterExpression:          params.FilterExpression,
		IndexName:                 params.IndexName,
		Limit:                     aws.Int32(options.PageSize),
		ScanIndexForward:          params.ScanIndexForward,
		ExclusiveStartKey:         params.ExclusiveStartKey,
	}

	progress := storagemodels.PageProgress{StartTime: time.Now()}
	var items []map[string]types.AttributeValue

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := queryWithRetry(ctx, client, input, options)
		if err != nil {
			return nil, err
		}

		items = append(items, out.Items...)
		progress.PagesProcessed++
		progress.ItemsProcessed += int64(len(out.Items))
		progress.LastKey = out.LastEvaluatedKey
		if options.ProgressHandler != nil {
			options.ProgressHandler(progress)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	return items, nil
}

// queryWithRetry executes one page query, retrying throttling and server
// errors with a backoff that doubles per attempt.
func queryWithRetry(
	ctx context.Context,
	client API,
	input *dynamodb.QueryInput,
	options storagemodels.PageOptions,
) (*dynamodb.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		out, err := client.Query(ctx, input)
		if err == nil {
			return out, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, fmt.Errorf("query error: %w", err)
		}

		if attempt < options.MaxRetries {
			backoff := options.RetryBackoff << attempt
			log.WithFields(log.Fields{
				"attempt": attempt + 1,
				"backoff": backoff,
			}).WithError(err).Debug("retrying DynamoDB query")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", options.MaxRetries, lastErr)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}

	return false
}

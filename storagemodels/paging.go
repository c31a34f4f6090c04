/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PageOptions configures how an engine walks a multi-page result set
type PageOptions struct {
	PageSize        int32              // Items per backend page (default: 100)
	MaxRetries      int                // Retry attempts for transient errors (default: 3)
	RetryBackoff    time.Duration      // Backoff between retries, doubled per attempt (default: 200ms)
	ProgressHandler func(PageProgress) // Optional progress callback, invoked after each page
}

// PageProgress tracks progress through a paged read
type PageProgress struct {
	ItemsProcessed int64                           // Total items read
	PagesProcessed int                             // Total pages read
	LastKey        map[string]types.AttributeValue // Last evaluated key, nil on the final page
	StartTime      time.Time                       // When the read started
}

// PageOption is a functional option for configuring paged reads
type PageOption func(*PageOptions)

// DefaultPageOptions returns default paging options
func DefaultPageOptions() PageOptions {
	return PageOptions{
		PageSize:     100,
		MaxRetries:   3,
		RetryBackoff: 200 * time.Millisecond,
	}
}

// WithPageSize sets the backend page size
func WithPageSize(size int32) PageOption {
	return func(opts *PageOptions) {
		opts.PageSize = size
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) PageOption {
	return func(opts *PageOptions) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the initial retry backoff duration
func WithRetryBackoff(backoff time.Duration) PageOption {
	return func(opts *PageOptions) {
		opts.RetryBackoff = backoff
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(PageProgress)) PageOption {
	return func(opts *PageOptions) {
		opts.ProgressHandler = handler
	}
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
)

type attachOptions struct {
	logger logrus.FieldLogger
	scope  tally.Scope
}

// Option configures Attach
type Option func(*attachOptions)

func defaultAttachOptions() attachOptions {
	return attachOptions{
		logger: logrus.StandardLogger(),
		scope:  tally.NoopScope,
	}
}

// WithLogger sets the logger generated methods report persistence errors to
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *attachOptions) {
		o.logger = logger
	}
}

// WithMetricsScope sets the tally scope for operation counters
func WithMetricsScope(scope tally.Scope) Option {
	return func(o *attachOptions) {
		o.scope = scope
	}
}

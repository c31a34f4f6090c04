/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"time"

	"github.com/uber-go/tally/v4"
)

// opMetrics tracks one generated operation
type opMetrics struct {
	Success tally.Counter
	Fail    tally.Counter
	Latency tally.Timer
}

func newOpMetrics(scope tally.Scope, op string) opMetrics {
	s := scope.SubScope(op)
	return opMetrics{
		Success: s.Counter("success"),
		Fail:    s.Counter("fail"),
		Latency: s.Timer("latency"),
	}
}

func (m opMetrics) record(start time.Time, err error) {
	m.Latency.Record(time.Since(start))
	if err != nil {
		m.Fail.Inc(1)
		return
	}
	m.Success.Inc(1)
}

// Metrics is the set of counters an extension reports, tagged by table
type Metrics struct {
	Create   opMetrics
	Find     opMetrics
	Remove   opMetrics
	FindBy   opMetrics
	Accessor opMetrics

	Define     tally.Counter
	DefineFail tally.Counter
}

// NewMetrics creates the extension metrics under scope
func NewMetrics(scope tally.Scope, table string) *Metrics {
	s := scope.SubScope("entityext").Tagged(map[string]string{"table": table})
	return &Metrics{
		Create:   newOpMetrics(s, "create"),
		Find:     newOpMetrics(s, "find"),
		Remove:   newOpMetrics(s, "remove"),
		FindBy:   newOpMetrics(s, "find_by"),
		Accessor: newOpMetrics(s, "accessor"),

		Define:     s.Counter("define"),
		DefineFail: s.Counter("define_fail"),
	}
}

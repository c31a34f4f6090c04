/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"reflect"
	"sort"
	"time"

	"github.com/go-openapi/strfmt"
)

// Attribute names shared by every extension record.
const (
	AttrID        = "id"
	AttrType      = "type"
	AttrModelID   = "modelId"
	AttrCreatedAt = "createdAt"
)

// Record is a single extension record. ModelID references the owning record.
// Fields holds the caller-defined attributes; the mongo engine stores them
// inline next to the fixed attributes.
type Record struct {
	ID        string         `json:"id" bson:"_id" dynamodbav:"Id"`
	Type      string         `json:"type" bson:"type" dynamodbav:"Type"`
	ModelID   string         `json:"modelId" bson:"modelId" dynamodbav:"ModelId"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt" dynamodbav:"CreatedAt"`
	Fields    map[string]any `json:"fields,omitempty" bson:",inline" dynamodbav:"Fields,omitempty"`
}

// Get returns the value of a named attribute, looking at the fixed
// attributes first and at Fields otherwise.
func (r *Record) Get(name string) (any, bool) {
	switch name {
	case AttrID:
		return r.ID, true
	case AttrType:
		return r.Type, true
	case AttrModelID:
		return r.ModelID, true
	case AttrCreatedAt:
		return r.CreatedAt, true
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Clone returns a copy of the record that shares no maps with the original.
func (r *Record) Clone() *Record {
	c := *r
	if r.Fields != nil {
		c.Fields = make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			c.Fields[k] = v
		}
	}
	return &c
}

// Filter is an equality match over record attributes.
type Filter map[string]any

// With returns a copy of f with name set to value.
func (f Filter) With(name string, value any) Filter {
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[name] = value
	return out
}

// ModelID returns the modelId constraint of the filter, if it carries one.
func (f Filter) ModelID() (string, bool) {
	v, ok := f[AttrModelID]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// Keys returns the filter attribute names in sorted order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Matches reports whether every constraint of the filter holds for rec.
// An empty filter matches everything.
func (f Filter) Matches(rec *Record) bool {
	for name, want := range f {
		got, ok := rec.Get(name)
		if !ok || !ValuesEqual(got, want) {
			return false
		}
	}
	return true
}

// ValuesEqual compares two attribute values, treating all numeric kinds as
// float64 and all date-time representations as instants.
func ValuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if ta, ok := toTime(a); ok {
		tb, ok := toTime(b)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case strfmt.DateTime:
		return time.Time(t), true
	case *strfmt.DateTime:
		if t == nil {
			return time.Time{}, false
		}
		return time.Time(*t), true
	case interface{ Time() time.Time }:
		// driver datetime types such as BSON's
		return t.Time(), true
	}
	return time.Time{}, false
}

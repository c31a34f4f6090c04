/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entityext/errors"
)

// FieldType is the value kind of a caller-defined record field.
type FieldType string

const (
	FieldAny      FieldType = "any"
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldBool     FieldType = "bool"
	FieldDateTime FieldType = "datetime"
)

// FieldDef describes one caller-defined field of an extension record.
//
// Format names a go-openapi/strfmt format ("email", "uuid", "date-time", ...)
// that string values must satisfy.
type FieldDef struct {
	Type     FieldType `yaml:"type" json:"type"`
	Format   string    `yaml:"format,omitempty" json:"format,omitempty"`
	Required bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any       `yaml:"default,omitempty" json:"default,omitempty"`
}

// UnmarshalYAML accepts both the mapping form and the scalar shorthand
// `level: number`.
func (d *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Type = FieldType(node.Value)
		return nil
	}
	type plain FieldDef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = FieldDef(p)
	return nil
}

// FieldSchema maps field names to their definitions. It is merged into the
// record type next to the fixed id, type, modelId and createdAt attributes.
type FieldSchema map[string]FieldDef

var reservedFields = map[string]bool{
	AttrID:        true,
	AttrType:      true,
	AttrModelID:   true,
	AttrCreatedAt: true,
}

// IsReserved reports whether name is one of the fixed record attributes.
func IsReserved(name string) bool {
	return reservedFields[name]
}

// Names returns the field names in sorted order.
func (s FieldSchema) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks the definitions themselves: no reserved or empty names,
// known types and known strfmt formats.
func (s FieldSchema) Validate() error {
	for _, name := range s.Names() {
		def := s[name]
		if strings.TrimSpace(name) == "" {
			return errors.NewValidationError("schema", "field name must not be empty")
		}
		if IsReserved(name) {
			return errors.NewValidationError(name, "field name is reserved")
		}
		switch def.Type {
		case "", FieldAny, FieldString, FieldNumber, FieldBool, FieldDateTime:
		default:
			return errors.NewValidationError(name, fmt.Sprintf("unknown field type %q", def.Type))
		}
		if def.Format != "" && !strfmt.Default.ContainsName(def.Format) {
			return errors.NewValidationError(name, fmt.Sprintf("unknown format %q", def.Format))
		}
		if def.Default != nil {
			if _, err := def.coerce(name, def.Default); err != nil {
				return err
			}
		}
	}
	return nil
}

// Apply returns a copy of fields with defaults filled in and every value
// checked against its definition. With an empty schema the record type is
// schemaless and fields pass through untouched; otherwise unknown fields are
// rejected.
func (s FieldSchema) Apply(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	if len(s) == 0 {
		for k, v := range fields {
			out[k] = v
		}
		return out, nil
	}

	for name, v := range fields {
		def, ok := s[name]
		if !ok {
			return nil, errors.NewValidationError(name, "field is not defined by the record schema")
		}
		cv, err := def.coerce(name, v)
		if err != nil {
			return nil, err
		}
		out[name] = cv
	}

	for _, name := range s.Names() {
		if _, ok := out[name]; ok {
			continue
		}
		def := s[name]
		if def.Default != nil {
			cv, err := def.coerce(name, def.Default)
			if err != nil {
				return nil, err
			}
			out[name] = cv
			continue
		}
		if def.Required {
			return nil, errors.NewValidationError(name, "field is required")
		}
	}
	return out, nil
}

func (d FieldDef) coerce(name string, v any) (any, error) {
	if v == nil {
		if d.Required {
			return nil, errors.NewValidationError(name, "field is required")
		}
		return nil, nil
	}

	switch d.Type {
	case FieldString:
		s, ok := v.(string)
		if !ok {
			return nil, errors.NewValidationError(name, fmt.Sprintf("expected string, got %T", v))
		}
		if d.Format != "" && !strfmt.Default.Validates(d.Format, s) {
			return nil, errors.NewValidationError(name, fmt.Sprintf("value %q is not a valid %s", s, d.Format))
		}
		return s, nil
	case FieldNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, errors.NewValidationError(name, fmt.Sprintf("expected number, got %T", v))
		}
		return f, nil
	case FieldBool:
		b, ok := v.(bool)
		if !ok {
			return nil, errors.NewValidationError(name, fmt.Sprintf("expected bool, got %T", v))
		}
		return b, nil
	case FieldDateTime:
		if t, ok := toTime(v); ok {
			return t.UTC(), nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, errors.NewValidationError(name, fmt.Sprintf("expected date-time, got %T", v))
		}
		dt, err := strfmt.ParseDateTime(s)
		if err != nil {
			return nil, errors.NewValidationError(name, fmt.Sprintf("value %q is not a valid date-time", s))
		}
		return time.Time(dt).UTC(), nil
	}

	if s, ok := v.(string); ok && d.Format != "" && !strfmt.Default.Validates(d.Format, s) {
		return nil, errors.NewValidationError(name, fmt.Sprintf("value %q is not a valid %s", s, d.Format))
	}
	return v, nil
}

// RecordType is the definition an engine materializes into a collection.
type RecordType struct {
	// Name is the configured table name, e.g. "Badge".
	Name string
	// DefaultType is the value stored in the type attribute when the caller
	// does not set one, the lowercased table name.
	DefaultType string
	// Fields are the caller-defined fields.
	Fields FieldSchema
}

// NewRecordType builds the record type for a table name.
func NewRecordType(name string, fields FieldSchema) *RecordType {
	return &RecordType{
		Name:        name,
		DefaultType: strings.ToLower(name),
		Fields:      fields,
	}
}

// Prepare fills in the type, createdAt and field defaults of rec and
// validates its fields. It is what every engine runs before persisting.
func (rt *RecordType) Prepare(rec *Record, now time.Time) error {
	if rec.ModelID == "" {
		return errors.NewValidationError(AttrModelID, "owner reference is required")
	}
	if rec.Type == "" {
		rec.Type = rt.DefaultType
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}
	fields, err := rt.Fields.Apply(rec.Fields)
	if err != nil {
		return err
	}
	rec.Fields = fields
	return nil
}

// Restore converts stored field values back to their declared kinds, for
// backends that keep datetimes as strings. Values that do not convert, and
// fields the schema does not define, are left as stored.
func (s FieldSchema) Restore(fields map[string]any) {
	for name, v := range fields {
		def, ok := s[name]
		if !ok || v == nil {
			continue
		}
		if cv, err := def.coerce(name, v); err == nil {
			fields[name] = cv
		}
	}
}

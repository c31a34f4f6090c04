/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entityext"
	"github.com/suparena/entityext/datastore"
	"github.com/suparena/entityext/errors"
)

// Manifest declares the models of an application and the extensions attached
// to each of them.
//
//	models:
//	  - name: User
//	    extensions:
//	      - tableName: Badge
//	        schema:
//	          code: string
//	          level: {type: number, default: 1}
type Manifest struct {
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig is one model and its extensions
type ModelConfig struct {
	Name       string             `yaml:"name"`
	Extensions []entityext.Config `yaml:"extensions"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and validates a YAML manifest. Unknown keys are
// rejected so that typos do not silently drop configuration.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.NewConfigError("manifest", err.Error())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks what Attach would reject before anything is attached:
// empty or repeated model names, unusable table names, invalid field schemas
// and two extensions of one model deriving the same method names.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Models))
	for i, model := range m.Models {
		if model.Name == "" {
			return errors.NewConfigError(fmt.Sprintf("models[%d].name", i), "is required")
		}
		if seen[model.Name] {
			return errors.NewConfigError(fmt.Sprintf("models[%d].name", i), fmt.Sprintf("model %q declared twice", model.Name))
		}
		seen[model.Name] = true

		methods := make(map[string]string)
		for j, ext := range model.Extensions {
			field := fmt.Sprintf("models[%d].extensions[%d]", i, j)
			names, err := entityext.DeriveNames(ext.TableName)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			if err := ext.Schema.Validate(); err != nil {
				return errors.NewConfigError(field+".schema", err.Error())
			}
			for _, name := range names.All() {
				if _, taken := methods[name]; taken {
					return errors.NewDuplicateMethodError(model.Name, "instance", name)
				}
				methods[name] = ext.TableName
			}
		}
	}
	return nil
}

// Bindings are the models and extensions built from a manifest.
type Bindings struct {
	Models     map[string]*entityext.Model
	Extensions map[string][]*entityext.Extension
}

// Extension returns the extension of model attached for tableName.
func (b *Bindings) Extension(model, tableName string) (*entityext.Extension, bool) {
	for _, ext := range b.Extensions[model] {
		if ext.Config().TableName == tableName {
			return ext, true
		}
	}
	return nil, false
}

// Bind creates a schema per model, attaches its extensions and binds the
// schema to engine.
func (m *Manifest) Bind(engine datastore.Engine, opts ...entityext.Option) (*Bindings, error) {
	b := &Bindings{
		Models:     make(map[string]*entityext.Model, len(m.Models)),
		Extensions: make(map[string][]*entityext.Extension, len(m.Models)),
	}
	for _, model := range m.Models {
		schema := entityext.NewSchema(model.Name)
		for _, cfg := range model.Extensions {
			ext, err := entityext.Attach(schema, cfg, opts...)
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", model.Name, err)
			}
			b.Extensions[model.Name] = append(b.Extensions[model.Name], ext)
		}
		b.Models[model.Name] = entityext.NewModel(schema, engine)

		log.WithFields(log.Fields{
			"model":      model.Name,
			"extensions": len(model.Extensions),
		}).Debug("model bound")
	}
	return b, nil
}

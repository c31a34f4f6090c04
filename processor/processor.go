/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"text/template"

	log "github.com/sirupsen/logrus"

	"github.com/suparena/entityext"
	"github.com/suparena/entityext/config"
	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/storagemodels"
)

// Options controls the generated file
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Source is mentioned in the generated header, usually the manifest path.
	Source string
}

type fieldView struct {
	Name string
	Def  storagemodels.FieldDef
}

type extensionView struct {
	Ident  string
	Config entityext.Config
	Names  entityext.MethodNames
	Fields []fieldView
}

type modelView struct {
	Name       string
	Ident      string
	Extensions []extensionView
}

type fileView struct {
	Package string
	Source  string
	Models  []modelView
	Schemas bool
}

var fieldTypeConsts = map[storagemodels.FieldType]string{
	storagemodels.FieldAny:      "storagemodels.FieldAny",
	storagemodels.FieldString:   "storagemodels.FieldString",
	storagemodels.FieldNumber:   "storagemodels.FieldNumber",
	storagemodels.FieldBool:     "storagemodels.FieldBool",
	storagemodels.FieldDateTime: "storagemodels.FieldDateTime",
}

var fileTemplate = template.Must(template.New("extensions").Funcs(template.FuncMap{
	"quote":      func(s string) string { return fmt.Sprintf("%q", s) },
	"literal":    func(v any) string { return fmt.Sprintf("%#v", v) },
	"fieldType":  func(t storagemodels.FieldType) string { return fieldTypeConsts[t] },
	"hasDefault": func(d storagemodels.FieldDef) bool { return d.Default != nil },
}).Parse(`// Code generated by extgen. DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

package {{.Package}}

import (
	"github.com/suparena/entityext"
{{- if .Schemas}}
	"github.com/suparena/entityext/storagemodels"
{{- end}}
)
{{range $m := .Models}}
{{- range $e := $m.Extensions}}
// Method names generated for the {{$e.Config.TableName}} extension of {{$m.Name}}.
const (
	{{$e.Ident}}Create   = {{quote $e.Names.Create}}
	{{$e.Ident}}Find     = {{quote $e.Names.Find}}
	{{$e.Ident}}Remove   = {{quote $e.Names.Remove}}
	{{$e.Ident}}FindBy   = {{quote $e.Names.FindBy}}
	{{$e.Ident}}Accessor = {{quote $e.Names.Accessor}}
)

// {{$e.Ident}}Config attaches the {{$e.Config.TableName}} extension.
var {{$e.Ident}}Config = entityext.Config{
	TableName: {{quote $e.Config.TableName}},
{{- if $e.Fields}}
	Schema: storagemodels.FieldSchema{
{{- range $f := $e.Fields}}
		{{quote $f.Name}}: {
{{- if $f.Def.Type}}Type: {{fieldType $f.Def.Type}},{{end}}
{{- if $f.Def.Format}}Format: {{quote $f.Def.Format}},{{end}}
{{- if $f.Def.Required}}Required: true,{{end}}
{{- if hasDefault $f.Def}}Default: {{literal $f.Def.Default}},{{end -}}
},
{{- end}}
	},
{{- end}}
}
{{end}}
// Attach{{$m.Ident}}Extensions attaches every extension declared for {{$m.Name}}.
func Attach{{$m.Ident}}Extensions(schema *entityext.Schema, opts ...entityext.Option) ([]*entityext.Extension, error) {
	var exts []*entityext.Extension
	for _, cfg := range []entityext.Config{
{{- range $e := $m.Extensions}}
		{{$e.Ident}}Config,
{{- end}}
	} {
		ext, err := entityext.Attach(schema, cfg, opts...)
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return exts, nil
}
{{end}}`))

// Generate renders the Go source declaring method name constants, attach
// configs and one attach function per model of the manifest.
func Generate(m *config.Manifest, opts Options) ([]byte, error) {
	if !token.IsIdentifier(opts.Package) {
		return nil, errors.NewConfigError("package", fmt.Sprintf("%q is not a valid package name", opts.Package))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	view := fileView{Package: opts.Package, Source: opts.Source}
	idents := make(map[string]string)
	extIdents := make(map[string]string)
	for _, model := range m.Models {
		modelNames, err := entityext.DeriveNames(model.Name)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", model.Name, err)
		}
		mv := modelView{Name: model.Name, Ident: modelNames.Pascal}
		if prev, taken := idents[mv.Ident]; taken {
			return nil, errors.NewConfigError("models", fmt.Sprintf("%q and %q generate the same identifier %s", prev, model.Name, mv.Ident))
		}
		idents[mv.Ident] = model.Name

		for _, cfg := range model.Extensions {
			names, err := entityext.DeriveNames(cfg.TableName)
			if err != nil {
				return nil, err
			}
			ev := extensionView{
				Ident:  mv.Ident + names.Pascal,
				Config: cfg,
				Names:  names,
			}
			if prev, taken := extIdents[ev.Ident]; taken {
				return nil, errors.NewConfigError("models", fmt.Sprintf("%q and %s.%s generate the same identifier %s", prev, model.Name, cfg.TableName, ev.Ident))
			}
			extIdents[ev.Ident] = model.Name + "." + cfg.TableName
			for _, name := range cfg.Schema.Names() {
				ev.Fields = append(ev.Fields, fieldView{Name: name, Def: cfg.Schema[name]})
			}
			if len(ev.Fields) > 0 {
				view.Schemas = true
			}
			mv.Extensions = append(mv.Extensions, ev)
		}
		view.Models = append(view.Models, mv)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return src, nil
}

// GenerateFile loads the manifest at manifestPath and writes the generated
// source to out. An empty out writes to stdout.
func GenerateFile(manifestPath, out string, opts Options) error {
	m, err := config.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	if opts.Source == "" {
		opts.Source = manifestPath
	}
	src, err := Generate(m, opts)
	if err != nil {
		return err
	}

	if out == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	log.WithFields(log.Fields{
		"manifest": manifestPath,
		"out":      out,
		"models":   len(m.Models),
	}).Info("extensions generated")
	return nil
}

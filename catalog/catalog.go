// Package catalog feeds the schema builder from external metadata: schema
// definitions declared in YAML files or persisted in a SQL store. The
// catalog imposes no storage format beyond the row tuple shape the builder
// consumes; both sources produce the same Definition value.
package catalog

import (
	"context"
	"fmt"

	"github.com/promptshape/promptshape/schema"
)

// FieldRow is one externally declared field.
type FieldRow struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
}

// Definition is one externally declared schema: a name, narrative text, an
// optional named base to extend, and the field rows.
type Definition struct {
	Name      string     `yaml:"name" json:"name"`
	Narrative string     `yaml:"narrative,omitempty" json:"narrative,omitempty"`
	Extends   string     `yaml:"extends,omitempty" json:"extends,omitempty"`
	Fields    []FieldRow `yaml:"fields" json:"fields"`
}

// Source looks up schema definitions by name.
type Source interface {
	Definition(ctx context.Context, name string) (*Definition, error)
}

// Build turns a named definition from the source into a schema, resolving
// type tokens and base schemas through the registry. Built schemas are
// registered so later definitions (and named record references) can resolve
// them; bases not yet registered are built from the source recursively.
func Build(ctx context.Context, reg *schema.Registry, src Source, name string) (*schema.Schema, error) {
	return build(ctx, reg, src, name, map[string]bool{})
}

func build(ctx context.Context, reg *schema.Registry, src Source, name string, building map[string]bool) (*schema.Schema, error) {
	if s, ok := reg.Schema(name); ok {
		return s, nil
	}
	if building[name] {
		return nil, fmt.Errorf("catalog schema %q: extension cycle", name)
	}
	building[name] = true

	def, err := src.Definition(ctx, name)
	if err != nil {
		return nil, err
	}

	var base *schema.Schema
	if def.Extends != "" {
		base, err = build(ctx, reg, src, def.Extends, building)
		if err != nil {
			return nil, fmt.Errorf("catalog schema %q extends %q: %w", name, def.Extends, err)
		}
	}

	rows := make([]schema.Row, len(def.Fields))
	for i, f := range def.Fields {
		rows[i] = schema.Row{
			Name:        f.Name,
			TypeToken:   f.Type,
			Description: f.Description,
			Required:    f.Required,
			Default:     f.Default,
		}
	}

	s, err := schema.DefineDynamic(reg, def.Name, def.Narrative, base, rows)
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterSchema(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Package promptshape provides a top-level convenience entry point for the
// common path: declare a schema, render it into a prompt, validate the
// model's reply.
//
// Usage:
//
//	import "github.com/promptshape/promptshape"
//
//	s, err := promptshape.Define("user", "A user profile.",
//	    promptshape.NewField("name", promptshape.String(), "Full name"),
//	    promptshape.NewField("age", promptshape.Int(), "Age in years"),
//	    promptshape.NewField("email", promptshape.Optional(promptshape.String()), "Contact address").AsOptional(nil),
//	)
//	prompt := promptshape.Render(s)
//	rec, err := promptshape.Validate(s, raw)
//
// This is a thin wrapper around the schema, render, and validate packages;
// use those directly for registries, catalogs, custom options, or the
// generation loop.
package promptshape

import (
	"github.com/promptshape/promptshape/render"
	"github.com/promptshape/promptshape/schema"
	"github.com/promptshape/promptshape/validate"
)

// Core types, re-exported so simple callers need a single import.
type (
	Schema   = schema.Schema
	Field    = schema.Field
	Type     = schema.Type
	Row      = schema.Row
	Registry = schema.Registry
	Record   = validate.Record
)

// Schema construction.
var (
	Define        = schema.Define
	Extend        = schema.Extend
	DefineDynamic = schema.DefineDynamic
	FromStruct    = schema.FromStruct
	NewField      = schema.NewField
	NewRegistry   = schema.NewRegistry
)

// Semantic type constructors.
var (
	Bool     = schema.Bool
	Int      = schema.Int
	Float    = schema.Float
	String   = schema.String
	Optional = schema.Optional
	List     = schema.List
	Literal  = schema.Literal
	Ref      = schema.Ref
)

// Render serializes a schema into deterministic prompt text.
var Render = render.Render

// Validate checks raw data against a schema with default (lenient) options.
func Validate(s *Schema, raw map[string]any) (*Record, error) {
	return validate.New().Validate(s, raw)
}

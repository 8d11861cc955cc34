// Package render projects a schema into the textual form included in a
// model-facing instruction set. Rendering is a pure one-way projection: the
// same schema always yields byte-identical text, so the output is safe to use
// as a cache key or a test fixture. There is no parser for the rendered form.
package render

import (
	"strings"

	"github.com/google/uuid"

	"github.com/promptshape/promptshape/schema"
)

// Render serializes a schema into prompt text. The narrative comes first,
// verbatim, then each field in declaration order with its short type label
// and description. Non-required fields carry an explicit "(optional)" marker
// so a generative collaborator can tell which fields it may omit. Nested
// record schemas referenced by any field are appended as their own sections,
// each emitted once, in first-encounter order.
func Render(s *schema.Schema) string {
	var b strings.Builder
	if n := s.Narrative(); n != "" {
		b.WriteString(n)
		b.WriteString("\n\n")
	}
	b.WriteString("Respond with a JSON object with these fields:\n")
	writeFields(&b, s)

	seen := map[string]bool{s.Name(): true}
	for _, nested := range nestedSchemas(s, seen) {
		b.WriteString("\nWhere ")
		b.WriteString(nested.Name())
		b.WriteString(" is a JSON object with these fields:\n")
		writeFields(&b, nested)
	}
	return b.String()
}

func writeFields(b *strings.Builder, s *schema.Schema) {
	for _, f := range s.Fields() {
		b.WriteString("- ")
		b.WriteString(f.Name)
		b.WriteString(" (")
		b.WriteString(f.Type.Label())
		if !f.Required {
			b.WriteString(", optional")
		}
		b.WriteString(")")
		if f.Description != "" {
			b.WriteString(": ")
			b.WriteString(f.Description)
		}
		b.WriteString("\n")
	}
}

// nestedSchemas collects embedded record schemas reachable from s in
// first-encounter order. Named references are rendered by name only; their
// shape belongs to whoever registered them.
func nestedSchemas(s *schema.Schema, seen map[string]bool) []*schema.Schema {
	var out []*schema.Schema
	for _, f := range s.Fields() {
		t := f.Type
		for t.Kind == schema.KindOptional || t.Kind == schema.KindList {
			t = *t.Elem
		}
		if t.Kind != schema.KindRecord || t.Schema == nil {
			continue
		}
		if seen[t.Schema.Name()] {
			continue
		}
		seen[t.Schema.Name()] = true
		out = append(out, t.Schema)
		out = append(out, nestedSchemas(t.Schema, seen)...)
	}
	return out
}

// fingerprintNamespace scopes schema fingerprints to this module.
var fingerprintNamespace = uuid.MustParse("a1f8d9c2-4b3e-5a6d-8e7f-0c1b2a394857")

// Fingerprint returns a deterministic identity for a schema, computed as a
// version-5 UUID over its rendered text. Equal schemas always share a
// fingerprint, which makes it suitable as a cache or catalog key.
func Fingerprint(s *schema.Schema) uuid.UUID {
	return uuid.NewSHA1(fingerprintNamespace, []byte(s.Name()+"\x00"+Render(s)))
}

// Copyright 2026 Promptshape Authors
// Use of this source code is governed by the project license.

/*
Package schema declares typed record shapes for structured model output.

A Schema is an ordered, named set of field descriptors plus narrative text.
Schemas are built statically with Define and Extend, dynamically from
externally supplied rows with DefineDynamic, or derived from a Go struct with
FromStruct. The Registry resolves type tokens (including composite tokens
like optional<list<string>>) and holds named record schemas for lazy,
self-referential nesting.

Schemas and registry entries are immutable once published: the registry is
append-only, so resolution and registration of independent entries are safe
to run concurrently.

Construction never returns a partially built schema. Duplicate field names
fail with ErrDuplicateField and unresolvable tokens with ErrUnknownType.
*/
package schema

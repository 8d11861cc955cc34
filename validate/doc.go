// Copyright 2026 Promptshape Authors
// Use of this source code is governed by the project license.

/*
Package validate checks raw, untyped structured data against a schema and
yields either an immutable, fully typed Record or an ordered list of
field-path-addressed errors.

Validation accumulates: a single call reports every field's problems in one
pass, sorted by path, so a caller or a re-prompted generative collaborator
can correct all of them at once. Extra raw keys are ignored unless
RejectUnknownFields is set; numeric coercion follows the configured
Strictness (Lenient by default).
*/
package validate

// Package constraint loads named behavioral constraints from a specification
// source.
//
// Two entry points produce the same DomainConstraints value:
//
//   - LoadNormalized (and the YAML/file variants) consumes the normalized
//     structured form exported by the authoritative spec toolchain. It is
//     schema-validated and structurally lossless; malformed input is always
//     an error.
//   - ParseText is a best-effort line-oriented scan over raw spec text. It
//     does not understand nesting or multi-line expressions and silently
//     yields partial or empty results on malformed input. Callers that need
//     correctness must use the normalized path.
//
// Constraint expressions are opaque strings. This package never interprets
// them; evaluation belongs to the external verifier.
package constraint

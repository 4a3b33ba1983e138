// Package payload models arbitrary structured data that passes through the
// trace pipeline: call arguments, return values, state snapshots.
//
// Values form a sealed tagged union over the JSON data model:
// Null, String, Int, Float, Bool, Array, Object. Redaction and serialization
// are written as total visitors over this union, so they never need to know
// the shape of any particular behavior's data.
//
// Two serializations exist:
//
//   - Marshal / standard encoding/json: the artifact form. Object keys are
//     emitted in RFC 8785 order (UTF-16 code units) so that two traces built
//     from the same inputs serialize to the same bytes.
//   - MarshalCanonical: the hashing form. Adds NFC string normalization and
//     disables HTML escaping. Used only for content hashes, never for the
//     artifact itself.
package payload

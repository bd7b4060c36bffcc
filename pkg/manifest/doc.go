// Package manifest describes archive contents as sorted (path, fingerprint)
// records and computes the file-level actions between two such manifests.
//
// A Manifest is built once from an archive (Build, BuildFile), persisted in
// a line-oriented text form (Encode, Decode, Store) and compared with Diff.
// Manifests are immutable: Diff and Apply return new values and never touch
// their inputs, so all functions here are safe for concurrent use.
//
// The text form is one "path=fingerprint" line per record, sorted by path,
// UTF-8, newline-terminated. A fingerprint is the lowercase hex SHA-256 of
// the file content.
package manifest

// Package identity parses and orders patch identities.
//
// An Identity is a (name, version) pair. It is read from artifact filenames
// such as "web-assets-2.0.1.zip" or from coordinates such as
// "web-assets:2.0.1", and ordered by name and then numerically by version,
// so 1.10 sorts after 1.9.
package identity

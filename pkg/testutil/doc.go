// Package testutil provides utilities for testing dopatch components.
//
// Key components:
//   - NewTestFS: in-memory filesystem for fast, isolated tests
//   - ZipArchive / TarArchive / TarGzArchive: build archives inline
//   - Checksum helpers matching what a repository publishes
//
// All test data should be defined inline, not in external files, and each
// test should construct its own filesystem and repository.
package testutil

// Package filesystem provides filesystem implementations for dopatch.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem and an afero adapter used by tests, plus
// the atomic publish helper the cache and manifest store rely on.
package filesystem

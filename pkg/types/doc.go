// Package types defines the interfaces shared across dopatch packages that
// would otherwise create import cycles, most importantly the FS abstraction
// the resolver cache and manifest store write through.
package types

// Package patch composes resolution, manifest building and diffing into the
// Patch handed to an installer: the target artifact on disk, its manifest
// and the ordered actions that move a baseline tree onto it.
package patch

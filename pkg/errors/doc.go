// Package errors provides the structured error type used across dopatch.
//
// Every failure the core returns is a *DopatchError carrying a stable
// ErrorCode, so callers (the installer, the CLI, tests) can branch on the
// kind of failure with IsErrorCode instead of matching message text.
package errors

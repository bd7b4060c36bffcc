// Package repository defines the remote artifact store the resolver talks
// to and provides two interchangeable implementations: HTTP for production
// and Memory for tests and offline tooling.
//
// Repositories use a Maven-style layout:
//
//	<name>/maven-metadata.xml
//	<name>/<version>/<name>-<version>.<ext>
//	<name>/<version>/<name>-<version>.<ext>.sha256   (or .sha1)
//
// The local cache mirrors the same relative layout.
package repository

// Package catalog provides the read-only movie catalog.
//
// Movies embed their genre and director, so genre and director lookups are
// answered from the movie records themselves. Name matching for genres and
// directors is case-insensitive; title lookups are exact.
//
// The package provides a Repository interface with SQLite and MongoDB
// implementations, and a YAML seeder that fills an empty catalog at startup.
// Nothing in the HTTP API mutates the catalog.
//
// # Thread Safety
//
// Both repositories are safe for concurrent use from multiple goroutines.
package catalog

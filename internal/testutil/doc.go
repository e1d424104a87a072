// Package testutil provides test helpers for linkdb.
// It includes in-memory SQLite databases, the book/author fixture schema,
// SQL assertions and error-code assertions.
package testutil

// Package strutil provides the naming conventions linkdb infers its schema from:
// display names, default primary keys and junction-table names.
package strutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// -----------------------------------------------------------------------------
// Display Names
// -----------------------------------------------------------------------------

// ExternalName converts a storage identifier into its display name by
// replacing underscores with spaces and upper-casing the first letter of
// each word. Existing capitals are kept.
// Example: ExternalName("date_added") -> "Date Added"
// Example: ExternalName("isbn_ID") -> "Isbn ID"
func ExternalName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// -----------------------------------------------------------------------------
// Keys and Link Tables
// -----------------------------------------------------------------------------

// PrimaryKey returns the default primary key column for a table.
// Example: PrimaryKey("book") -> "book_id"
func PrimaryKey(table string) string {
	return table + "_id"
}

// SplitLinkName splits a junction table name at its first underscore.
// ok is false when the name has no underscore or either side is empty.
// Example: SplitLinkName("book_author") -> ("book", "author", true)
// Example: SplitLinkName("book_sub_author") -> ("book", "sub_author", true)
func SplitLinkName(name string) (a, b string, ok bool) {
	a, b, found := strings.Cut(name, "_")
	if !found || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// -----------------------------------------------------------------------------
// Form Field Names
// -----------------------------------------------------------------------------

// QualifiedField returns the table-qualified form field name for a column.
// Example: QualifiedField("book", "title") -> "book.title"
func QualifiedField(table, column string) string {
	return table + "." + column
}

// IDField returns the hidden form field that carries a table's row id.
// Example: IDField("book") -> "book_id"
func IDField(table string) string {
	return table + "_id"
}

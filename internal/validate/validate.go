// Package validate checks names that arrive through configuration before
// they are used to address tables and columns.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/model"
)

// maxIdentifierLength is the PostgreSQL limit, the strictest supported dialect.
const maxIdentifierLength = 63

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can name a table or column unquoted.
func IsIdentifier(s string) bool {
	return s != "" && len(s) <= maxIdentifierLength && identifierRegex.MatchString(s)
}

// Identifier validates a configured table or column name. what names the
// setting in the error, e.g. "owner key".
func Identifier(what, s string) error {
	switch {
	case s == "":
		return alerr.Newf(alerr.ErrConfigInvalid, "%s cannot be empty", what)
	case len(s) > maxIdentifierLength:
		return alerr.Newf(alerr.ErrConfigInvalid, "%s exceeds maximum length of %d characters", what, maxIdentifierLength).
			With("name", s).
			With("length", len(s))
	case !identifierRegex.MatchString(s):
		return alerr.Newf(alerr.ErrConfigInvalid, "%s '%s' is not a valid identifier", what, s).
			With("name", s).
			WithHelp("use letters, digits and underscores, starting with a letter")
	}
	return nil
}

// Settings validates the owner key and table overrides. An empty owner key
// is allowed and disables owner scoping.
func Settings(ownerKey string, overrides map[string]model.TableOverride) error {
	var errs Errors
	if ownerKey != "" {
		errs.Add(Identifier("owner key", ownerKey))
	}
	for _, table := range sortedKeys(overrides) {
		if err := Identifier("override table", table); err != nil {
			errs.Add(err)
			continue
		}
		if pk := overrides[table].PrimaryKey; pk != "" {
			errs.Add(withTable(Identifier("primary key override", pk), table))
		}
		if strings.TrimSpace(overrides[table].ExternalName) == "" && overrides[table].ExternalName != "" {
			errs.Add(alerr.New(alerr.ErrConfigInvalid, "external name override cannot be blank").WithTable(table))
		}
	}
	return errs.ToError()
}

// Overrides reports overrides that name tables the database does not have.
func Overrides(overrides map[string]model.TableOverride, c *model.Catalog) error {
	var errs Errors
	for _, table := range sortedKeys(overrides) {
		if _, err := c.Table(table); err != nil {
			errs.Add(alerr.Newf(alerr.ErrConfigInvalid, "override for unknown table '%s'", table).
				WithTable(table).
				WithHelp("remove the entry from the tables section"))
		}
	}
	return errs.ToError()
}

func withTable(err error, table string) error {
	if e, ok := err.(*alerr.Error); ok {
		return e.WithTable(table)
	}
	return err
}

func sortedKeys(m map[string]model.TableOverride) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns all errors as a numbered list.
func (ve Errors) Error() string {
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:", len(ve))
	for i, err := range ve {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (ve Errors) Unwrap() []error {
	return ve
}

// Add appends err if it is not nil.
func (ve *Errors) Add(err error) {
	if err != nil {
		*ve = append(*ve, err)
	}
}

// ToError returns nil if no errors were collected. A single error is
// returned unchanged so callers see its code directly.
func (ve Errors) ToError() error {
	switch len(ve) {
	case 0:
		return nil
	case 1:
		return ve[0]
	}
	return ve
}

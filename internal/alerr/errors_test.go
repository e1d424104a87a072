package alerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// Constructor Tests
// -----------------------------------------------------------------------------

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		code     Code
		message  string
		severity Severity
	}{
		{"schema error", ErrInvalidLinkTable, "table 'foo_bar' is not a valid link table", SeverityStop},
		{"validation error", ErrRequiredField, "required field 'Title' is missing", SeverityError},
		{"write error", ErrNoRowsAffected, "update touched no rows", SeverityError},
		{"SQL error", ErrSQLExecution, "SQL statement failed", SeverityError},
		{"config error", ErrConfigInvalid, "bad config", SeverityStop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)
			if err.GetCode() != tt.code {
				t.Errorf("code = %v, want %v", err.GetCode(), tt.code)
			}
			if err.GetMessage() != tt.message {
				t.Errorf("message = %v, want %v", err.GetMessage(), tt.message)
			}
			if err.GetSeverity() != tt.severity {
				t.Errorf("severity = %v, want %v", err.GetSeverity(), tt.severity)
			}
			if err.GetCause() != nil {
				t.Error("expected nil cause for New()")
			}
			if err.GetStack() == "" {
				t.Error("expected stack trace to be captured")
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("wrap existing error", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := Wrap(ErrSQLExecution, cause, "failed to execute query")

		if err.GetCause() != cause {
			t.Error("cause should be the wrapped error")
		}
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find the cause")
		}
	})

	t.Run("wrap nil error behaves like New", func(t *testing.T) {
		err := Wrap(ErrInvalidLinkTable, nil, "bad link")
		if err.GetCause() != nil {
			t.Error("cause should be nil when wrapping nil")
		}
	})
}

func TestWrapf(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrapf(ErrSQLConnection, cause, "failed to connect to %s on port %d", "localhost", 5432)

	if want := "failed to connect to localhost on port 5432"; err.GetMessage() != want {
		t.Errorf("message = %v, want %v", err.GetMessage(), want)
	}
}

// -----------------------------------------------------------------------------
// Context Tests
// -----------------------------------------------------------------------------

func TestContextBuilders(t *testing.T) {
	err := New(ErrInvalidDate, "invalid date").
		WithTable("book").
		WithColumn("published").
		WithSQL("SELECT 1").
		With("value", "13-45-2020").
		WithNote("dates are mm-dd-yyyy").
		WithHelp("use 01-31-2020")

	ctx := err.GetContext()
	for k, want := range map[string]any{
		"table":  "book",
		"column": "published",
		"sql":    "SELECT 1",
		"value":  "13-45-2020",
	} {
		if ctx[k] != want {
			t.Errorf("%s = %v, want %v", k, ctx[k], want)
		}
	}
	if n := err.Notes(); len(n) != 1 || n[0] != "dates are mm-dd-yyyy" {
		t.Errorf("notes = %v", n)
	}
	if h := err.Helps(); len(h) != 1 || h[0] != "use 01-31-2020" {
		t.Errorf("helps = %v", h)
	}
}

func TestErrorFormat(t *testing.T) {
	err := New(ErrRequiredField, "required field 'Title' is missing").
		WithTable("book").
		WithColumn("title")

	want := "[E2001] required field 'Title' is missing\n  column: title\n  table: book"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}

	wrapped := Wrap(ErrSQLExecution, errors.New("boom"), "failed")
	if !strings.HasSuffix(wrapped.Error(), "cause: boom") {
		t.Errorf("Error() = %q, want cause suffix", wrapped.Error())
	}
}

// -----------------------------------------------------------------------------
// Matching Tests
// -----------------------------------------------------------------------------

func TestIs(t *testing.T) {
	err := New(ErrRowNotFound, "row 3 not found")
	wrapped := fmt.Errorf("delete: %w", err)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct match", err, ErrRowNotFound, true},
		{"wrapped match", wrapped, ErrRowNotFound, true},
		{"different code", err, ErrNoRowsAffected, false},
		{"nil error", nil, ErrRowNotFound, false},
		{"plain error", errors.New("x"), ErrRowNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}

	if !errors.Is(wrapped, New(ErrRowNotFound, "other message")) {
		t.Error("errors.Is should match on code")
	}
}

func TestWrapSQL(t *testing.T) {
	err := WrapSQL(errors.New("no such column: titel"), "run query", `SELECT "titel" FROM "book"`)
	if err.GetCode() != ErrSQLExecution {
		t.Errorf("code = %v", err.GetCode())
	}
	if err.GetMessage() != "failed to run query" {
		t.Errorf("message = %q", err.GetMessage())
	}
	if err.GetContext()["sql"] != `SELECT "titel" FROM "book"` {
		t.Errorf("context = %v", err.GetContext())
	}
	if err.GetCause() == nil {
		t.Error("cause should be kept")
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		in       string
		want     Severity
		terminal bool
	}{
		{"error", SeverityError, true},
		{"STOP", SeverityStop, true},
		{" warning ", SeverityWarning, false},
		{"Message", SeverityMessage, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if err != nil {
				t.Fatalf("ParseSeverity() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSeverity() = %v, want %v", got, tt.want)
			}
			if got.Terminal() != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got.Terminal(), tt.terminal)
			}
		})
	}

	if _, err := ParseSeverity("fatal"); !Is(err, ErrMessageCatalogInvalid) {
		t.Errorf("ParseSeverity(fatal) error = %v", err)
	}

	e := New(ErrInvalidRowID, "x").WithSeverity(SeverityWarning)
	if e.GetSeverity() != SeverityWarning {
		t.Errorf("WithSeverity not applied")
	}
}

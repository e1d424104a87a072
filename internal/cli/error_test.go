package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hlop3z/linkdb/internal/alerr"
)

func init() {
	// Force plain mode in tests so style functions return raw text (no ANSI codes).
	SetDefault(&Config{Mode: ModePlain})
}

func TestFormatError_Context(t *testing.T) {
	err := alerr.New(alerr.ErrRowNotFound, "no row 99 in table 'book'").
		With("id", 99).
		WithTable("book").
		WithSQL("DELETE FROM book WHERE book_id = ?").
		WithHelp("list the rows with `linkdb rows book`")

	want := "error[E3002]: no row 99 in table 'book'\n" +
		"   | table: book\n" +
		"   | id: 99\n" +
		"help: list the rows with `linkdb rows book`\n"

	if got := FormatError(err); got != want {
		t.Errorf("FormatError() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatError_Severity(t *testing.T) {
	tests := []struct {
		severity alerr.Severity
		label    string
	}{
		{alerr.SeverityError, "error[E2001]"},
		{alerr.SeverityStop, "stop[E2001]"},
		{alerr.SeverityWarning, "warning[E2001]"},
		{alerr.SeverityMessage, "message[E2001]"},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			err := alerr.New(alerr.ErrRequiredField, "required field 'Title' is missing").
				WithSeverity(tt.severity)
			got := FormatError(err)
			if !strings.HasPrefix(got, tt.label+": ") {
				t.Errorf("FormatError() = %q, want prefix %q", got, tt.label)
			}
		})
	}
}

func TestFormatError_NotesAndCause(t *testing.T) {
	cause := errors.New("no such table: book_author")
	err := alerr.Wrap(alerr.ErrInvalidLinkTable, cause, "table 'book_author' is not a valid link table").
		WithNote("'book' is not a data table")

	output := FormatError(err)
	for _, want := range []string{
		"stop[E1001]",
		"note: 'book' is not a data table",
		"cause: no such table: book_author",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("FormatError output missing %q\ngot:\n%s", want, output)
		}
	}
	if strings.Contains(output, "notes:") {
		t.Errorf("notes rendered as context:\n%s", output)
	}
}

func TestFormatError_Wrapped(t *testing.T) {
	inner := alerr.New(alerr.ErrInvalidDate, "'1965-08-01' is not a date")
	err := fmt.Errorf("submit: %w", inner)

	if got := FormatError(err); !strings.HasPrefix(got, "error[E2002]") {
		t.Errorf("FormatError() = %q, want the wrapped linkdb error", got)
	}
}

func TestFormatError_Joined(t *testing.T) {
	err := errors.Join(
		alerr.New(alerr.ErrConfigInvalid, "owner key 'user id' is not a valid identifier"),
		alerr.New(alerr.ErrConfigInvalid, "override for unknown table 'novel'"),
	)

	want := "stop[E7001]: owner key 'user id' is not a valid identifier\n" +
		"\n" +
		"stop[E7001]: override for unknown table 'novel'\n"
	if got := FormatError(err); got != want {
		t.Errorf("FormatError() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatError_Generic(t *testing.T) {
	if got := FormatError(errors.New("boom")); got != "error: boom\n" {
		t.Errorf("FormatError() = %q", got)
	}
	if got := FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"generic", errors.New("boom"), 1},
		{"error", alerr.New(alerr.ErrRowNotFound, "gone"), 1},
		{"stop", alerr.New(alerr.ErrSchemaEmpty, "empty"), 1},
		{"warning", alerr.New(alerr.ErrRowNotFound, "gone").WithSeverity(alerr.SeverityWarning), 0},
		{"message", alerr.New(alerr.ErrRowNotFound, "gone").WithSeverity(alerr.SeverityMessage), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatMessages(t *testing.T) {
	if got := FormatWarning("no links"); got != "warning: no links\n" {
		t.Errorf("FormatWarning() = %q", got)
	}
	if got := FormatNote("x"); got != "note: x\n" {
		t.Errorf("FormatNote() = %q", got)
	}
	if got := FormatSuccess("deleted"); got != "success: deleted\n" {
		t.Errorf("FormatSuccess() = %q", got)
	}
}

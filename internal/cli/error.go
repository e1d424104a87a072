package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/linkdb/internal/alerr"
)

// FormatError formats an error for CLI display in Cargo/rustc style:
//
//	error[E3002]: no row 99 in table 'book'
//	   | table: book
//	   | id: 99
//	help: list the rows with `linkdb rows book`
//
// The label follows the severity of an *alerr.Error. Other errors get a
// plain "error:" line.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var sb strings.Builder
		for i, e := range multi.Unwrap() {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(FormatError(e))
		}
		return sb.String()
	}
	var ae *alerr.Error
	if errors.As(err, &ae) {
		return formatLinkError(ae)
	}
	return formatGenericError(err)
}

// ExitCode maps an error to a process exit status. Warnings and messages
// are reported but do not fail the command.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ae *alerr.Error
	if errors.As(err, &ae) && !ae.GetSeverity().Terminal() {
		return 0
	}
	return 1
}

func severityLabel(s alerr.Severity) string {
	switch s {
	case alerr.SeverityStop:
		return Stop(s.String())
	case alerr.SeverityWarning:
		return Warning(s.String())
	case alerr.SeverityMessage:
		return Note(s.String())
	default:
		return Error("error")
	}
}

// context keys rendered by dedicated sections or not meant for users
var hiddenContext = map[string]bool{
	"notes": true,
	"helps": true,
	"sql":   true,
}

func formatLinkError(err *alerr.Error) string {
	var b strings.Builder

	b.WriteString(severityLabel(err.GetSeverity()))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	ctx := err.GetContext()
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if !hiddenContext[k] {
			keys = append(keys, k)
		}
	}
	// table and column first, the rest alphabetical
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := contextRank(keys[i]), contextRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Fprintf(&b, "   %s %s: %v\n", Pipe(), k, ctx[k])
	}

	for _, note := range err.Notes() {
		fmt.Fprintf(&b, "   %s\n%s: %s\n", Pipe(), Note("note"), note)
	}
	for _, help := range err.Helps() {
		fmt.Fprintf(&b, "%s: %s\n", Help("help"), help)
	}

	if cause := err.GetCause(); cause != nil {
		fmt.Fprintf(&b, "   %s\n%s: %s\n", Pipe(), Note("cause"), cause.Error())
	}
	return b.String()
}

func contextRank(key string) int {
	switch key {
	case "table":
		return 0
	case "column":
		return 1
	default:
		return 2
	}
}

func formatGenericError(err error) string {
	return Error("error") + ": " + err.Error() + "\n"
}

// FormatWarning formats a warning message.
func FormatWarning(msg string) string {
	return Warning("warning") + ": " + msg + "\n"
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	return Success("success") + ": " + msg + "\n"
}

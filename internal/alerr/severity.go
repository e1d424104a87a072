package alerr

import (
	"fmt"
	"strings"
)

// Severity tells the caller how to react to an error.
// Error and Stop end the current operation; Warning and Message are informational.
type Severity int

const (
	SeverityError Severity = iota
	SeverityStop
	SeverityWarning
	SeverityMessage
)

var severityNames = [...]string{
	SeverityError:   "error",
	SeverityStop:    "stop",
	SeverityWarning: "warning",
	SeverityMessage: "message",
}

func (s Severity) String() string {
	if int(s) >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Terminal reports whether the severity ends the current operation.
func (s Severity) Terminal() bool {
	return s == SeverityError || s == SeverityStop
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Severity(i), nil
		}
	}
	return 0, Newf(ErrMessageCatalogInvalid, "unknown severity '%s'", name).
		WithHelp("use one of: error, stop, warning, message")
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DefaultSeverity returns the severity an error of the given code carries
// unless overridden. Schema and configuration problems stop the process.
func DefaultSeverity(code Code) Severity {
	switch {
	case strings.HasPrefix(string(code), "E1"), strings.HasPrefix(string(code), "E7"):
		return SeverityStop
	default:
		return SeverityError
	}
}

package alerr

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Message is one entry of a message catalog.
// Text uses %s placeholders that are filled positionally.
type Message struct {
	Text     string   `yaml:"text"`
	Severity Severity `yaml:"severity"`
}

// Catalog maps error codes to operator-facing messages.
// A nil *Catalog is valid and leaves errors untouched.
type Catalog struct {
	messages map[Code]Message
}

// ParseCatalog parses a YAML message catalog:
//
//	E2001:
//	  text: "Please fill in %s."
//	  severity: warning
func ParseCatalog(data []byte) (*Catalog, error) {
	raw := map[string]Message{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, Wrap(ErrMessageCatalogInvalid, err, "failed to parse message catalog")
	}

	c := &Catalog{messages: make(map[Code]Message, len(raw))}
	for code, msg := range raw {
		if strings.TrimSpace(msg.Text) == "" {
			return nil, Newf(ErrMessageCatalogInvalid, "message %s has no text", code).
				With("code", code)
		}
		c.messages[Code(code)] = msg
	}
	return c, nil
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrap(ErrMessageCatalogInvalid, err, "failed to read message catalog").
			With("path", path)
	}
	return ParseCatalog(data)
}

// Lookup returns the catalog entry for a code.
func (c *Catalog) Lookup(code Code) (Message, bool) {
	if c == nil {
		return Message{}, false
	}
	m, ok := c.messages[code]
	return m, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

// Render substitutes args into the message for code.
// The number of %s placeholders must equal len(args).
func (c *Catalog) Render(code Code, args ...string) (string, Severity, error) {
	m, ok := c.Lookup(code)
	if !ok {
		return "", DefaultSeverity(code), Newf(ErrMessageCatalogInvalid, "no message for %s", code)
	}
	if n := strings.Count(m.Text, "%s"); n != len(args) {
		return "", m.Severity, Newf(ErrMessageCatalogInvalid,
			"message %s expects %d arguments, got %d", code, n, len(args)).
			With("text", m.Text)
	}
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return fmt.Sprintf(m.Text, vals...), m.Severity, nil
}

// Apply rewrites err's message and severity from the catalog when an entry
// exists, using the arguments recorded with WithArgs. Errors without a
// catalog entry are returned unchanged.
func (c *Catalog) Apply(err error) error {
	code := GetErrorCode(err)
	if code == "" {
		return err
	}
	if _, ok := c.Lookup(code); !ok {
		return err
	}

	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	text, sev, rerr := c.Render(code, e.args...)
	if rerr != nil {
		return rerr
	}
	e.message = text
	e.severity = sev
	return e
}

// WithArgs records the positional arguments used when a catalog message
// replaces the default text.
func (e *Error) WithArgs(args ...string) *Error {
	e.args = args
	return e
}

// Args returns the positional message arguments.
func (e *Error) Args() []string {
	return e.args
}

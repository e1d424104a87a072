// Package types defines the closed set of semantic column types linkdb works with.
// Every type carries its own form widget, validation, storage conversion and
// display formatting; callers switch on Semantic rather than on raw SQL type names.
//
// Wire formats:
//   - Date is entered and displayed as mm-dd-yyyy and stored as yyyy-mm-dd.
//   - Time is entered, displayed and stored as hh:mm.
//   - DateTime is displayed as mm-dd-yyyy hh:mm and stored as yyyy-mm-dd hh:mm:ss.
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"
	"github.com/shopspring/decimal"

	"github.com/hlop3z/linkdb/internal/alerr"
)

// Semantic is the semantic type of a column.
type Semantic int

const (
	Integer Semantic = iota
	Numeric
	ShortText
	LongText
	Enumeration
	Date
	Time
	DateTime
)

// Layouts used for user input/display and for storage.
const (
	DateLayout            = "01-02-2006"
	TimeLayout            = "15:04"
	DateTimeLayout        = "01-02-2006 15:04"
	StorageDateLayout     = "2006-01-02"
	StorageDateTimeLayout = "2006-01-02 15:04:05"
)

// Widget is the kind of form control a column renders as.
type Widget int

const (
	WidgetInput Widget = iota
	WidgetTextArea
	WidgetSelect
	WidgetHidden
)

func (w Widget) String() string {
	switch w {
	case WidgetInput:
		return "input"
	case WidgetTextArea:
		return "textarea"
	case WidgetSelect:
		return "select"
	case WidgetHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// TypeDef - per-type descriptor
// -----------------------------------------------------------------------------

// TypeDef describes the static properties of a semantic type.
type TypeDef struct {
	Name      string // Canonical name, e.g. "short_text"
	Widget    Widget // Form control
	FixedSize int    // Display width for fixed-format types, 0 otherwise
	Hint      string // Client-side validation hint ("date", "time", ...)
}

var defs = [...]TypeDef{
	Integer:     {Name: "integer", Widget: WidgetInput, Hint: "integer"},
	Numeric:     {Name: "numeric", Widget: WidgetInput, Hint: "numeric"},
	ShortText:   {Name: "short_text", Widget: WidgetInput},
	LongText:    {Name: "long_text", Widget: WidgetTextArea},
	Enumeration: {Name: "enumeration", Widget: WidgetSelect},
	Date:        {Name: "date", Widget: WidgetInput, FixedSize: 10, Hint: "date"},
	Time:        {Name: "time", Widget: WidgetInput, FixedSize: 5, Hint: "time"},
	DateTime:    {Name: "datetime", Widget: WidgetInput, FixedSize: 16, Hint: "datetime"},
}

// All returns every semantic type in declaration order.
func All() []Semantic {
	return []Semantic{Integer, Numeric, ShortText, LongText, Enumeration, Date, Time, DateTime}
}

// Def returns the descriptor for s.
func (s Semantic) Def() TypeDef {
	if s < 0 || int(s) >= len(defs) {
		return TypeDef{Name: "unknown"}
	}
	return defs[s]
}

func (s Semantic) String() string {
	return s.Def().Name
}

// Widget returns the form control for s.
func (s Semantic) Widget() Widget {
	return s.Def().Widget
}

// FixedSize returns the display width of fixed-format types (Date 10, Time 5).
func (s Semantic) FixedSize() int {
	return s.Def().FixedSize
}

// Parse resolves a semantic type name.
func Parse(name string) (Semantic, bool) {
	for i, d := range defs {
		if d.Name == strings.ToLower(strings.TrimSpace(name)) {
			return Semantic(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (s Semantic) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// -----------------------------------------------------------------------------
// Conversion
// -----------------------------------------------------------------------------

// ToStorage validates a submitted form value and converts it to the value
// written to the store. Empty input maps to nil (NULL). enum holds the
// allowed values for Enumeration columns.
//
// Errors carry the offending value; callers add table and column context.
func (s Semantic) ToStorage(value string, enum []string) (any, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}

	switch s {
	case Integer:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, invalid(alerr.ErrInvalidNumber, "'%s' is not a whole number", v)
		}
		return n, nil

	case Numeric:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, invalid(alerr.ErrInvalidNumber, "'%s' is not a number", v)
		}
		return d.String(), nil

	case ShortText, LongText:
		return value, nil

	case Enumeration:
		if len(enum) == 0 {
			return v, nil
		}
		for _, e := range enum {
			if e == v {
				return v, nil
			}
		}
		return nil, invalid(alerr.ErrInvalidEnumValue, "'%s' is not an allowed value", v).
			WithHelp("allowed values: " + strings.Join(enum, ", "))

	case Date:
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return nil, invalid(alerr.ErrInvalidDate, "'%s' is not a valid date", v).
				WithNote("dates are entered as mm-dd-yyyy")
		}
		return t.Format(StorageDateLayout), nil

	case Time:
		t, err := time.Parse(TimeLayout, v)
		if err != nil {
			return nil, invalid(alerr.ErrInvalidTime, "'%s' is not a valid time", v).
				WithNote("times are entered as hh:mm")
		}
		return t.Format(TimeLayout), nil

	case DateTime:
		t, err := time.Parse(DateTimeLayout, v)
		if err != nil {
			t, err = iso8601.ParseString(v)
		}
		if err != nil {
			return nil, invalid(alerr.ErrInvalidDate, "'%s' is not a valid date and time", v).
				WithNote("date and time are entered as mm-dd-yyyy hh:mm")
		}
		return t.Format(StorageDateTimeLayout), nil

	default:
		return nil, alerr.Newf(alerr.EInternalError, "unhandled semantic type %d", int(s))
	}
}

// ToDisplay formats a value read from the store for display and for
// pre-populating form widgets. nil renders as the empty string.
// Values that cannot be parsed are shown unchanged.
func (s Semantic) ToDisplay(v any) string {
	if v == nil {
		return ""
	}

	switch s {
	case Date, Time, DateTime:
		t, ok := storedTime(v)
		if !ok {
			return text(v)
		}
		switch s {
		case Date:
			return t.Format(DateLayout)
		case Time:
			return t.Format(TimeLayout)
		default:
			return t.Format(DateTimeLayout)
		}

	case Numeric:
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n).String()
		case int64:
			return strconv.FormatInt(n, 10)
		}
		if d, err := decimal.NewFromString(text(v)); err == nil {
			return d.String()
		}
		return text(v)

	case Integer, ShortText, LongText, Enumeration:
		return text(v)

	default:
		return text(v)
	}
}

// StorageNow formats t the way DateTime columns are stored.
func StorageNow(t time.Time) string {
	return t.Format(StorageDateTimeLayout)
}

var storedLayouts = []string{
	StorageDateTimeLayout,
	StorageDateLayout,
	"15:04:05",
	TimeLayout,
}

// storedTime interprets a driver value as a point in time. Drivers return
// time.Time for typed columns and strings or bytes for text-backed ones.
func storedTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case []byte:
		return parseStoredTime(string(t))
	case string:
		return parseStoredTime(t)
	default:
		return time.Time{}, false
	}
}

func parseStoredTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range storedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := iso8601.ParseString(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(StorageDateTimeLayout)
	default:
		return fmt.Sprint(v)
	}
}

func invalid(code alerr.Code, format string, value string) *alerr.Error {
	return alerr.Newf(code, format, value).With("value", value)
}

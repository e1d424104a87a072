package types

import (
	"testing"
	"time"

	"github.com/hlop3z/linkdb/internal/alerr"
)

// -----------------------------------------------------------------------------
// Descriptor Tests
// -----------------------------------------------------------------------------

func TestDescriptors(t *testing.T) {
	tests := []struct {
		typ    Semantic
		name   string
		widget Widget
		size   int
	}{
		{Integer, "integer", WidgetInput, 0},
		{Numeric, "numeric", WidgetInput, 0},
		{ShortText, "short_text", WidgetInput, 0},
		{LongText, "long_text", WidgetTextArea, 0},
		{Enumeration, "enumeration", WidgetSelect, 0},
		{Date, "date", WidgetInput, 10},
		{Time, "time", WidgetInput, 5},
		{DateTime, "datetime", WidgetInput, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.typ.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.typ.String(), tt.name)
			}
			if tt.typ.Widget() != tt.widget {
				t.Errorf("Widget() = %v, want %v", tt.typ.Widget(), tt.widget)
			}
			if tt.typ.FixedSize() != tt.size {
				t.Errorf("FixedSize() = %d, want %d", tt.typ.FixedSize(), tt.size)
			}
			got, ok := Parse(tt.name)
			if !ok || got != tt.typ {
				t.Errorf("Parse(%q) = %v, %v", tt.name, got, ok)
			}
		})
	}

	if len(All()) != 8 {
		t.Errorf("All() = %d types, want 8", len(All()))
	}
	if _, ok := Parse("blob"); ok {
		t.Error("Parse(blob) should fail")
	}
	if Semantic(42).String() != "unknown" {
		t.Errorf("out of range String() = %q", Semantic(42).String())
	}
}

// -----------------------------------------------------------------------------
// ToStorage Tests
// -----------------------------------------------------------------------------

func TestToStorage(t *testing.T) {
	enum := []string{"paperback", "hardcover"}

	tests := []struct {
		name     string
		typ      Semantic
		input    string
		want     any
		wantCode alerr.Code
	}{
		{"empty is null", Integer, "  ", nil, ""},
		{"integer", Integer, "42", int64(42), ""},
		{"integer invalid", Integer, "4.2", nil, alerr.ErrInvalidNumber},
		{"numeric", Numeric, "12.50", "12.5", ""},
		{"numeric invalid", Numeric, "twelve", nil, alerr.ErrInvalidNumber},
		{"short text kept verbatim", ShortText, " Dune ", " Dune ", ""},
		{"long text", LongText, "line1\nline2", "line1\nline2", ""},
		{"enum allowed", Enumeration, "hardcover", "hardcover", ""},
		{"enum rejected", Enumeration, "scroll", nil, alerr.ErrInvalidEnumValue},
		{"date", Date, "01-31-2020", "2020-01-31", ""},
		{"date wrong order", Date, "2020-01-31", nil, alerr.ErrInvalidDate},
		{"date impossible", Date, "02-30-2020", nil, alerr.ErrInvalidDate},
		{"date short month", Date, "1-31-2020", nil, alerr.ErrInvalidDate},
		{"time", Time, "09:30", "09:30", ""},
		{"time invalid", Time, "25:00", nil, alerr.ErrInvalidTime},
		{"datetime form", DateTime, "01-31-2020 14:05", "2020-01-31 14:05:00", ""},
		{"datetime iso", DateTime, "2020-01-31T14:05:00Z", "2020-01-31 14:05:00", ""},
		{"datetime invalid", DateTime, "yesterday", nil, alerr.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.ToStorage(tt.input, enum)
			if tt.wantCode != "" {
				if !alerr.Is(err, tt.wantCode) {
					t.Fatalf("ToStorage(%q) error = %v, want %s", tt.input, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToStorage(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ToStorage(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("enum without declared values accepts anything", func(t *testing.T) {
		got, err := Enumeration.ToStorage("anything", nil)
		if err != nil || got != "anything" {
			t.Errorf("ToStorage() = %v, %v", got, err)
		}
	})
}

// -----------------------------------------------------------------------------
// ToDisplay Tests
// -----------------------------------------------------------------------------

func TestToDisplay(t *testing.T) {
	stamp := time.Date(2020, 1, 31, 14, 5, 0, 0, time.UTC)

	tests := []struct {
		name  string
		typ   Semantic
		value any
		want  string
	}{
		{"nil", ShortText, nil, ""},
		{"text bytes", ShortText, []byte("Dune"), "Dune"},
		{"integer", Integer, int64(7), "7"},
		{"numeric float", Numeric, 12.5, "12.5"},
		{"numeric string", Numeric, "12.50", "12.5"},
		{"numeric garbage", Numeric, "n/a", "n/a"},
		{"date string", Date, "2020-01-31", "01-31-2020"},
		{"date time value", Date, stamp, "01-31-2020"},
		{"date bytes", Date, []byte("2020-01-31"), "01-31-2020"},
		{"date unparseable", Date, "someday", "someday"},
		{"time", Time, "09:30", "09:30"},
		{"time with seconds", Time, "09:30:15", "09:30"},
		{"datetime string", DateTime, "2020-01-31 14:05:00", "01-31-2020 14:05"},
		{"datetime iso", DateTime, "2020-01-31T14:05:00Z", "01-31-2020 14:05"},
		{"datetime value", DateTime, stamp, "01-31-2020 14:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.ToDisplay(tt.value); got != tt.want {
				t.Errorf("ToDisplay(%#v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDisplayStorageRoundTrip(t *testing.T) {
	tests := []struct {
		typ    Semantic
		stored any
	}{
		{Date, "2021-12-24"},
		{Time, "07:45"},
		{DateTime, "2021-12-24 07:45:00"},
		{Integer, int64(99)},
		{Numeric, "3.25"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			back, err := tt.typ.ToStorage(tt.typ.ToDisplay(tt.stored), nil)
			if err != nil {
				t.Fatalf("ToStorage() error = %v", err)
			}
			if back != tt.stored {
				t.Errorf("round trip = %#v, want %#v", back, tt.stored)
			}
		})
	}
}

func TestStorageNow(t *testing.T) {
	got := StorageNow(time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC))
	if got != "2024-03-09 08:07:06" {
		t.Errorf("StorageNow() = %q", got)
	}
}

package model

import (
	"github.com/hlop3z/linkdb/internal/introspect"
	"github.com/hlop3z/linkdb/internal/strutil"
	"github.com/hlop3z/linkdb/internal/types"
)

// Framework-maintained timestamp columns.
const (
	DateAdded   = "date_added"
	DateUpdated = "date_updated"
)

// Column describes one table column.
type Column struct {
	Name          string
	ExternalName  string
	Type          types.Semantic
	Size          int
	Enum          []string
	Key           bool
	Required      bool
	AutoIncrement bool
}

// NewColumn builds a Column from driver metadata.
func NewColumn(c introspect.Column) *Column {
	size := c.Size
	if fixed := c.Type.FixedSize(); fixed > 0 {
		size = fixed
	}

	var enum []string
	if c.Type == types.Enumeration && len(c.Enum) > 0 {
		enum = append(enum, c.Enum...)
	}

	return &Column{
		Name:          c.Name,
		ExternalName:  strutil.ExternalName(c.Name),
		Type:          c.Type,
		Size:          size,
		Enum:          enum,
		Key:           c.Key,
		Required:      c.Required(),
		AutoIncrement: c.AutoIncrement,
	}
}

// IsTimestamp reports whether the column is one of the maintained
// date_added/date_updated columns.
func (c *Column) IsTimestamp() bool {
	return c.Name == DateAdded || c.Name == DateUpdated
}

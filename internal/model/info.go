package model

// ColumnInfo is the serializable description of a column.
type ColumnInfo struct {
	Name          string   `json:"name" yaml:"name"`
	ExternalName  string   `json:"external_name" yaml:"external_name"`
	Type          string   `json:"type" yaml:"type"`
	Size          int      `json:"size,omitempty" yaml:"size,omitempty"`
	Enum          []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Key           bool     `json:"key,omitempty" yaml:"key,omitempty"`
	Required      bool     `json:"required,omitempty" yaml:"required,omitempty"`
	AutoIncrement bool     `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty"`
}

// TableInfo is the serializable description of a table and its relationships.
type TableInfo struct {
	Name         string       `json:"name" yaml:"name"`
	ExternalName string       `json:"external_name" yaml:"external_name"`
	Kind         string       `json:"kind" yaml:"kind"`
	PrimaryKey   string       `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Links        []string     `json:"links,omitempty" yaml:"links,omitempty"`
	Columns      []ColumnInfo `json:"columns" yaml:"columns"`
}

// Info describes t.
func (t *Table) Info() TableInfo {
	info := TableInfo{
		Name:         t.Name,
		ExternalName: t.ExternalName,
		Kind:         t.Class.Kind.String(),
		PrimaryKey:   t.PrimaryKey,
		Links:        t.links,
		Columns:      make([]ColumnInfo, len(t.columns)),
	}
	for i, c := range t.columns {
		info.Columns[i] = ColumnInfo{
			Name:          c.Name,
			ExternalName:  c.ExternalName,
			Type:          c.Type.String(),
			Size:          c.Size,
			Enum:          c.Enum,
			Key:           c.Key,
			Required:      c.Required,
			AutoIncrement: c.AutoIncrement,
		}
	}
	return info
}

// Describe returns the description of every table in driver order.
func (c *Catalog) Describe() []TableInfo {
	out := make([]TableInfo, len(c.names))
	for i, n := range c.names {
		out[i] = c.tables[n].Info()
	}
	return out
}

package main

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/linkdb/internal/cli"
)

// emitYAML writes v as YAML, or as JSON in --json mode.
func emitYAML(v any) error {
	out := cli.Default()
	if out.IsJSON() {
		return out.Emit("", v)
	}
	enc := yaml.NewEncoder(out.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// parseID parses a row id argument.
func parseID(table, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("'%s' is not a row id of table '%s'", raw, table)
	}
	return id, nil
}

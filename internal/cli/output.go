package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hlop3z/linkdb/internal/model"
)

// Table provides formatted table output. In TTY mode it is drawn with
// rounded borders; otherwise it is aligned plain text.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	return &Table{
		headers: headers,
		widths:  widths,
	}
}

// AddRow adds a row to the table. Short rows are padded, extra cells dropped.
func (t *Table) AddRow(cells ...string) {
	for len(cells) < len(t.headers) {
		cells = append(cells, "")
	}
	cells = cells[:len(t.headers)]
	for i, cell := range cells {
		if w := lipgloss.Width(cell); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table as a string.
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}
	if !EnableColors() {
		return t.renderPlain()
	}
	return t.renderStyled()
}

func (t *Table) renderPlain() string {
	var b strings.Builder
	t.writeLine(&b, t.headers, "  ", func(s string) string { return s })
	for i, w := range t.widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteString("\n")
	for _, row := range t.rows {
		t.writeLine(&b, row, "  ", func(s string) string { return s })
	}
	return b.String()
}

func (t *Table) renderStyled() string {
	var b strings.Builder

	total := 0
	for _, w := range t.widths {
		total += w + 3
	}
	total--

	b.WriteString(Border("╭" + strings.Repeat("─", total+2) + "╮"))
	b.WriteString("\n" + Border("│") + " ")
	t.writeLine(&b, t.headers, Border(" │ "), Header)
	b.WriteString(Border("├" + strings.Repeat("─", total+2) + "┤"))
	b.WriteString("\n")
	for _, row := range t.rows {
		b.WriteString(Border("│") + " ")
		t.writeLine(&b, row, Border(" │ "), func(s string) string { return s })
	}
	b.WriteString(Border("╰" + strings.Repeat("─", total+2) + "╯"))
	b.WriteString("\n")
	return b.String()
}

func (t *Table) writeLine(b *strings.Builder, cells []string, sep string, style func(string) string) {
	var line strings.Builder
	for i, cell := range cells {
		if i > 0 {
			line.WriteString(sep)
		}
		line.WriteString(style(padRight(cell, t.widths[i])))
	}
	if EnableColors() {
		b.WriteString(line.String() + " " + Border("│") + "\n")
		return
	}
	b.WriteString(strings.TrimRight(line.String(), " ") + "\n")
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// ListingTable renders a row listing with its external column names as
// headers.
func ListingTable(l *model.Listing) *Table {
	t := NewTable(l.Header...)
	for _, row := range l.Rows {
		t.AddRow(row...)
	}
	return t
}

// FormatEntries renders a record view. Title entries start a new block.
func FormatEntries(entries []model.Entry) string {
	width := 0
	for _, e := range entries {
		if !e.Title && lipgloss.Width(e.Label) > width {
			width = lipgloss.Width(e.Label)
		}
	}

	var b strings.Builder
	for i, e := range entries {
		if e.Title {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(Header(e.Label))
			b.WriteString("\n")
			continue
		}
		b.WriteString("  ")
		b.WriteString(Dim(padRight(e.Label, width)))
		b.WriteString("  ")
		b.WriteString(e.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatLinks renders the link sets of a row, one line per junction.
func FormatLinks(sets []model.LinkSet) string {
	if len(sets) == 0 {
		return Dim("no links") + "\n"
	}
	var b strings.Builder
	for _, s := range sets {
		fmt.Fprintf(&b, "  %s %s  %s %s\n",
			Info("→"),
			Highlight(s.Table),
			Dim("via "+s.Junction+":"),
			s.Joined(),
		)
	}
	return b.String()
}

// List provides formatted list output.
type List struct {
	items []listItem
}

type listItem struct {
	marker  string
	content string
}

// NewList creates a new list.
func NewList() *List {
	return &List{}
}

// Add adds a plain item to the list.
func (l *List) Add(content string) {
	l.items = append(l.items, listItem{"•", content})
}

// AddSuccess adds a success item to the list.
func (l *List) AddSuccess(content string) {
	l.items = append(l.items, listItem{Success("✓"), content})
}

// AddError adds an error item to the list.
func (l *List) AddError(content string) {
	l.items = append(l.items, listItem{Error("✗"), content})
}

// AddInfo adds an info item to the list.
func (l *List) AddInfo(content string) {
	l.items = append(l.items, listItem{Info("→"), content})
}

// String renders the list as a string.
func (l *List) String() string {
	var b strings.Builder
	for _, item := range l.items {
		b.WriteString("  ")
		b.WriteString(item.marker)
		b.WriteString(" ")
		b.WriteString(item.content)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatCount formats a count with singular/plural form.
func FormatCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

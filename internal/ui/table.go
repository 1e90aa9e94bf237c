package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// Table renders rows with fixed-width columns for terminal output.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // per column; 0 means unlimited
}

// ColumnWidths is the widest cell of every column, capped at MaxWidth.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	if t.MaxWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], t.MaxWidth)
		}
	}
	return widths
}

func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}
	widths := t.ColumnWidths()
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	var sb strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = truncate(cells[i], w)
			}
			sb.WriteString(style.Width(w).Render(cell))
			if i < len(widths)-1 {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(t.Headers, headerStyle)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	writeRow(sep, StyleSubtle)
	for _, row := range t.Rows {
		writeRow(row, lipgloss.NewStyle())
	}
	return sb.String()
}

// RenderContactTable formats contacts as ID, Name, Phone, Email columns.
func RenderContactTable(contacts []*domain.Contact) string {
	t := &Table{Headers: []string{"ID", "Name", "Phone", "Email"}, MaxWidth: 40}
	for _, c := range contacts {
		t.Rows = append(t.Rows, []string{strconv.FormatInt(c.ID, 10), c.Name, c.Phone, c.Email})
	}
	return t.Render()
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	if w <= 1 {
		return "…"
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

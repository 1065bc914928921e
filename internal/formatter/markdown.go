// Package formatter renders the Metric/Value summaries as aligned markdown and terminal tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Blackmvmba88/q2bs/pkg/metadata"
)

// minColumnWidth keeps separator cells at least "---".
const minColumnWidth = 3

// Table renders header and rows as a markdown table padded to display width.
func Table(header []string, rows [][]string) []string {
	table := make([][]string, 0, len(rows)+2)
	table = append(table, header, nil)
	table = append(table, rows...)

	return render(table, 1)
}

// FormatMarkdown realigns every pipe table in content. A signed document is re-signed with
// its generator and version kept, since alignment changes the hashed body.
func FormatMarkdown(content string) string {
	meta, body := metadata.Extract(content)
	if meta == nil {
		body = content
	}

	var out, buffered []string

	for line := range strings.SplitSeq(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			buffered = append(buffered, line)

			continue
		}

		out = append(out, alignTable(buffered)...)
		buffered = nil

		out = append(out, line)
	}

	out = append(out, alignTable(buffered)...)
	formatted := strings.Join(out, "\n")

	if meta == nil {
		return formatted
	}

	return metadata.Sign(formatted, metadata.Metadata{Generator: meta.Generator, Version: meta.Version})
}

// alignTable parses raw table lines and re-renders them. Fewer than two lines are returned
// unchanged since there is no header/separator pair to align.
func alignTable(lines []string) []string {
	if len(lines) < 2 {
		return lines
	}

	table := make([][]string, len(lines))
	for i, line := range lines {
		table[i] = splitRow(line)
	}

	separator := -1
	if isSeparator(table[1]) {
		separator = 1
	}

	return render(table, separator)
}

func splitRow(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")

	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}

	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}

	return cells
}

func isSeparator(cells []string) bool {
	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}

	return true
}

// render pads table cells to the widest display width per column. The row at separator is
// drawn as dashes and does not count toward widths.
func render(table [][]string, separator int) []string {
	columns := 0
	for _, row := range table {
		columns = max(columns, len(row))
	}

	widths := make([]int, columns)
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for r, row := range table {
		if r == separator {
			continue
		}

		for c, cell := range row {
			widths[c] = max(widths[c], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(table))

	for r, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		for c, width := range widths {
			sb.WriteString(" ")

			if r == separator {
				sb.WriteString(strings.Repeat("-", width))
			} else {
				cell := ""
				if c < len(row) {
					cell = row[c]
				}

				sb.WriteString(runewidth.FillRight(cell, width))
			}

			sb.WriteString(" |")
		}

		lines = append(lines, sb.String())
	}

	return lines
}

// EscapeCell makes free text safe to place inside a table cell.
func EscapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)

	return strings.Join(strings.Fields(s), " ")
}

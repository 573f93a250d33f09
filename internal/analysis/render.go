package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/csvutils-cli/internal/profile"
	"github.com/KaramelBytes/csvutils-cli/internal/source"
)

// TextHeader is the column legend of the tab-separated report.
const TextHeader = "Field\tMax\tTypes % (i, f, c)\t\t\tTitle"

// EmptyMarker flags columns that never held a non-blank value.
const EmptyMarker = "empty"

// Text renders the classic tab-separated report: a summary line, the
// legend, then one line per column in position order.
func (r *Report) Text(precision int) string {
	precision = clampPrecision(precision)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d records in file (%s delim), %d columns.\n",
		r.Rows, source.DisplayDelimiter(r.delimiter()), len(r.Cols)))
	b.WriteString(TextHeader)
	b.WriteString("\n")
	for _, c := range r.Cols {
		b.WriteString(TextLine(c, precision))
		b.WriteString("\n")
	}
	return b.String()
}

// TextLine formats one column as
// "<pos>\t<max>\t(<i>, <f>, <c>)\t<empty?>\t<title>".
func TextLine(c profile.Column, precision int) string {
	marker := ""
	if !c.EverNonEmpty {
		marker = EmptyMarker
	}
	return fmt.Sprintf("%d\t%d\t(%s)\t%s\t%s", c.Position+1, c.MaxWidth, formatShares(c, precision), marker, c.Title)
}

// Markdown renders a compact report suitable for docs or tickets.
func (r *Report) Markdown(precision int) string {
	precision = clampPrecision(precision)
	var b strings.Builder
	b.WriteString("[DATASET PROFILE]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Truncated {
		b.WriteString(fmt.Sprintf("Rows: %d (stopped at --max)\n", r.Rows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Delimiter: %s\n", source.DisplayDelimiter(r.delimiter())))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[COLUMNS]\n")
	b.WriteString("| # | Title | Max | Int % | Float % | Text % | Empty |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, c := range r.Cols {
		i, f, t := c.Percentages()
		empty := ""
		if !c.EverNonEmpty {
			empty = "yes"
		}
		b.WriteString(fmt.Sprintf("| %d | %s | %d | %.*f | %.*f | %.*f | %s |\n",
			c.Position+1, safeName(c.Title), c.MaxWidth, precision, i, precision, f, precision, t, empty))
	}
	return b.String()
}

func formatShares(c profile.Column, precision int) string {
	i, f, t := c.Percentages()
	return fmt.Sprintf("%.*f, %.*f, %.*f", precision, i, precision, f, precision, t)
}

func (r *Report) delimiter() rune {
	if r.Delimiter == 0 {
		return ','
	}
	return r.Delimiter
}

func clampPrecision(p int) int {
	if p < 0 {
		return DefaultPrecision
	}
	if p > 12 {
		return 12
	}
	return p
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

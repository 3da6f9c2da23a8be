// Package report renders validation results, schema listings and backup
// snapshots for the terminal.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/su2gui/su2cfg/internal/color"
	"github.com/su2gui/su2cfg/internal/schema"
	"github.com/su2gui/su2cfg/internal/transcode"
)

// maxCellWidth bounds rendered values so a long list doesn't blow up the table.
const maxCellWidth = 48

// StatusIcon returns a single-width icon for a result.
func StatusIcon(res transcode.Result) string {
	switch {
	case res.Valid:
		return "✓"
	case res.Err != nil:
		return "!"
	default:
		return "✗"
	}
}

// RenderResult renders one validation result: a status line, a table of
// violations when there are any, and the decode warnings.
func RenderResult(res transcode.Result, theme color.Theme) string {
	return renderResult(res, theme, 0)
}

// RenderResults renders a batch of results with their paths aligned.
func RenderResults(results []transcode.Result, theme color.Theme) string {
	width := 0
	for _, res := range results {
		width = max(width, runewidth.StringWidth(shortenPath(res.Path)))
	}

	var b strings.Builder

	for _, res := range results {
		b.WriteString(renderResult(res, theme, width))
	}

	return b.String()
}

func renderResult(res transcode.Result, theme color.Theme, pathWidth int) string {
	var b strings.Builder

	b.WriteString(statusLine(res, theme, pathWidth))
	b.WriteByte('\n')

	switch {
	case res.Err != nil:
		b.WriteString("  ")
		b.WriteString(theme.Invalid.Render(res.Err.Error()))
		b.WriteByte('\n')
	case len(res.Errors) > 0:
		b.WriteString(RenderErrors(res.Errors, theme))
		b.WriteByte('\n')
	}

	for _, w := range res.Warnings {
		b.WriteString("  ")
		b.WriteString(theme.Warning.Render("! " + w.String()))
		b.WriteByte('\n')
	}

	return b.String()
}

// statusLine renders the icon, the path and a short count of problems. The
// path is padded to pathWidth when counts follow it.
func statusLine(res transcode.Result, theme color.Theme, pathWidth int) string {
	icon := StatusIcon(res)

	switch {
	case res.Valid:
		icon = theme.Valid.Render(icon)
	case res.Err != nil:
		icon = theme.Warning.Render(icon)
	default:
		icon = theme.Invalid.Render(icon)
	}

	var details []string

	if n := len(res.Errors); n > 0 && res.Err == nil {
		details = append(details, fmt.Sprintf("%d error(s)", n))
	}

	if n := len(res.Warnings); n > 0 {
		details = append(details, fmt.Sprintf("%d warning(s)", n))
	}

	line := icon + " " + theme.Field.Render(shortenPath(res.Path))
	if len(details) > 0 {
		line = padToWidth(line, pathWidth+2) + " " + theme.Muted.Render("("+strings.Join(details, ", ")+")")
	}

	return line
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// RenderErrors renders violations as a table with one row per error.
func RenderErrors(errs []schema.ValidationError, theme color.Theme) string {
	if len(errs) == 0 {
		return ""
	}

	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{
			theme.Field.Render(e.PathString()),
			e.Message,
			FormatValue(e.Value),
			FormatValue(e.Expected),
		})
	}

	return renderTable([]string{"Path", "Message", "Value", "Expected"}, rows, theme)
}

// RenderSummary returns a colored summary line for a batch of results.
func RenderSummary(results []transcode.Result, theme color.Theme) string {
	var valid, invalid, failed, warnings int

	for _, r := range results {
		switch {
		case r.Valid:
			valid++
		case r.Err != nil:
			failed++
		default:
			invalid++
		}

		warnings += len(r.Warnings)
	}

	parts := []string{
		styleSummaryPart(fmt.Sprintf("%d invalid", invalid), invalid > 0, theme.Invalid),
		styleSummaryPart(fmt.Sprintf("%d failed", failed), failed > 0, theme.Warning),
		styleSummaryPart(fmt.Sprintf("%d warning(s)", warnings), warnings > 0, theme.Warning),
		theme.Valid.Render(fmt.Sprintf("%d valid", valid)),
	}

	return "Summary: " + strings.Join(parts, ", ")
}

// RenderProperties renders a schema's property listing.
func RenderProperties(props []schema.PropertySummary, theme color.Theme) string {
	if len(props) == 0 {
		return theme.Muted.Render("no properties")
	}

	rows := make([][]string, 0, len(props))
	for _, p := range props {
		def := ""
		if p.Default != nil {
			def = FormatValue(p.Default)
		}

		rows = append(rows, []string{theme.Field.Render(p.Name), p.Type, def, p.Description})
	}

	return renderTable([]string{"Property", "Type", "Default", "Description"}, rows, theme)
}

// FormatValue renders a value compactly as JSON, truncated to a readable
// width. nil renders as an empty string.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return runewidth.Truncate(string(data), maxCellWidth, "…")
}

func renderTable(headers []string, rows [][]string, theme color.Theme) string {
	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Formatting().WithAutoWrap(tw.WrapNormal).Build().Build().
			Build()),
	)

	t.Header(headers)

	for _, row := range rows {
		_ = t.Append(row)
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

func styleSummaryPart(text string, active bool, style lipgloss.Style) string {
	if active {
		return style.Render(text)
	}

	return text
}

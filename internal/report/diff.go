package report

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/su2gui/su2cfg/internal/color"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// Diff returns a unified diff from before to after, or "" when they are
// equal. Added and removed lines are colored by the theme.
func Diff(before, after, fromName, toName string, theme color.Theme) (string, error) {
	if before == after {
		return "", nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: fromName,
		ToFile:   toName,
		Context:  diffContext,
	})
	if err != nil {
		return "", errors.Wrap(err, "computing diff")
	}

	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = theme.Header.Render(strings.TrimSuffix(line, "\n")) + trailingNewline(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = theme.Valid.Render(strings.TrimSuffix(line, "\n")) + trailingNewline(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = theme.Invalid.Render(strings.TrimSuffix(line, "\n")) + trailingNewline(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = theme.Info.Render(strings.TrimSuffix(line, "\n")) + trailingNewline(line)
		}
	}

	return strings.Join(lines, ""), nil
}

func trailingNewline(line string) string {
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}

	return ""
}

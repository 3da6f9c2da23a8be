// Package cfgtext reads and writes the SU2 line-oriented configuration
// dialect:
//
//	% comment
//	KEY= value
//	KEY2= (a, b, c)
package cfgtext

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/su2gui/su2cfg/pkg/document"
)

var numberRegex = regexp.MustCompile(`^[+-]?[0-9]*\.?[0-9]+([eE][+-]?[0-9]+)?$`)

// Parse converts a single raw value into a typed Value. It never fails:
// anything that is not a boolean, a parenthesized list or a number is kept
// as a string with its case preserved.
func Parse(raw string) document.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return document.String("")
	}

	switch strings.ToUpper(raw) {
	case "YES", "TRUE":
		return document.Bool(true)
	case "NO", "FALSE":
		return document.Bool(false)
	}

	if isParenthesized(raw) {
		return ParseList(raw)
	}

	if numberRegex.MatchString(raw) {
		return parseNumber(raw)
	}

	return document.String(raw)
}

// ParseList parses a parenthesized, comma-separated list. Commas nested in
// parentheses or inside quotes do not split. Quote state is a single toggle
// shared by both quote characters, so mismatched quotes are not detected.
// Unbalanced parentheses yield whatever the scan produces; this is never an
// error.
func ParseList(raw string) document.Value {
	inner := strings.TrimSpace(raw)
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}

	inner = strings.TrimSpace(inner)
	if inner == "" {
		return document.List()
	}

	parts := splitTopLevel(inner)
	elems := make([]document.Value, 0, len(parts))

	for _, part := range parts {
		if isParenthesized(part) {
			elems = append(elems, ParseList(part))

			continue
		}

		if text, quoted := unquote(part); quoted {
			elems = append(elems, document.String(text))

			continue
		}

		elems = append(elems, Parse(part))
	}

	return document.List(elems...)
}

// splitTopLevel splits s at commas that are outside quotes and at paren
// depth zero. Blank elements are dropped.
func splitTopLevel(s string) []string {
	var (
		parts    []string
		current  strings.Builder
		inQuotes bool
		depth    int
	)

	flush := func() {
		if elem := strings.TrimSpace(current.String()); elem != "" {
			parts = append(parts, elem)
		}

		current.Reset()
	}

	for _, r := range s {
		switch r {
		case '"', '\'':
			inQuotes = !inQuotes
		case '(':
			depth++
		case ')':
			depth--
		}

		if r == ',' && !inQuotes && depth == 0 {
			flush()

			continue
		}

		current.WriteRune(r)
	}

	flush()

	return parts
}

func isParenthesized(s string) bool {
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

// unquote strips one pair of matching outer quotes from a list element and
// reports whether it did. A quoted element is always a string.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}

	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1], true
	}

	return s, false
}

// parseNumber converts a token already matched by numberRegex. Tokens that
// still fail to convert (int64 overflow, float range) stay strings.
func parseNumber(raw string) document.Value {
	if strings.ContainsAny(raw, ".eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return document.String(raw)
		}

		return document.Float(f)
	}

	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return document.String(raw)
	}

	return document.Int(i)
}

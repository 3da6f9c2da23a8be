package cfgtext

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/su2gui/su2cfg/pkg/document"
)

// noneLiteral marks a field with no value; the dialect has no null, so such
// fields are left out.
const noneLiteral = "none"

// Encode writes doc in the configuration dialect. The header goes first,
// one comment line per header line. Fields follow in insertion order as
// "KEY= value"; empty strings and "none" are omitted.
func Encode(w io.Writer, doc *document.Document, header string) error {
	bw := bufio.NewWriter(w)

	if err := writeHeader(bw, header); err != nil {
		return err
	}

	var writeErr error

	doc.Range(func(key string, value document.Value) bool {
		if skipValue(value) {
			return true
		}

		_, writeErr = bw.WriteString(key + "= " + FormatValue(value) + "\n")

		return writeErr == nil
	})

	if writeErr != nil {
		return errors.Wrap(writeErr, "writing configuration")
	}

	return errors.Wrap(bw.Flush(), "flushing configuration")
}

// EncodeString renders doc in the configuration dialect.
func EncodeString(doc *document.Document, header string) string {
	var b strings.Builder

	// strings.Builder never returns a write error.
	_ = Encode(&b, doc, header)

	return b.String()
}

func writeHeader(bw *bufio.Writer, header string) error {
	header = strings.TrimRight(header, "\n")
	if header == "" {
		return nil
	}

	for _, line := range strings.Split(header, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), CommentMarker) {
			line = CommentMarker + " " + line
		}

		if _, err := bw.WriteString(line + "\n"); err != nil {
			return errors.Wrap(err, "writing header")
		}
	}

	return nil
}

func skipValue(v document.Value) bool {
	s, ok := v.Str()
	if !ok {
		return false
	}

	return s == "" || strings.EqualFold(s, noneLiteral)
}

// FormatValue renders a single value. Lists are flattened by exactly one
// level: direct sublists are spliced into the parent's elements, and only
// deeper lists keep their own parentheses.
func FormatValue(v document.Value) string {
	if !v.IsList() {
		return v.String()
	}

	var parts []string

	for _, elem := range v.Elems() {
		if elem.IsList() {
			for _, sub := range elem.Elems() {
				parts = append(parts, sub.String())
			}

			continue
		}

		parts = append(parts, elem.String())
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

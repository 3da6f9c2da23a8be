package cfgtext

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/su2gui/su2cfg/pkg/document"
)

const (
	// CommentMarker starts a comment anywhere on a line.
	CommentMarker = "%"

	maxLineBytes = 1 << 20
)

// Warning describes a line that was skipped while decoding.
type Warning struct {
	// Line is the 1-indexed line number.
	Line int

	// Text is the line after trimming and comment removal.
	Text string

	// Message explains why the line was skipped.
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Message, w.Text)
}

// Decode reads configuration text into a Document. Malformed lines never
// abort decoding; they are reported as warnings. The returned error is only
// set when reading from r fails.
func Decode(r io.Reader) (*document.Document, []Warning, error) {
	doc := document.New()

	var warnings []Warning

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		if w, ok := decodeLine(doc, lineNum, scanner.Text()); !ok {
			warnings = append(warnings, w)
		}
	}

	if err := scanner.Err(); err != nil {
		return doc, warnings, errors.Wrapf(err, "reading line %d", lineNum+1)
	}

	return doc, warnings, nil
}

// DecodeString decodes configuration text held in memory.
func DecodeString(text string) (*document.Document, []Warning) {
	// strings.Reader never fails and no line exceeds the text itself.
	doc, warnings, _ := Decode(strings.NewReader(text))

	return doc, warnings
}

// decodeLine stores the field held by line, if any. It returns false with a
// warning when the line had content that could not be stored.
func decodeLine(doc *document.Document, lineNum int, line string) (Warning, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, CommentMarker) {
		return Warning{}, true
	}

	if idx := strings.Index(line, CommentMarker); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}

	if line == "" {
		return Warning{}, true
	}

	key, raw, found := strings.Cut(line, "=")
	if !found {
		return Warning{Line: lineNum, Text: line, Message: `missing "="`}, false
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return Warning{Line: lineNum, Text: line, Message: "empty key"}, false
	}

	doc.Set(key, Parse(raw))

	return Warning{}, true
}

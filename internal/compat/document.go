package compat

import (
	"github.com/su2gui/su2cfg/pkg/document"
)

// FixDocument applies the document-side coercions to doc in place and
// returns it. Applying it twice yields the same result as applying it once.
func FixDocument(doc *document.Document) *document.Document {
	for _, key := range ArrayDocumentFields {
		if v, ok := doc.Get(key); ok && !v.IsList() {
			doc.Set(key, document.List(v))
		}
	}

	for _, key := range IterationCountFields {
		v, ok := doc.Get(key)
		if !ok {
			continue
		}

		if v.IsNumber() {
			doc.Set(key, document.String(v.String()))
		} else if b, isBool := v.BoolValue(); isBool {
			doc.Set(key, document.String(boolLiteral(b)))
		}
	}

	if v, ok := doc.Get(TimeMarchingLegacy.Field); ok {
		if s, isStr := v.Str(); isStr && s == TimeMarchingLegacy.From {
			doc.Set(TimeMarchingLegacy.Field, document.String(TimeMarchingLegacy.To))
		}
	}

	return doc
}

// boolLiteral spells a boolean counter the way legacy tooling stored it.
func boolLiteral(b bool) string {
	if b {
		return "True"
	}

	return "False"
}

package transcode

import (
	"bytes"
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/su2gui/su2cfg/internal/cfgtext"
	"github.com/su2gui/su2cfg/internal/compat"
	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/schema"
	"github.com/su2gui/su2cfg/pkg/document"
)

// Result is the outcome of validating one file.
type Result struct {
	// Path is the validated file.
	Path string

	// Valid is true when the document satisfies the schema.
	Valid bool

	// Document is the normalized document that was validated. It is empty
	// when validation could not run.
	Document *document.Document

	// Errors lists the violations. When validation could not run it holds a
	// single entry describing the failure.
	Errors []schema.ValidationError

	// Warnings lists lines skipped while decoding configuration text.
	Warnings []cfgtext.Warning

	// Err is the typed cause when validation could not run.
	Err error
}

// failed builds the result for a failure that happened before validation.
func failed(path string, err error) Result {
	return Result{
		Path:     path,
		Document: document.New(),
		Errors:   []schema.ValidationError{{Message: err.Error()}},
		Err:      err,
	}
}

// resolveSchemaPath falls back to the configured schema when none is given.
func (t *Transcoder) resolveSchemaPath(schemaPath string) (string, error) {
	if schemaPath != "" {
		return schemaPath, nil
	}

	if configured := t.settings.GetSchema().Path; configured != "" {
		return configured, nil
	}

	return "", ErrNoSchema
}

// loadValidator loads the schema at schemaPath, applies the compatibility
// patches when normalize is set and compiles it.
func (t *Transcoder) loadValidator(schemaPath string, normalize bool) (*schema.Validator, error) {
	path, err := t.resolveSchemaPath(schemaPath)
	if err != nil {
		return nil, err
	}

	raw, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if normalize {
		raw, err = compat.FixSchema(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "normalizing schema %s", path)
		}
	}

	v, err := schema.Compile(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}

	t.log.Debug("compiled schema", "path", path, "normalized", normalize)

	return v, nil
}

// ValidateCfg decodes the configuration file at path, normalizes it and
// validates it against the normalized schema. An empty schemaPath uses the
// configured schema. Failures before validation are reported in the result,
// never returned.
func (t *Transcoder) ValidateCfg(path, schemaPath string) Result {
	doc, warnings, err := t.CfgToDocument(path)
	if err != nil {
		return failed(path, err)
	}

	doc = compat.FixDocument(doc)

	v, err := t.loadValidator(schemaPath, true)
	if err != nil {
		res := failed(path, err)
		res.Warnings = warnings

		return res
	}

	errs := v.Validate(doc)

	t.log.Info("validated configuration", "path", path, "valid", len(errs) == 0, "errors", len(errs))

	return Result{
		Path:     path,
		Valid:    len(errs) == 0,
		Document: doc,
		Errors:   errs,
		Warnings: warnings,
	}
}

// ValidateJSON validates a stored JSON (or YAML) document as-is, without
// compatibility normalization of either side.
func (t *Transcoder) ValidateJSON(path, schemaPath string) Result {
	tree, doc, err := t.loadTree(path)
	if err != nil {
		return failed(path, err)
	}

	v, err := t.loadValidator(schemaPath, false)
	if err != nil {
		return failed(path, err)
	}

	errs := v.ValidateValue(tree)

	t.log.Info("validated document", "path", path, "valid", len(errs) == 0, "errors", len(errs))

	return Result{
		Path:     path,
		Valid:    len(errs) == 0,
		Document: doc,
		Errors:   errs,
	}
}

// loadTree reads a stored document as a raw tree for validation. Values the
// Document type cannot hold (nested objects) are still validated; the
// returned Document then only lacks them.
func (t *Transcoder) loadTree(path string) (map[string]any, *document.Document, error) {
	if isYAML(path) {
		doc, err := t.LoadDocument(path)
		if err != nil {
			return nil, nil, err
		}

		return doc.Map(), doc, nil
	}

	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	tree, keys, err := document.ReadJSONTree(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.Wrapf(ErrDecode, "%s: %v", path, err)
	}

	doc := document.New()

	for _, key := range keys {
		if v, convErr := document.ValueOf(tree[key]); convErr == nil {
			doc.Set(key, v)
		}
	}

	return tree, doc, nil
}

// ValidateFile validates path with ValidateCfg or, for .json/.yaml/.yml
// files, ValidateJSON.
func (t *Transcoder) ValidateFile(path, schemaPath string) Result {
	if IsDocumentPath(path) {
		return t.ValidateJSON(path, schemaPath)
	}

	return t.ValidateCfg(path, schemaPath)
}

// ValidateFiles validates every path concurrently, at most limit at a time
// (GOMAXPROCS when limit <= 0). Results keep the order of paths. Each file
// gets its own document, schema copy and compiled validator.
func (t *Transcoder) ValidateFiles(ctx context.Context, paths []string, schemaPath string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = t.ValidateFile(path, schemaPath)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "validation cancelled")
	}

	return results, nil
}

// IsDocumentPath reports whether path names a stored JSON or YAML document
// rather than configuration text.
func IsDocumentPath(path string) bool {
	return isYAML(path) || isJSON(path)
}

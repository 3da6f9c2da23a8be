// Package transcode holds the file-level entry points: reading and writing
// configuration text, JSON and YAML documents, and validating documents
// against a schema. All file I/O of the pipeline happens here.
package transcode

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/cfgtext"
	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/variables"
	"github.com/su2gui/su2cfg/pkg/config"
	"github.com/su2gui/su2cfg/pkg/document"
	"github.com/su2gui/su2cfg/pkg/logger"
)

var (
	// ErrNotFound is returned when an input file does not exist.
	ErrNotFound = fsutil.ErrNotFound

	// ErrDecode is returned when a JSON document or schema is malformed.
	ErrDecode = fsutil.ErrDecode

	// ErrNoSchema is returned when validation is requested without a schema
	// path and none is configured.
	ErrNoSchema = errors.New("no schema path given or configured")

	// ErrUnknownFormat is returned for an output format other than json or yaml.
	ErrUnknownFormat = errors.New("unknown document format")
)

// Transcoder converts between configuration text and structured documents.
type Transcoder struct {
	settings *config.Config
	log      logger.Logger
	backups  *backup.Manager
	vars     *variables.Set
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(t *Transcoder) {
		if log != nil {
			t.log = log
		}
	}
}

// WithBackupManager snapshots existing targets before they are overwritten.
func WithBackupManager(mgr *backup.Manager) Option {
	return func(t *Transcoder) {
		t.backups = mgr
	}
}

// WithVariables substitutes vars into documents before they are encoded.
func WithVariables(vars *variables.Set) Option {
	return func(t *Transcoder) {
		t.vars = vars
	}
}

// New creates a Transcoder. A nil settings value uses built-in defaults.
func New(settings *config.Config, opts ...Option) *Transcoder {
	if settings == nil {
		settings = &config.Config{}
	}

	t := &Transcoder{
		settings: settings,
		log:      logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.log = t.log.With("component", "transcode")

	return t
}

// CfgToDocument decodes the configuration file at path. Skipped lines are
// returned as warnings.
func (t *Transcoder) CfgToDocument(path string) (*document.Document, []cfgtext.Warning, error) {
	f, err := fsutil.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc, warnings, err := cfgtext.Decode(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decoding %s", path)
	}

	t.log.Info("decoded configuration",
		"path", path,
		"fields", doc.Len(),
		"warnings", len(warnings),
	)

	for _, w := range warnings {
		t.log.Debug("skipped line", "path", path, "line", w.Line, "reason", w.Message)
	}

	return doc, warnings, nil
}

// CfgToJSON decodes the configuration file at path and, when outPath is not
// empty, writes the document there as JSON.
func (t *Transcoder) CfgToJSON(path, outPath string) (*document.Document, error) {
	doc, _, err := t.CfgToDocument(path)
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		return doc, nil
	}

	if err := t.WriteDocument(doc, outPath, config.FormatJSON); err != nil {
		return nil, err
	}

	return doc, nil
}

// LoadDocument reads a JSON or YAML document; the format follows the file
// extension.
func (t *Transcoder) LoadDocument(path string) (*document.Document, error) {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc *document.Document

	if isYAML(path) {
		doc, err = document.ReadYAML(bytes.NewReader(data))
	} else {
		doc, err = document.ReadJSON(bytes.NewReader(data))
	}

	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", path, err)
	}

	t.log.Info("loaded document", "path", path, "fields", doc.Len())

	return doc, nil
}

// EncodeDocument renders doc as configuration text after variable
// substitution.
func (t *Transcoder) EncodeDocument(doc *document.Document, header string) string {
	if t.vars.Len() > 0 {
		doc = variables.Substitute(doc, t.vars)
	}

	return cfgtext.EncodeString(doc, header)
}

// DocumentToCfg encodes doc and writes it to outPath. An existing file is
// backed up first when a backup manager is configured.
func (t *Transcoder) DocumentToCfg(doc *document.Document, outPath, header string) error {
	text := t.EncodeDocument(doc, header)

	if err := t.write(outPath, []byte(text)); err != nil {
		return err
	}

	t.log.Info("wrote configuration", "path", outPath, "fields", doc.Len())

	return nil
}

// JSONToCfg converts the JSON (or YAML) document at jsonPath into
// configuration text at outPath.
func (t *Transcoder) JSONToCfg(jsonPath, outPath, header string) error {
	doc, err := t.LoadDocument(jsonPath)
	if err != nil {
		return err
	}

	return t.DocumentToCfg(doc, outPath, header)
}

// RenderDocument renders doc as JSON (sorted keys, configured indent) or
// YAML (insertion order).
func (t *Transcoder) RenderDocument(doc *document.Document, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "", config.FormatJSON:
		if err := doc.WriteJSON(&buf, t.settings.GetOutput().GetJSONIndent()); err != nil {
			return nil, err
		}
	case config.FormatYAML:
		if err := doc.WriteYAML(&buf); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}

	return buf.Bytes(), nil
}

// WriteDocument renders doc in format and writes it to outPath.
func (t *Transcoder) WriteDocument(doc *document.Document, outPath, format string) error {
	data, err := t.RenderDocument(doc, format)
	if err != nil {
		return err
	}

	if err := t.write(outPath, data); err != nil {
		return err
	}

	t.log.Info("wrote document", "path", outPath, "format", format, "fields", doc.Len())

	return nil
}

func (t *Transcoder) write(path string, data []byte) error {
	if t.backups != nil && t.backups.Enabled() && fsutil.Exists(path) {
		snapshot, err := t.backups.CreateBackup(backup.CreateBackupOptions{
			SourcePath: path,
			Trigger:    backup.TriggerAutomatic,
		})
		if err != nil {
			return errors.Wrapf(err, "backing up %s", path)
		}

		t.log.Debug("backed up target", "path", path, "snapshot", snapshot.ID)
	}

	return fsutil.WriteFileAtomic(path, data, fsutil.FilePerm)
}

// FormatForPath returns the document format implied by path's extension.
func FormatForPath(path string) string {
	if isYAML(path) {
		return config.FormatYAML
	}

	return config.FormatJSON
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".yaml" || ext == ".yml"
}

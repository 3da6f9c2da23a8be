package config

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/xdg"
	"github.com/su2gui/su2cfg/pkg/config"
)

// ConfigFileMode is the file mode for settings files (user read/write only).
const ConfigFileMode = 0o600

// fileHeader is prepended to every settings file the Writer produces.
const fileHeader = "# su2cfg settings\n# See `su2cfg debug schema` for all available keys.\n\n"

// Writer handles writing settings to TOML files.
type Writer struct {
	paths xdg.PathResolver

	// backupManager snapshots existing files before they are replaced (optional).
	backupManager *backup.Manager
}

// NewWriter creates a new Writer. backupMgr may be nil.
func NewWriter(paths xdg.PathResolver, backupMgr *backup.Manager) *Writer {
	return &Writer{
		paths:         paths,
		backupManager: backupMgr,
	}
}

// WriteGlobal writes the settings to the global settings file.
func (w *Writer) WriteGlobal(cfg *config.Config) error {
	return w.WriteFile(w.GlobalConfigPath(), cfg)
}

// WriteProject writes the settings to the project settings file.
func (w *Writer) WriteProject(cfg *config.Config) error {
	return w.WriteFile(w.ProjectConfigPath(), cfg)
}

// WriteFile writes the settings to the given path.
func (w *Writer) WriteFile(path string, cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	if err := w.backupBeforeWrite(path); err != nil {
		return errors.Wrap(err, "failed to backup settings before write")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(path, data, ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write settings file %s", path)
	}

	return nil
}

// Marshal renders cfg as TOML preceded by the settings file header.
func Marshal(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fileHeader)

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to encode settings to TOML")
	}

	return buf.Bytes(), nil
}

// backupBeforeWrite snapshots the file at path if it exists and backups are on.
func (w *Writer) backupBeforeWrite(path string) error {
	if w.backupManager == nil || !w.backupManager.Enabled() {
		return nil
	}

	if !fsutil.Exists(path) {
		return nil
	}

	opts := backup.CreateBackupOptions{
		SourcePath: path,
		Trigger:    backup.TriggerAutomatic,
		Metadata:   backup.SnapshotMetadata{Command: "settings write"},
	}

	if _, err := w.backupManager.CreateBackup(opts); err != nil {
		return errors.Wrap(err, "backup failed")
	}

	return nil
}

// GlobalConfigPath returns the path to the global settings file.
func (w *Writer) GlobalConfigPath() string {
	return w.paths.GlobalConfigFile()
}

// ProjectConfigPath returns the path to the project settings file.
func (w *Writer) ProjectConfigPath() string {
	return w.paths.ProjectConfigFile()
}

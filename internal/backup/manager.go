package backup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/su2gui/su2cfg/pkg/config"
	"github.com/su2gui/su2cfg/pkg/logger"
)

var (
	// ErrSourceNotFound is returned when the file to back up doesn't exist.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrBackupDisabled is returned when backup system is disabled.
	ErrBackupDisabled = errors.New("backup system is disabled")
)

// Manager orchestrates backup operations.
type Manager struct {
	storage Storage
	config  *config.BackupConfig
	log     logger.Logger
}

// NewManager creates a new backup manager.
func NewManager(storage Storage, cfg *config.BackupConfig, log logger.Logger) (*Manager, error) {
	if storage == nil {
		return nil, errors.New("storage cannot be nil")
	}

	if cfg == nil {
		cfg = &config.BackupConfig{}
	}

	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Manager{
		storage: storage,
		config:  cfg,
		log:     log.With("component", "backup"),
	}, nil
}

// NewFilesystemManager creates a manager storing snapshots under baseDir.
func NewFilesystemManager(baseDir string, cfg *config.BackupConfig, log logger.Logger) (*Manager, error) {
	storage, err := NewFilesystemStorage(baseDir)
	if err != nil {
		return nil, err
	}

	return NewManager(storage, cfg, log)
}

// Enabled reports whether backups are taken.
func (m *Manager) Enabled() bool {
	return m.config.IsEnabled()
}

// CreateBackupOptions contains options for creating a backup.
type CreateBackupOptions struct {
	// SourcePath is the path of the file to back up.
	SourcePath string

	// Trigger indicates what caused this backup.
	Trigger Trigger

	// Metadata provides additional context.
	Metadata SnapshotMetadata
}

// CreateBackup snapshots the source file. Content already backed up for the
// same file is not stored twice; the existing snapshot is returned instead.
// The retention policy from the backup settings is applied afterwards.
func (m *Manager) CreateBackup(opts CreateBackupOptions) (*Snapshot, error) {
	if !m.config.IsEnabled() {
		return nil, ErrBackupDisabled
	}

	sourcePath, err := filepath.Abs(opts.SourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", opts.SourcePath)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrSourceNotFound, sourcePath)
		}

		return nil, errors.Wrap(err, "failed to stat source file")
	}

	// #nosec G304 - the source is a file su2cfg is about to overwrite
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read source file")
	}

	if !m.storage.Exists() {
		if initErr := m.storage.Initialize(); initErr != nil {
			return nil, errors.Wrap(initErr, "failed to initialize storage")
		}
	}

	index, err := m.storage.LoadIndex()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load index")
	}

	contentHash := ComputeContentHash(data)

	if existing, found := index.FindByHash(sourcePath, contentHash); found {
		m.log.Debug("content already backed up", "source", sourcePath, "snapshot", existing.ID)

		return &existing, nil
	}

	timestamp := time.Now()
	snapshotID := GenerateSnapshotID(timestamp, contentHash)

	storagePath, err := m.storage.Save(snapshotID+filepath.Ext(sourcePath), data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to save snapshot")
	}

	metadata := opts.Metadata
	if metadata.User == "" {
		metadata.User = getCurrentUser()
	}

	if metadata.Hostname == "" {
		metadata.Hostname = getHostname()
	}

	snapshot := Snapshot{
		ID:          snapshotID,
		Timestamp:   timestamp,
		SourcePath:  sourcePath,
		Mode:        info.Mode().Perm(),
		Trigger:     opts.Trigger,
		StoragePath: storagePath,
		Size:        int64(len(data)),
		Checksum:    contentHash,
		Metadata:    metadata,
	}

	index.Add(snapshot)

	policy, err := PolicyFromConfig(m.config)
	if err != nil {
		return nil, errors.Wrap(err, "invalid retention settings")
	}

	pruned := m.prune(index, policy)

	if err := m.storage.SaveIndex(index); err != nil {
		return nil, errors.Wrap(err, "failed to save index")
	}

	m.log.Info("backup created",
		"source", sourcePath,
		"snapshot", snapshotID,
		"size", snapshot.Size,
		"trigger", string(opts.Trigger),
		"pruned", len(pruned.RemovedSnapshots),
	)

	return &snapshot, nil
}

// List returns all snapshots, oldest first.
func (m *Manager) List() ([]Snapshot, error) {
	if !m.storage.Exists() {
		return []Snapshot{}, nil
	}

	index, err := m.storage.LoadIndex()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load index")
	}

	return index.List(), nil
}

// ListFor returns the snapshots of the file at path, oldest first.
func (m *Manager) ListFor(path string) ([]Snapshot, error) {
	sourcePath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	if !m.storage.Exists() {
		return []Snapshot{}, nil
	}

	index, err := m.storage.LoadIndex()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load index")
	}

	return index.ListFor(sourcePath), nil
}

// Get retrieves a snapshot by ID.
func (m *Manager) Get(id string) (*Snapshot, error) {
	if !m.storage.Exists() {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "ID: %s", id)
	}

	index, err := m.storage.LoadIndex()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load index")
	}

	snapshot, err := index.Get(id)
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// RetentionResult contains information about retention operations.
type RetentionResult struct {
	// BytesFreed is the number of bytes freed.
	BytesFreed int64

	// RemovedSnapshots contains the IDs of removed snapshots.
	RemovedSnapshots []string
}

// ApplyRetention removes every snapshot the policy does not retain.
func (m *Manager) ApplyRetention(policy RetentionPolicy) (*RetentionResult, error) {
	if policy == nil {
		return nil, errors.New("policy cannot be nil")
	}

	if !m.storage.Exists() {
		return &RetentionResult{}, nil
	}

	index, err := m.storage.LoadIndex()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load index")
	}

	result := m.prune(index, policy)

	if len(result.RemovedSnapshots) > 0 {
		if err := m.storage.SaveIndex(index); err != nil {
			return nil, errors.Wrap(err, "failed to save index after retention")
		}
	}

	return result, nil
}

// prune evaluates every snapshot against policy before removing any, so
// removals do not shift the decisions for the rest.
func (m *Manager) prune(index *SnapshotIndex, policy RetentionPolicy) *RetentionResult {
	now := time.Now()

	var toRemove []Snapshot

	for _, snapshot := range index.List() {
		ctx := RetentionContext{
			Siblings: index.ListFor(snapshot.SourcePath),
			Now:      now,
		}

		if !policy.ShouldRetain(snapshot, ctx) {
			toRemove = append(toRemove, snapshot)
		}
	}

	result := &RetentionResult{RemovedSnapshots: make([]string, 0, len(toRemove))}

	for _, snapshot := range toRemove {
		if err := m.storage.Delete(snapshot.StoragePath); err != nil &&
			!errors.Is(err, ErrSnapshotNotFound) {
			m.log.Error("failed to delete snapshot", "snapshot", snapshot.ID, "error", err)

			continue
		}

		if err := index.Delete(snapshot.ID); err != nil {
			continue
		}

		result.BytesFreed += snapshot.Size
		result.RemovedSnapshots = append(result.RemovedSnapshots, snapshot.ID)
	}

	return result
}

// Restore writes a snapshot back to disk.
func (m *Manager) Restore(snapshotID string, opts RestoreOptions) (*RestoreResult, error) {
	snapshot, err := m.Get(snapshotID)
	if err != nil {
		return nil, err
	}

	restorer, err := NewRestorer(m.storage, m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create restorer")
	}

	result, err := restorer.RestoreSnapshot(snapshot, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore snapshot")
	}

	m.log.Info("snapshot restored",
		"snapshot", snapshotID,
		"path", result.RestoredPath,
		"bytes", result.BytesRestored,
	)

	return result, nil
}

// ValidateSnapshot validates a snapshot's integrity.
func (m *Manager) ValidateSnapshot(snapshotID string) error {
	snapshot, err := m.Get(snapshotID)
	if err != nil {
		return err
	}

	restorer, err := NewRestorer(m.storage, m)
	if err != nil {
		return errors.Wrap(err, "failed to create restorer")
	}

	return restorer.ValidateSnapshot(snapshot)
}

func getCurrentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}

	if user := os.Getenv("USERNAME"); user != "" {
		return user
	}

	return "unknown"
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return hostname
}

package backup

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/su2gui/su2cfg/internal/fsutil"
)

var (
	// ErrChecksumMismatch is returned when snapshot checksum doesn't match content.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrTargetPathRequired is returned when target path is not provided.
	ErrTargetPathRequired = errors.New("target path is required")
)

// RestoreOptions contains options for restoring a snapshot.
type RestoreOptions struct {
	// TargetPath is where the file should be restored.
	// If empty, the snapshot's SourcePath is used.
	TargetPath string

	// BackupBeforeRestore snapshots the existing target before it is replaced.
	BackupBeforeRestore bool

	// Validate verifies the snapshot checksum before restoring.
	Validate bool
}

// RestoreResult contains information about a restore operation.
type RestoreResult struct {
	// RestoredPath is the path where the file was restored.
	RestoredPath string

	// BackupSnapshot is the snapshot created before restore, if any.
	BackupSnapshot *Snapshot

	// BytesRestored is the number of bytes written to the target file.
	BytesRestored int64

	// ChecksumVerified indicates whether checksum validation was performed.
	ChecksumVerified bool
}

// Restorer handles snapshot restoration operations.
type Restorer struct {
	storage Storage
	manager *Manager
}

// NewRestorer creates a new Restorer.
func NewRestorer(storage Storage, manager *Manager) (*Restorer, error) {
	if storage == nil {
		return nil, errors.New("storage cannot be nil")
	}

	if manager == nil {
		return nil, errors.New("manager cannot be nil")
	}

	return &Restorer{storage: storage, manager: manager}, nil
}

// RestoreSnapshot restores a snapshot to the target path.
func (r *Restorer) RestoreSnapshot(snapshot *Snapshot, opts RestoreOptions) (*RestoreResult, error) {
	if snapshot == nil {
		return nil, errors.New("snapshot cannot be nil")
	}

	targetPath := opts.TargetPath
	if targetPath == "" {
		targetPath = snapshot.SourcePath
	}

	if targetPath == "" {
		return nil, ErrTargetPathRequired
	}

	content, err := r.storage.Load(snapshot.StoragePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load snapshot data")
	}

	checksumVerified := false

	if opts.Validate {
		if err := verifyChecksum(snapshot, content); err != nil {
			return nil, err
		}

		checksumVerified = true
	}

	var backupSnapshot *Snapshot

	if opts.BackupBeforeRestore && r.manager.Enabled() {
		if _, statErr := os.Stat(targetPath); statErr == nil {
			backup, err := r.manager.CreateBackup(CreateBackupOptions{
				SourcePath: targetPath,
				Trigger:    TriggerBeforeRestore,
				Metadata: SnapshotMetadata{
					Description: "Automatic backup before restoring snapshot " + snapshot.ID,
				},
			})
			if err != nil {
				return nil, errors.Wrap(err, "failed to create backup before restore")
			}

			backupSnapshot = backup
		}
	}

	mode := snapshot.Mode
	if mode == 0 {
		mode = fsutil.FilePerm
	}

	if err := fsutil.WriteFileAtomic(targetPath, content, mode); err != nil {
		return nil, errors.Wrap(err, "failed to write restored content")
	}

	return &RestoreResult{
		RestoredPath:     targetPath,
		BackupSnapshot:   backupSnapshot,
		BytesRestored:    int64(len(content)),
		ChecksumVerified: checksumVerified,
	}, nil
}

// ValidateSnapshot validates a snapshot's integrity.
func (r *Restorer) ValidateSnapshot(snapshot *Snapshot) error {
	if snapshot == nil {
		return errors.New("snapshot cannot be nil")
	}

	content, err := r.storage.Load(snapshot.StoragePath)
	if err != nil {
		return errors.Wrap(err, "failed to load snapshot data")
	}

	return verifyChecksum(snapshot, content)
}

func verifyChecksum(snapshot *Snapshot, content []byte) error {
	actualHash := ComputeContentHash(content)
	if actualHash != snapshot.Checksum {
		return errors.Wrapf(
			ErrChecksumMismatch,
			"snapshot %s: expected %s, got %s",
			snapshot.ID,
			snapshot.Checksum,
			actualHash,
		)
	}

	return nil
}

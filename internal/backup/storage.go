package backup

//go:generate mockgen -source=storage.go -destination=storage_mock.go -package=backup Storage

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

var (
	// ErrStorageNotInitialized is returned when storage is not initialized.
	ErrStorageNotInitialized = errors.New("storage not initialized")

	// ErrInvalidPath is returned when an invalid path is provided.
	ErrInvalidPath = errors.New("invalid path")
)

const (
	// SnapshotsDir is the subdirectory for snapshot files.
	SnapshotsDir = "snapshots"

	// MetadataFile is the filename for the snapshot index.
	MetadataFile = "metadata.json"

	// FilePerm is the file permission for backup files.
	FilePerm fs.FileMode = 0o600

	// DirPerm is the directory permission for backup directories.
	DirPerm fs.FileMode = 0o700
)

// Storage defines the interface for backup storage operations.
type Storage interface {
	// Save stores snapshot data under name and returns its storage path.
	Save(name string, data []byte) (string, error)

	// Load retrieves snapshot data by storage path.
	Load(storagePath string) ([]byte, error)

	// Delete removes snapshot data by storage path.
	Delete(storagePath string) error

	// SaveIndex saves the snapshot index.
	SaveIndex(index *SnapshotIndex) error

	// LoadIndex loads the snapshot index.
	LoadIndex() (*SnapshotIndex, error)

	// Exists checks if storage is initialized.
	Exists() bool

	// Initialize creates the storage directory structure.
	Initialize() error
}

// FilesystemStorage implements Storage using the local filesystem:
//
//	<baseDir>/metadata.json
//	<baseDir>/snapshots/<id><ext>
type FilesystemStorage struct {
	baseDir string
}

// NewFilesystemStorage creates a new filesystem-based storage rooted at baseDir.
func NewFilesystemStorage(baseDir string) (*FilesystemStorage, error) {
	if baseDir == "" {
		return nil, errors.Wrap(ErrInvalidPath, "baseDir cannot be empty")
	}

	return &FilesystemStorage{baseDir: baseDir}, nil
}

// BaseDir returns the storage root.
func (f *FilesystemStorage) BaseDir() string {
	return f.baseDir
}

func (f *FilesystemStorage) snapshotsDir() string {
	return filepath.Join(f.baseDir, SnapshotsDir)
}

func (f *FilesystemStorage) metadataPath() string {
	return filepath.Join(f.baseDir, MetadataFile)
}

// resolve maps a storage path to a file inside the snapshots directory.
// Storage paths never contain separators.
func (f *FilesystemStorage) resolve(storagePath string) (string, error) {
	if storagePath == "" || filepath.Base(storagePath) != storagePath || storagePath == "." || storagePath == ".." {
		return "", errors.Wrapf(ErrInvalidPath, "%q", storagePath)
	}

	return filepath.Join(f.snapshotsDir(), storagePath), nil
}

// Exists checks if storage is initialized.
func (f *FilesystemStorage) Exists() bool {
	_, err := os.Stat(f.snapshotsDir())

	return err == nil
}

// Initialize creates the storage directory structure.
func (f *FilesystemStorage) Initialize() error {
	if err := os.MkdirAll(f.snapshotsDir(), DirPerm); err != nil {
		return errors.Wrap(err, "failed to create snapshots directory")
	}

	if _, err := os.Stat(f.metadataPath()); os.IsNotExist(err) {
		if err := f.SaveIndex(NewSnapshotIndex()); err != nil {
			return errors.Wrap(err, "failed to initialize metadata")
		}
	}

	return nil
}

// Save stores snapshot data and returns the storage path.
func (f *FilesystemStorage) Save(name string, data []byte) (string, error) {
	if !f.Exists() {
		return "", errors.Wrap(ErrStorageNotInitialized, "call Initialize() first")
	}

	path, err := f.resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return "", errors.Wrap(err, "failed to write snapshot data")
	}

	return name, nil
}

// Load retrieves snapshot data by storage path.
func (f *FilesystemStorage) Load(storagePath string) ([]byte, error) {
	path, err := f.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is confined to the snapshots directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrSnapshotNotFound, storagePath)
		}

		return nil, errors.Wrap(err, "failed to read snapshot data")
	}

	return data, nil
}

// Delete removes snapshot data by storage path.
func (f *FilesystemStorage) Delete(storagePath string) error {
	path, err := f.resolve(storagePath)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrSnapshotNotFound, storagePath)
		}

		return errors.Wrap(err, "failed to delete snapshot data")
	}

	return nil
}

// SaveIndex saves the snapshot index.
func (f *FilesystemStorage) SaveIndex(index *SnapshotIndex) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal index")
	}

	if err := os.WriteFile(f.metadataPath(), data, FilePerm); err != nil {
		return errors.Wrap(err, "failed to write index")
	}

	return nil
}

// LoadIndex loads the snapshot index. A missing index is empty.
func (f *FilesystemStorage) LoadIndex() (*SnapshotIndex, error) {
	// #nosec G304 - metadataPath is controlled internally by storage layer
	data, err := os.ReadFile(f.metadataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshotIndex(), nil
		}

		return nil, errors.Wrap(err, "failed to read index")
	}

	var index SnapshotIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal index")
	}

	if index.Snapshots == nil {
		index.Snapshots = make(map[string]Snapshot)
	}

	return &index, nil
}

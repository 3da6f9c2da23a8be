// Package backup snapshots files before su2cfg overwrites them.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrSnapshotNotFound is returned when a snapshot is not found.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Trigger indicates what caused the backup to be created.
type Trigger string

const (
	// TriggerManual indicates a user-initiated backup.
	TriggerManual Trigger = "manual"

	// TriggerAutomatic indicates an automatic backup before a file is overwritten.
	TriggerAutomatic Trigger = "automatic"

	// TriggerBeforeRestore indicates a backup of the file a restore replaces.
	TriggerBeforeRestore Trigger = "before_restore"
)

// indexVersion is the current snapshot index version.
const indexVersion = 1

// Snapshot represents a single backup of a file.
type Snapshot struct {
	// ID is the unique identifier for this snapshot.
	ID string `json:"id"`

	// Timestamp is when the snapshot was created.
	Timestamp time.Time `json:"timestamp"`

	// SourcePath is the absolute path of the file that was backed up.
	SourcePath string `json:"source_path"`

	// Mode is the permission bits of the source file.
	Mode fs.FileMode `json:"mode"`

	// Trigger indicates what caused this backup to be created.
	Trigger Trigger `json:"trigger"`

	// StoragePath is the storage-relative name of the snapshot data.
	StoragePath string `json:"storage_path"`

	// Size is the size of the stored data in bytes.
	Size int64 `json:"size"`

	// Checksum is the SHA256 checksum of the stored data.
	Checksum string `json:"checksum"`

	// Metadata contains additional context about the snapshot.
	Metadata SnapshotMetadata `json:"metadata"`
}

// SnapshotMetadata contains additional context about a snapshot.
type SnapshotMetadata struct {
	// User is the username who created the backup.
	User string `json:"user,omitempty"`

	// Hostname is the machine hostname.
	Hostname string `json:"hostname,omitempty"`

	// Command is the su2cfg command that triggered the backup.
	Command string `json:"command,omitempty"`

	// Description is an optional free-form note.
	Description string `json:"description,omitempty"`
}

// SnapshotIndex contains metadata about all stored snapshots.
type SnapshotIndex struct {
	// Version is the index schema version.
	Version int `json:"version"`

	// Updated is when the index was last updated.
	Updated time.Time `json:"updated"`

	// Snapshots maps snapshot IDs to their metadata.
	Snapshots map[string]Snapshot `json:"snapshots"`
}

// GenerateSnapshotID generates a unique snapshot ID from timestamp and content hash.
func GenerateSnapshotID(timestamp time.Time, contentHash string) string {
	data := fmt.Sprintf("%d-%s", timestamp.UnixNano(), contentHash)
	hash := sha256.Sum256([]byte(data))

	return hex.EncodeToString(hash[:])[:16]
}

// ComputeContentHash computes the SHA256 hash of content.
func ComputeContentHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// NewSnapshotIndex creates a new empty snapshot index.
func NewSnapshotIndex() *SnapshotIndex {
	return &SnapshotIndex{
		Version:   indexVersion,
		Updated:   time.Now(),
		Snapshots: make(map[string]Snapshot),
	}
}

// Add adds a snapshot to the index.
func (idx *SnapshotIndex) Add(snapshot Snapshot) {
	if idx.Snapshots == nil {
		idx.Snapshots = make(map[string]Snapshot)
	}

	idx.Snapshots[snapshot.ID] = snapshot
	idx.Updated = time.Now()
}

// Get retrieves a snapshot by ID.
func (idx *SnapshotIndex) Get(id string) (Snapshot, error) {
	snapshot, ok := idx.Snapshots[id]
	if !ok {
		return Snapshot{}, errors.Wrapf(ErrSnapshotNotFound, "ID: %s", id)
	}

	return snapshot, nil
}

// Delete removes a snapshot from the index.
func (idx *SnapshotIndex) Delete(id string) error {
	if _, ok := idx.Snapshots[id]; !ok {
		return errors.Wrapf(ErrSnapshotNotFound, "ID: %s", id)
	}

	delete(idx.Snapshots, id)
	idx.Updated = time.Now()

	return nil
}

// List returns all snapshots, oldest first.
func (idx *SnapshotIndex) List() []Snapshot {
	snapshots := make([]Snapshot, 0, len(idx.Snapshots))

	for _, snapshot := range idx.Snapshots {
		snapshots = append(snapshots, snapshot)
	}

	sortChronological(snapshots)

	return snapshots
}

// ListFor returns the snapshots of one source file, oldest first.
func (idx *SnapshotIndex) ListFor(sourcePath string) []Snapshot {
	snapshots := make([]Snapshot, 0)

	for _, snapshot := range idx.Snapshots {
		if snapshot.SourcePath == sourcePath {
			snapshots = append(snapshots, snapshot)
		}
	}

	sortChronological(snapshots)

	return snapshots
}

// FindByHash returns the snapshot of sourcePath holding content with the given hash.
func (idx *SnapshotIndex) FindByHash(sourcePath, hash string) (Snapshot, bool) {
	for _, snapshot := range idx.Snapshots {
		if snapshot.SourcePath == sourcePath && snapshot.Checksum == hash {
			return snapshot, true
		}
	}

	return Snapshot{}, false
}

func sortChronological(snapshots []Snapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
		}

		return snapshots[i].ID < snapshots[j].ID
	})
}

package backup

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/su2gui/su2cfg/pkg/config"
)

var (
	// ErrInvalidMaxBackups is returned when MaxBackups is invalid.
	ErrInvalidMaxBackups = errors.New("max backups must be positive")

	// ErrInvalidMaxAge is returned when MaxAge is invalid.
	ErrInvalidMaxAge = errors.New("max age must be positive")
)

// RetentionPolicy defines how backups should be retained or pruned.
type RetentionPolicy interface {
	// ShouldRetain returns true if the snapshot should be retained.
	ShouldRetain(snapshot Snapshot, context RetentionContext) bool
}

// RetentionContext provides context for retention decisions.
type RetentionContext struct {
	// Siblings is every snapshot of the same source file, the evaluated one included.
	Siblings []Snapshot

	// Now is the current time for age calculations.
	Now time.Time
}

// CountRetentionPolicy retains only the N most recent backups of each source file.
type CountRetentionPolicy struct {
	MaxBackups int
}

// NewCountRetentionPolicy creates a new count retention policy.
func NewCountRetentionPolicy(maxBackups int) (*CountRetentionPolicy, error) {
	if maxBackups <= 0 {
		return nil, ErrInvalidMaxBackups
	}

	return &CountRetentionPolicy{MaxBackups: maxBackups}, nil
}

// ShouldRetain implements RetentionPolicy.
func (p *CountRetentionPolicy) ShouldRetain(snapshot Snapshot, context RetentionContext) bool {
	newestFirst := make([]Snapshot, len(context.Siblings))
	copy(newestFirst, context.Siblings)

	sort.Slice(newestFirst, func(i, j int) bool {
		if !newestFirst[i].Timestamp.Equal(newestFirst[j].Timestamp) {
			return newestFirst[i].Timestamp.After(newestFirst[j].Timestamp)
		}

		return newestFirst[i].ID > newestFirst[j].ID
	})

	for i := 0; i < len(newestFirst) && i < p.MaxBackups; i++ {
		if newestFirst[i].ID == snapshot.ID {
			return true
		}
	}

	return false
}

// AgeRetentionPolicy removes backups older than MaxAge. The newest backup
// of a source file is always retained.
type AgeRetentionPolicy struct {
	MaxAge time.Duration
}

// NewAgeRetentionPolicy creates a new age retention policy.
func NewAgeRetentionPolicy(maxAge time.Duration) (*AgeRetentionPolicy, error) {
	if maxAge <= 0 {
		return nil, ErrInvalidMaxAge
	}

	return &AgeRetentionPolicy{MaxAge: maxAge}, nil
}

// ShouldRetain implements RetentionPolicy.
func (p *AgeRetentionPolicy) ShouldRetain(snapshot Snapshot, context RetentionContext) bool {
	if newest := getNewestSnapshot(context.Siblings); newest.ID == snapshot.ID {
		return true
	}

	return context.Now.Sub(snapshot.Timestamp) <= p.MaxAge
}

// CompositeRetentionPolicy combines multiple policies with AND logic.
// A snapshot is retained only if ALL policies agree to retain it.
type CompositeRetentionPolicy struct {
	Policies []RetentionPolicy
}

// NewCompositeRetentionPolicy creates a new composite retention policy.
func NewCompositeRetentionPolicy(policies ...RetentionPolicy) *CompositeRetentionPolicy {
	return &CompositeRetentionPolicy{Policies: policies}
}

// ShouldRetain implements RetentionPolicy.
func (p *CompositeRetentionPolicy) ShouldRetain(snapshot Snapshot, context RetentionContext) bool {
	for _, policy := range p.Policies {
		if !policy.ShouldRetain(snapshot, context) {
			return false
		}
	}

	return true
}

// PolicyFromConfig builds the count and age policy described by cfg.
func PolicyFromConfig(cfg *config.BackupConfig) (RetentionPolicy, error) {
	count, err := NewCountRetentionPolicy(cfg.GetMaxBackups())
	if err != nil {
		return nil, err
	}

	age, err := NewAgeRetentionPolicy(cfg.GetMaxAge().ToDuration())
	if err != nil {
		return nil, err
	}

	return NewCompositeRetentionPolicy(count, age), nil
}

func getNewestSnapshot(snapshots []Snapshot) Snapshot {
	if len(snapshots) == 0 {
		return Snapshot{}
	}

	newest := snapshots[0]
	for _, snapshot := range snapshots[1:] {
		if snapshot.Timestamp.After(newest.Timestamp) ||
			(snapshot.Timestamp.Equal(newest.Timestamp) && snapshot.ID > newest.ID) {
			newest = snapshot
		}
	}

	return newest
}

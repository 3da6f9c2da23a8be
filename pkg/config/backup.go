package config

import "time"

const (
	// DefaultMaxBackups is the default maximum number of backups kept per file.
	DefaultMaxBackups = 10

	// DefaultMaxAgeHours is the default maximum age in hours (30 days = 720h).
	DefaultMaxAgeHours = "720h"
)

// BackupConfig contains configuration for the backup system.
type BackupConfig struct {
	// Enabled controls whether files are backed up before being overwritten.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// MaxBackups is the maximum number of backups to keep per file.
	// Default: 10
	MaxBackups *int `json:"max_backups,omitempty" koanf:"max_backups" toml:"max_backups,omitempty"`

	// MaxAge is the maximum age of backups before they are pruned.
	// Default: "720h" (30 days)
	MaxAge Duration `json:"max_age,omitempty" koanf:"max_age" toml:"max_age,omitempty"`
}

// IsEnabled returns whether the backup system is enabled.
func (b *BackupConfig) IsEnabled() bool {
	if b == nil || b.Enabled == nil {
		return true
	}

	return *b.Enabled
}

// GetMaxBackups returns the maximum number of backups, using default if not set.
func (b *BackupConfig) GetMaxBackups() int {
	if b == nil || b.MaxBackups == nil {
		return DefaultMaxBackups
	}

	return *b.MaxBackups
}

// GetMaxAge returns the maximum age duration, using default if not set.
func (b *BackupConfig) GetMaxAge() Duration {
	if b == nil || b.MaxAge.ToDuration() == 0 {
		defaultDur, _ := time.ParseDuration(DefaultMaxAgeHours)

		return Duration(defaultDur)
	}

	return b.MaxAge
}

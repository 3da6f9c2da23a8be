// Package config provides the settings types for su2cfg.
package config

// CurrentConfigVersion is the latest settings file version.
const CurrentConfigVersion = 1

// Config represents the root settings for su2cfg.
type Config struct {
	// Version is the settings file version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Solver holds the location of the SU2 executables.
	Solver *SolverConfig `json:"solver,omitempty" koanf:"solver" toml:"solver,omitempty"`

	// Schema selects the JSON schema configuration files are validated against.
	Schema *SchemaConfig `json:"schema,omitempty" koanf:"schema" toml:"schema,omitempty"`

	// Output controls how converted files are written.
	Output *OutputConfig `json:"output,omitempty" koanf:"output" toml:"output,omitempty"`

	// Backup contains configuration for the backup system.
	Backup *BackupConfig `json:"backup,omitempty" koanf:"backup" toml:"backup,omitempty"`
}

// SolverConfig holds solver executable settings.
type SolverConfig struct {
	// CFDPath is the path to the SU2_CFD executable.
	CFDPath string `json:"cfd_path,omitempty" koanf:"cfd_path" toml:"cfd_path,omitempty"`
}

// SchemaConfig holds schema settings.
type SchemaConfig struct {
	// Path is the default JSON schema used when a command is not given one.
	Path string `json:"path,omitempty" koanf:"path" toml:"path,omitempty"`
}

// GetSolver returns the solver config, creating it if it doesn't exist.
func (c *Config) GetSolver() *SolverConfig {
	if c.Solver == nil {
		c.Solver = &SolverConfig{}
	}

	return c.Solver
}

// GetSchema returns the schema config, creating it if it doesn't exist.
func (c *Config) GetSchema() *SchemaConfig {
	if c.Schema == nil {
		c.Schema = &SchemaConfig{}
	}

	return c.Schema
}

// GetOutput returns the output config, creating it if it doesn't exist.
func (c *Config) GetOutput() *OutputConfig {
	if c.Output == nil {
		c.Output = &OutputConfig{}
	}

	return c.Output
}

// GetBackup returns the backup config, creating it if it doesn't exist.
func (c *Config) GetBackup() *BackupConfig {
	if c.Backup == nil {
		c.Backup = &BackupConfig{}
	}

	return c.Backup
}

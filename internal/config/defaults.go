package config

import (
	"github.com/su2gui/su2cfg/pkg/config"
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *config.Config {
	indent := config.DefaultJSONIndent
	header := config.DefaultCfgHeader
	enabled := true
	maxBackups := config.DefaultMaxBackups

	return &config.Config{
		Version: config.CurrentConfigVersion,
		Solver:  &config.SolverConfig{},
		Schema:  &config.SchemaConfig{},
		Output: &config.OutputConfig{
			JSONIndent: &indent,
			CfgHeader:  &header,
			Format:     config.FormatJSON,
		},
		Backup: &config.BackupConfig{
			Enabled:    &enabled,
			MaxBackups: &maxBackups,
			MaxAge:     (&config.BackupConfig{}).GetMaxAge(),
		},
	}
}

// defaultsToMap converts DefaultConfig to a map for koanf loading.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"output": map[string]any{
			"json_indent": config.DefaultJSONIndent,
			"cfg_header":  config.DefaultCfgHeader,
			"format":      config.FormatJSON,
		},
		"backup": map[string]any{
			"enabled":     true,
			"max_backups": config.DefaultMaxBackups,
			"max_age":     config.DefaultMaxAgeHours,
		},
	}
}

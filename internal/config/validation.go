package config

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/su2gui/su2cfg/pkg/config"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")
)

// allowedJSONIndents lists the JSON indentations documents may be written with.
var allowedJSONIndents = []int{2, 4}

// allowedFormats lists the document formats decode can produce.
var allowedFormats = []string{config.FormatJSON, config.FormatYAML}

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Version < 0 || cfg.Version > config.CurrentConfigVersion {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidOption,
			"version: unsupported settings version %d (latest is %d)",
			cfg.Version,
			config.CurrentConfigVersion,
		))
	}

	validationErrors = append(validationErrors, v.validateSolver(cfg.Solver)...)
	validationErrors = append(validationErrors, v.validateSchema(cfg.Schema)...)
	validationErrors = append(validationErrors, v.validateOutput(cfg.Output)...)
	validationErrors = append(validationErrors, v.validateBackup(cfg.Backup)...)

	if len(validationErrors) > 0 {
		return errors.Join(
			errors.Wrapf(ErrInvalidConfig, "validation failed with %d error(s)", len(validationErrors)),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateSolver(cfg *config.SolverConfig) []error {
	if cfg == nil || cfg.CFDPath == "" {
		return nil
	}

	if strings.TrimSpace(cfg.CFDPath) == "" {
		return []error{errors.Wrap(ErrEmptyValue, "solver.cfd_path: blank path")}
	}

	return nil
}

func (*Validator) validateSchema(cfg *config.SchemaConfig) []error {
	if cfg == nil || cfg.Path == "" {
		return nil
	}

	if strings.TrimSpace(cfg.Path) == "" {
		return []error{errors.Wrap(ErrEmptyValue, "schema.path: blank path")}
	}

	return nil
}

func (*Validator) validateOutput(cfg *config.OutputConfig) []error {
	if cfg == nil {
		return nil
	}

	var errs []error

	if indent := cfg.GetJSONIndent(); !slices.Contains(allowedJSONIndents, indent) {
		errs = append(errs, errors.Wrapf(
			ErrInvalidOption,
			"output.json_indent: must be 2 or 4, got %d",
			indent,
		))
	}

	if format := cfg.GetFormat(); !slices.Contains(allowedFormats, format) {
		errs = append(errs, errors.Wrapf(
			ErrInvalidOption,
			"output.format: must be %q or %q, got %q",
			config.FormatJSON,
			config.FormatYAML,
			format,
		))
	}

	return errs
}

func (*Validator) validateBackup(cfg *config.BackupConfig) []error {
	if cfg == nil {
		return nil
	}

	if n := cfg.GetMaxBackups(); n <= 0 {
		return []error{errors.Wrapf(
			ErrInvalidOption,
			"backup.max_backups: must be positive, got %d",
			n,
		)}
	}

	return nil
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}

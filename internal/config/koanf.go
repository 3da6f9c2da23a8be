// Package config loads and writes su2cfg settings.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/su2gui/su2cfg/internal/xdg"
	"github.com/su2gui/su2cfg/pkg/config"
)

// ErrInvalidPermissions is returned when a settings file has insecure permissions.
var ErrInvalidPermissions = errors.New("settings file has insecure permissions")

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "SU2CFG_"

// Flag names understood by flagsToConfig.
const (
	FlagSchema     = "schema"
	FlagCFDPath    = "cfd-path"
	FlagJSONIndent = "json-indent"
	FlagHeader     = "header"
	FlagFormat     = "format"
	FlagNoBackup   = "no-backup"
)

// KoanfLoader handles settings loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (SU2CFG_*)
// 3. Project settings (./.su2cfg.toml)
// 4. Global settings ($XDG_CONFIG_HOME/su2cfg/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k     *koanf.Koanf
	paths xdg.PathResolver
}

// NewKoanfLoader creates a new KoanfLoader for the current working directory.
func NewKoanfLoader() (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewKoanfLoaderWithResolver(xdg.DefaultResolver(workDir)), nil
}

// NewKoanfLoaderWithResolver creates a new KoanfLoader with custom paths (for testing).
func NewKoanfLoaderWithResolver(paths xdg.PathResolver) *KoanfLoader {
	return &KoanfLoader{
		k:     koanf.New("."),
		paths: paths,
	}
}

// Load loads settings from all sources with precedence and validates them.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithoutValidation loads settings without running validation.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global settings")
	}

	if err := l.loadTOMLFile(l.ProjectConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load project settings")
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: l.envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flagConfig := flagsToConfig(flags); len(flagConfig) > 0 {
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	return unmarshal(l.k)
}

func unmarshal(k *koanf.Koanf) (*config.Config, error) {
	var cfg config.Config

	conf := koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: CustomDecoderConfig(&cfg),
	}

	if err := k.UnmarshalWithConf("", &cfg, conf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal settings")
	}

	expandPaths(&cfg)

	return &cfg, nil
}

// expandPaths resolves ~ in path settings.
func expandPaths(cfg *config.Config) {
	if cfg.Solver != nil {
		cfg.Solver.CFDPath = xdg.ExpandPathSilent(cfg.Solver.CFDPath)
	}

	if cfg.Schema != nil {
		cfg.Schema.Path = xdg.ExpandPathSilent(cfg.Schema.Path)
	}
}

// loadTOMLFile loads a TOML settings file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps environment variable names to settings paths. The first
// underscore after the prefix separates the section from the key:
// SU2CFG_SOLVER_CFD_PATH → solver.cfd_path
// Empty variables are skipped so that they act as unset.
func (*KoanfLoader) envTransform(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}

	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	if section, rest, found := strings.Cut(key, "_"); found {
		key = section + "." + rest
	}

	return key, value
}

// GlobalConfigPath returns the path to the global settings file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return l.paths.GlobalConfigFile()
}

// ProjectConfigPath returns the path to the project settings file.
func (l *KoanfLoader) ProjectConfigPath() string {
	return l.paths.ProjectConfigFile()
}

// HasGlobalConfig checks if a global settings file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.GlobalConfigPath())
}

// HasProjectConfig checks if a project settings file exists.
func (l *KoanfLoader) HasProjectConfig() bool {
	return fileExists(l.ProjectConfigPath())
}

// LoadFile loads a single settings file without defaults, env or flags.
// Tools editing a file use it so other sources don't leak into what they
// write back. A missing file yields an empty Config.
func LoadFile(path string) (*config.Config, error) {
	if !fileExists(path) {
		return &config.Config{}, nil
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return nil, errors.Wrapf(err, "failed to load settings file %s", path)
	}

	return unmarshal(k)
}

// flagKeys maps CLI flags to settings paths.
var flagKeys = map[string]string{
	FlagSchema:     "schema.path",
	FlagCFDPath:    "solver.cfd_path",
	FlagJSONIndent: "output.json_indent",
	FlagHeader:     "output.cfg_header",
	FlagFormat:     "output.format",
}

// flagsToConfig converts CLI flags to a nested settings map. Only flags
// present in the map are applied; unknown flags are ignored.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any, len(flags))

	for name, value := range flags {
		if name == FlagNoBackup {
			if b, ok := value.(bool); ok && b {
				flat["backup.enabled"] = false
			}

			continue
		}

		if key, ok := flagKeys[name]; ok {
			flat[key] = value
		}
	}

	return maps.Unflatten(flat, ".")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

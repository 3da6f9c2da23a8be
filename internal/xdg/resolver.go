package xdg

import "path/filepath"

// PathResolver resolves the files su2cfg settings are read from and written to.
// The default implementation uses os.UserHomeDir() and XDG env vars.
// Use ResolverFor() when paths should be relative to specific directories.
type PathResolver interface {
	GlobalConfigFile() string
	ProjectConfigFile() string
	BackupDir() string
}

// DefaultResolver returns a PathResolver using real XDG paths and workDir
// for the project settings file.
func DefaultResolver(workDir string) PathResolver {
	return defaultResolver{workDir: workDir}
}

type defaultResolver struct {
	workDir string
}

func (defaultResolver) GlobalConfigFile() string { return GlobalConfigFile() }
func (defaultResolver) BackupDir() string        { return BackupDir() }

func (r defaultResolver) ProjectConfigFile() string {
	return filepath.Join(r.workDir, ProjectConfigFile)
}

// ResolverFor returns a PathResolver rooted at homeDir, ignoring XDG env vars.
func ResolverFor(homeDir, workDir string) PathResolver {
	return homeResolver{homeDir: homeDir, workDir: workDir}
}

type homeResolver struct {
	homeDir string
	workDir string
}

func (r homeResolver) GlobalConfigFile() string {
	return filepath.Join(r.homeDir, ".config", appName, "config.toml")
}

func (r homeResolver) ProjectConfigFile() string {
	return filepath.Join(r.workDir, ProjectConfigFile)
}

func (r homeResolver) BackupDir() string {
	return filepath.Join(r.homeDir, ".local", "state", appName, "backups")
}

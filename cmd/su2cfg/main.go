// Package main provides the CLI entry point for su2cfg.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/color"
	internalconfig "github.com/su2gui/su2cfg/internal/config"
	"github.com/su2gui/su2cfg/internal/transcode"
	"github.com/su2gui/su2cfg/internal/xdg"
	"github.com/su2gui/su2cfg/pkg/config"
	"github.com/su2gui/su2cfg/pkg/logger"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeError indicates a failed command.
	ExitCodeError = 1

	// ExitCodeInvalid indicates that at least one validated document is invalid.
	ExitCodeInvalid = 2
)

// errInvalidDocuments is returned by validate when a document failed
// validation. The report has already been printed.
var errInvalidDocuments = errors.New("invalid documents")

var (
	debugMode   bool
	traceMode   bool
	noColorFlag bool

	schemaFlag     string
	cfdPathFlag    string
	jsonIndentFlag int
	headerFlag     string
	formatFlag     string
	noBackupFlag   bool
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errInvalidDocuments) {
			return ExitCodeInvalid
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeError
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "su2cfg",
	Short: "SU2 configuration transcoder and validator",
	Long: `su2cfg converts SU2 configuration files between the solver's KEY= value
dialect and JSON or YAML documents, validates them against a JSON Schema and
edits schema documents.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging to stderr")
	flags.BoolVar(&traceMode, "trace", false, "Enable trace logging to stderr")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	flags.StringVar(
		&schemaFlag,
		internalconfig.FlagSchema,
		"",
		"Path to the JSON Schema (default: schema.path setting)",
	)
	flags.StringVar(
		&cfdPathFlag,
		internalconfig.FlagCFDPath,
		"",
		"Path to the SU2_CFD executable (default: solver.cfd_path setting)",
	)
	flags.IntVar(
		&jsonIndentFlag,
		internalconfig.FlagJSONIndent,
		config.DefaultJSONIndent,
		"JSON indentation, 2 or 4 (default: output.json_indent setting)",
	)
	flags.StringVar(
		&headerFlag,
		internalconfig.FlagHeader,
		"",
		"Header comment for written configuration files (default: output.cfg_header setting)",
	)
	flags.StringVar(
		&formatFlag,
		internalconfig.FlagFormat,
		"",
		"Document format, json or yaml (default: output.format setting)",
	)
	flags.BoolVar(
		&noBackupFlag,
		internalconfig.FlagNoBackup,
		false,
		"Do not back up files before overwriting them",
	)
}

// settingsFlags collects the settings flags the user set explicitly, so
// unset flags don't mask settings files.
func settingsFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	set := cmd.Flags()

	if set.Changed(internalconfig.FlagSchema) {
		flags[internalconfig.FlagSchema] = schemaFlag
	}

	if set.Changed(internalconfig.FlagCFDPath) {
		flags[internalconfig.FlagCFDPath] = cfdPathFlag
	}

	if set.Changed(internalconfig.FlagJSONIndent) {
		flags[internalconfig.FlagJSONIndent] = jsonIndentFlag
	}

	if set.Changed(internalconfig.FlagHeader) {
		flags[internalconfig.FlagHeader] = headerFlag
	}

	if set.Changed(internalconfig.FlagFormat) {
		flags[internalconfig.FlagFormat] = formatFlag
	}

	if set.Changed(internalconfig.FlagNoBackup) {
		flags[internalconfig.FlagNoBackup] = noBackupFlag
	}

	return flags
}

// loadSettings loads the effective settings for cmd.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, err
	}

	cfg, err := loader.Load(settingsFlags(cmd))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings")
	}

	return cfg, nil
}

// newLogger returns a stderr logger when --debug or --trace is set, a file
// logger when SU2CFG_LOG_FILE is set, and a no-op logger otherwise.
func newLogger() (logger.Logger, error) {
	if debugMode || traceMode {
		return logger.NewWriterLogger(os.Stderr, debugMode, traceMode), nil
	}

	if path := os.Getenv(xdg.LogFileEnv); path != "" {
		log, err := logger.NewFileLogger(path, false, false)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create logger")
		}

		return log, nil
	}

	return logger.NewNoOpLogger(), nil
}

// newBackupManager returns the backup manager for cfg, or nil when backups
// are disabled.
func newBackupManager(cfg *config.Config, log logger.Logger) (*backup.Manager, error) {
	if !cfg.GetBackup().IsEnabled() {
		return nil, nil
	}

	mgr, err := backup.NewFilesystemManager(xdg.BackupDir(), cfg.GetBackup(), log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create backup manager")
	}

	return mgr, nil
}

// session bundles what most commands need.
type session struct {
	cfg     *config.Config
	log     logger.Logger
	backups *backup.Manager
	theme   color.Theme
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	backups, err := newBackupManager(cfg, log)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		log:     log,
		backups: backups,
		theme:   color.NewTheme(color.Enabled(os.Stdout, noColorFlag)),
	}, nil
}

func (s *session) transcoder(opts ...transcode.Option) *transcode.Transcoder {
	opts = append([]transcode.Option{
		transcode.WithLogger(s.log),
		transcode.WithBackupManager(s.backups),
	}, opts...)

	return transcode.New(s.cfg, opts...)
}

// header returns the configured header for written configuration files.
func (s *session) header() string {
	return s.cfg.GetOutput().GetCfgHeader()
}

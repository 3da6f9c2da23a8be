package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/su2gui/su2cfg/internal/config"
	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/schema"
	"github.com/su2gui/su2cfg/internal/xdg"
	"github.com/su2gui/su2cfg/pkg/config"
)

var settingsProject bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and edit su2cfg settings",
	Long: `Show and edit su2cfg settings.

Settings are read from defaults, the global file
($XDG_CONFIG_HOME/su2cfg/config.toml), the project file (.su2cfg.toml),
SU2CFG_* environment variables and flags, later sources winning.

Subcommands:
  show        Print the effective settings
  path        Print the settings file locations
  set-solver  Store the SU2_CFD executable path
  set-schema  Store the default schema path`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file locations",
	Args:  cobra.NoArgs,
	RunE:  runSettingsPath,
}

var settingsSetSolverCmd = &cobra.Command{
	Use:   "set-solver PATH",
	Short: "Store the SU2_CFD executable path",
	Long: `Store the SU2_CFD executable path in the global settings file, or the
project file with --project.

Examples:
  su2cfg settings set-solver /opt/su2/bin/SU2_CFD
  su2cfg settings set-solver ~/su2/bin/SU2_CFD --project`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSetSolver,
}

var settingsSetSchemaCmd = &cobra.Command{
	Use:   "set-schema PATH",
	Short: "Store the default schema path",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSetSchema,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsSetSolverCmd)
	settingsCmd.AddCommand(settingsSetSchemaCmd)

	for _, cmd := range []*cobra.Command{settingsSetSolverCmd, settingsSetSchemaCmd} {
		cmd.Flags().BoolVar(
			&settingsProject,
			"project",
			false,
			"Write the project settings file instead of the global one",
		)
	}
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	data, err := internalconfig.Marshal(s.cfg)
	if err != nil {
		return err
	}

	fmt.Print(string(data))

	return nil
}

func runSettingsPath(_ *cobra.Command, _ []string) error {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return err
	}

	status := func(exists bool) string {
		if exists {
			return "exists"
		}

		return "missing"
	}

	fmt.Printf("global:  %s (%s)\n", loader.GlobalConfigPath(), status(loader.HasGlobalConfig()))
	fmt.Printf("project: %s (%s)\n", loader.ProjectConfigPath(), status(loader.HasProjectConfig()))
	fmt.Printf("backups: %s\n", xdg.BackupDir())

	return nil
}

// updateSettingsFile loads only the target settings file, applies edit and
// writes it back, so values from other sources are not copied into it.
func updateSettingsFile(cmd *cobra.Command, edit func(cfg *config.Config)) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	writer := internalconfig.NewWriter(xdg.DefaultResolver(workDir), s.backups)

	path := writer.ProjectConfigPath()
	if !settingsProject {
		path = writer.GlobalConfigPath()

		if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
			return err
		}
	}

	cfg, err := internalconfig.LoadFile(path)
	if err != nil {
		return err
	}

	edit(cfg)

	if err := writer.WriteFile(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Updated %s\n", path)

	return nil
}

func runSettingsSetSolver(cmd *cobra.Command, args []string) error {
	if !fsutil.Exists(xdg.ExpandPathSilent(args[0])) {
		fmt.Fprintf(os.Stderr, "warning: %s does not exist\n", args[0])
	}

	return updateSettingsFile(cmd, func(cfg *config.Config) {
		cfg.GetSolver().CFDPath = args[0]
	})
}

func runSettingsSetSchema(cmd *cobra.Command, args []string) error {
	if _, err := schema.LoadFile(xdg.ExpandPathSilent(args[0])); err != nil {
		return err
	}

	return updateSettingsFile(cmd, func(cfg *config.Config) {
		cfg.GetSchema().Path = args[0]
	})
}

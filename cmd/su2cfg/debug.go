package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/schema"
)

var (
	debugSchemaOutput  string
	debugSchemaCompact bool
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Inspect su2cfg internals",
	Long: `Inspect su2cfg internals.

Subcommands:
  schema  Print the JSON Schema of the settings file`,
}

var debugSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON Schema for the settings file",
	Long: `Generate a JSON Schema for the su2cfg settings file (config.toml).

The schema is derived from the Go settings types and includes type
constraints, enum values and descriptions.

Examples:
  su2cfg debug schema                           # Print to stdout
  su2cfg debug schema --output settings.json    # Write to file
  su2cfg debug schema --compact                 # Compact output`,
	Args: cobra.NoArgs,
	RunE: runDebugSchema,
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugSchemaCmd)

	debugSchemaCmd.Flags().StringVarP(
		&debugSchemaOutput,
		"output", "o",
		"",
		"Write schema to file instead of stdout",
	)
	debugSchemaCmd.Flags().BoolVar(
		&debugSchemaCompact,
		"compact",
		false,
		"Output compact JSON without indentation",
	)
}

func runDebugSchema(_ *cobra.Command, _ []string) error {
	data, err := schema.SettingsSchemaJSON(!debugSchemaCompact)
	if err != nil {
		return errors.Wrap(err, "generating schema")
	}

	if debugSchemaOutput != "" {
		if err := fsutil.WriteFileAtomic(debugSchemaOutput, data, fsutil.FilePerm); err != nil {
			return errors.Wrap(err, "writing schema file")
		}

		fmt.Printf("Schema written to %s\n", debugSchemaOutput)

		return nil
	}

	fmt.Print(string(data))

	return nil
}

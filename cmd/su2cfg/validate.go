package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/report"
	"github.com/su2gui/su2cfg/internal/transcode"
)

var (
	validateJobs  int
	validateQuiet bool
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate configuration files or documents against a schema",
	Long: `Validate configuration files (.cfg) or documents (.json, .yaml) against
a JSON Schema.

Configuration files are normalized for older SU2 versions before validation,
and so is the schema. Documents are validated as stored.

Patterns are expanded, including "**". The exit code is 2 when a file is
invalid or could not be validated.

Examples:
  su2cfg validate case.cfg --schema su2.json      # One file
  su2cfg validate 'cases/**/*.cfg'                # Every case, configured schema
  su2cfg validate case.json -j 1                  # No parallelism`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntVarP(
		&validateJobs,
		"jobs", "j",
		0,
		"Number of files validated in parallel (0 = number of CPUs)",
	)
	validateCmd.Flags().BoolVarP(
		&validateQuiet,
		"quiet", "q",
		false,
		"Only print invalid files and the summary",
	)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	paths, err := fsutil.ExpandInputs(args)
	if err != nil {
		return err
	}

	s.log.Debug("validating files", "count", len(paths), "jobs", validateJobs)

	results, err := s.transcoder().ValidateFiles(cmd.Context(), paths, schemaFlag, validateJobs)
	if err != nil {
		return err
	}

	ok := true
	shown := make([]transcode.Result, 0, len(results))

	for _, res := range results {
		if !res.Valid {
			ok = false
		}

		if validateQuiet && res.Valid {
			continue
		}

		shown = append(shown, res)
	}

	fmt.Print(report.RenderResults(shown, s.theme))

	if len(results) > 1 || !ok {
		fmt.Println(report.RenderSummary(results, s.theme))
	}

	if !ok {
		return errInvalidDocuments
	}

	return nil
}

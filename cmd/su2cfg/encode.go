package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/transcode"
	"github.com/su2gui/su2cfg/internal/variables"
)

var (
	encodeOutput   string
	encodeVars     []string
	encodeVarsFile string
)

var encodeCmd = &cobra.Command{
	Use:   "encode DOCUMENT.json",
	Short: "Convert a JSON or YAML document to a configuration file",
	Long: `Convert a JSON (or YAML) document to an SU2 configuration file.

Fields are written in the order of the document. Empty values and "none"
are left out. Variables are substituted into string values first.

Examples:
  su2cfg encode case.json                              # Write to stdout
  su2cfg encode case.json -o case.cfg                  # Write a file
  su2cfg encode case.json --var __MESH__=channel.su2   # Substitute a variable
  su2cfg encode case.json --vars variables.yaml        # Variables from a file`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(
		&encodeOutput,
		"output", "o",
		"",
		"Write the configuration to a file instead of stdout",
	)
	encodeCmd.Flags().StringArrayVar(
		&encodeVars,
		"var",
		nil,
		"Variable assignment NAME=VALUE (repeatable)",
	)
	encodeCmd.Flags().StringVar(
		&encodeVarsFile,
		"vars",
		"",
		"YAML file with variables",
	)
}

// loadVariables merges the variables file with --var assignments; the
// assignments win.
func loadVariables(file string, assignments []string) (*variables.Set, error) {
	set := variables.NewSet()

	if file != "" {
		fromFile, err := variables.LoadFile(file)
		if err != nil {
			return nil, err
		}

		set.Merge(fromFile)
	}

	fromFlags, err := variables.ParseAssignments(assignments)
	if err != nil {
		return nil, err
	}

	set.Merge(fromFlags)

	return set, nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	vars, err := loadVariables(encodeVarsFile, encodeVars)
	if err != nil {
		return err
	}

	tc := s.transcoder(transcode.WithVariables(vars))

	if encodeOutput != "" {
		if err := tc.JSONToCfg(args[0], encodeOutput, s.header()); err != nil {
			return errors.Wrapf(err, "writing %s", encodeOutput)
		}

		fmt.Fprintf(os.Stderr, "Wrote %s\n", encodeOutput)

		return nil
	}

	doc, err := tc.LoadDocument(args[0])
	if err != nil {
		return err
	}

	fmt.Print(tc.EncodeDocument(doc, s.header()))

	return nil
}

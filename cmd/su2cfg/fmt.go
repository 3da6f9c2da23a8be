package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/report"
)

var (
	fmtDiff  bool
	fmtWrite bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt CONFIG.cfg",
	Short: "Rewrite a configuration file in canonical form",
	Long: `Decode a configuration file and encode it again.

The result uses "KEY= value" lines, YES/NO booleans and the configured header.
Comments and skipped lines are dropped.

Examples:
  su2cfg fmt case.cfg            # Print the formatted file
  su2cfg fmt case.cfg --diff     # Show what would change
  su2cfg fmt case.cfg --write    # Rewrite in place (backed up first)`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "Show a unified diff instead of the result")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to the file")
}

func runFmt(cmd *cobra.Command, args []string) error {
	if fmtDiff && fmtWrite {
		return errors.New("--diff and --write are mutually exclusive")
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	tc := s.transcoder()

	original, err := fsutil.ReadFile(path)
	if err != nil {
		return err
	}

	doc, _, err := tc.CfgToDocument(path)
	if err != nil {
		return err
	}

	switch {
	case fmtWrite:
		if string(original) == tc.EncodeDocument(doc, s.header()) {
			return nil
		}

		if err := tc.DocumentToCfg(doc, path, s.header()); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Formatted %s\n", path)

		return nil

	case fmtDiff:
		diff, err := report.Diff(
			string(original),
			tc.EncodeDocument(doc, s.header()),
			path,
			path+" (formatted)",
			s.theme,
		)
		if err != nil {
			return err
		}

		fmt.Print(diff)

		return nil

	default:
		fmt.Print(tc.EncodeDocument(doc, s.header()))

		return nil
	}
}

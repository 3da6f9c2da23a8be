package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/transcode"
)

var decodeOutput string

var decodeCmd = &cobra.Command{
	Use:   "decode CONFIG.cfg",
	Short: "Convert a configuration file to JSON or YAML",
	Long: `Convert an SU2 configuration file to a JSON (or YAML) document.

JSON output has sorted keys; YAML output keeps the order of the file.
Skipped lines are reported on stderr.

Examples:
  su2cfg decode case.cfg                    # JSON to stdout
  su2cfg decode case.cfg -o case.json       # Write JSON
  su2cfg decode case.cfg -o case.yaml       # Format follows the extension
  su2cfg decode case.cfg --format yaml      # YAML to stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(
		&decodeOutput,
		"output", "o",
		"",
		"Write the document to a file instead of stdout",
	)
}

func runDecode(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	tc := s.transcoder()

	doc, warnings, err := tc.CfgToDocument(args[0])
	if err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, s.theme.Warning.Render("warning: "+w.String()))
	}

	format := s.cfg.GetOutput().GetFormat()
	if decodeOutput != "" && !cmd.Flags().Changed("format") {
		format = transcode.FormatForPath(decodeOutput)
	}

	if decodeOutput != "" {
		if err := tc.WriteDocument(doc, decodeOutput, format); err != nil {
			return errors.Wrapf(err, "writing %s", decodeOutput)
		}

		fmt.Fprintf(os.Stderr, "Wrote %d field(s) to %s\n", doc.Len(), decodeOutput)

		return nil
	}

	data, err := tc.RenderDocument(doc, format)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)

	return err
}

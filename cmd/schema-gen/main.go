// Command schema-gen writes the JSON Schema of the su2cfg settings file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/schema"
)

func main() {
	data, err := schema.SettingsSchemaJSON(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outDir := "schema"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	outPath := filepath.Clean(filepath.Join(outDir, schema.SettingsSchemaFilename))

	if err := fsutil.WriteFileAtomic(outPath, data, fsutil.FilePerm); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(outPath)
}

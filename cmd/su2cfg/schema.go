package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/fsutil"
	"github.com/su2gui/su2cfg/internal/report"
	"github.com/su2gui/su2cfg/internal/schema"
	"github.com/su2gui/su2cfg/internal/transcode"
)

// Schema command flags.
var (
	propertyType        string
	propertyDescription string
	propertyDefault     string
	propertyEnum        string
	exportOutput        string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Edit the JSON Schema used for validation",
	Long: `Edit the JSON Schema configuration files are validated against.

The schema is taken from --schema or the schema.path setting. Edited files
are backed up before they are overwritten.

Subcommands:
  properties  List the schema's properties
  add         Add or replace a property
  remove      Remove a property
  export      Write a copy of the schema`,
}

var schemaPropertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "List the schema's properties",
	Long: `List the top-level properties of the schema, sorted by name.

Examples:
  su2cfg schema properties
  su2cfg schema properties --schema su2.json`,
	Args: cobra.NoArgs,
	RunE: runSchemaProperties,
}

var schemaAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add or replace a property",
	Long: `Add a property to the schema, replacing any property with the same name.

The default value is converted to the property type. Enum values only apply
to string properties.

Examples:
  su2cfg schema add MACH_NUMBER --type number --default 0.8
  su2cfg schema add SOLVER --type string --enum EULER,NAVIER_STOKES,RANS
  su2cfg schema add RESTART_SOL --type boolean --description "Restart from a solution"`,
	Args: cobra.ExactArgs(1),
	RunE: runSchemaAdd,
}

var schemaRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a property",
	Long: `Remove a property from the schema.

Examples:
  su2cfg schema remove MACH_NUMBER`,
	Args: cobra.ExactArgs(1),
	RunE: runSchemaRemove,
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a copy of the schema",
	Long: `Write a copy of the schema. Without --output the copy is written next to
the schema as <name>_exported.json.

Examples:
  su2cfg schema export
  su2cfg schema export -o /tmp/su2.json`,
	Args: cobra.NoArgs,
	RunE: runSchemaExport,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaPropertiesCmd)
	schemaCmd.AddCommand(schemaAddCmd)
	schemaCmd.AddCommand(schemaRemoveCmd)
	schemaCmd.AddCommand(schemaExportCmd)

	schemaAddCmd.Flags().StringVarP(
		&propertyType,
		"type", "t",
		"string",
		"Property type ("+strings.Join(schema.PropertyTypes, ", ")+")",
	)
	schemaAddCmd.Flags().StringVarP(&propertyDescription, "description", "d", "", "Property description")
	schemaAddCmd.Flags().StringVar(&propertyDefault, "default", "", "Default value")
	schemaAddCmd.Flags().StringVar(&propertyEnum, "enum", "", "Comma separated allowed values")

	schemaExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Path of the exported copy")
}

// schemaPath returns the schema the command operates on.
func (s *session) schemaPath() (string, error) {
	if path := s.cfg.GetSchema().Path; path != "" {
		return path, nil
	}

	return "", errors.Wrap(transcode.ErrNoSchema, "use --schema or set schema.path")
}

// loadSchema loads the schema the command operates on.
func (s *session) loadSchema() (string, map[string]any, error) {
	path, err := s.schemaPath()
	if err != nil {
		return "", nil, err
	}

	doc, err := schema.LoadFile(path)
	if err != nil {
		return "", nil, err
	}

	return path, doc, nil
}

// saveSchema backs up the schema file and overwrites it.
func (s *session) saveSchema(path string, doc map[string]any, command string) error {
	if s.backups != nil && fsutil.Exists(path) {
		_, err := s.backups.CreateBackup(backup.CreateBackupOptions{
			SourcePath: path,
			Trigger:    backup.TriggerAutomatic,
			Metadata:   backup.SnapshotMetadata{Command: command},
		})
		if err != nil {
			return errors.Wrap(err, "backing up schema")
		}
	}

	return schema.SaveFile(path, doc)
}

func runSchemaProperties(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	_, doc, err := s.loadSchema()
	if err != nil {
		return err
	}

	fmt.Println(report.RenderProperties(schema.Properties(doc), s.theme))

	return nil
}

func runSchemaAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	path, doc, err := s.loadSchema()
	if err != nil {
		return err
	}

	prop, err := schema.NewProperty(schema.PropertySpec{
		Name:        args[0],
		Type:        propertyType,
		Description: propertyDescription,
		Default:     propertyDefault,
		Enum:        propertyEnum,
	})
	if err != nil {
		return err
	}

	schema.AddProperty(doc, args[0], prop)

	if err := s.saveSchema(path, doc, "schema add "+args[0]); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Added property %s to %s\n", args[0], path)

	return nil
}

func runSchemaRemove(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	path, doc, err := s.loadSchema()
	if err != nil {
		return err
	}

	if err := schema.RemoveProperty(doc, args[0]); err != nil {
		return err
	}

	if err := s.saveSchema(path, doc, "schema remove "+args[0]); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Removed property %s from %s\n", args[0], path)

	return nil
}

func runSchemaExport(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	path, doc, err := s.loadSchema()
	if err != nil {
		return err
	}

	out := exportOutput
	if out == "" {
		out = schema.ExportPath(path)
	}

	if err := schema.SaveFile(out, doc); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Schema exported to %s\n", out)

	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epaustria/idfkit/internal/export"
	"github.com/epaustria/idfkit/internal/library"
)

// ExportResult holds the outcome of an Excel export.
type ExportResult struct {
	File          string `json:"file"`
	Materials     int    `json:"materials"`
	Constructions int    `json:"constructions"`
	Issues        int    `json:"issues"`
}

type exportOptions struct {
	Resources string
	Output    string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the material library to Excel",
		Long: `Export the material and construction library to an Excel workbook.

Writes a Materialien and a Konstruktionen sheet; a Validierung sheet is
added only when the library has findings.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Resources, "resources", "", "directory of IDF resource files (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "Austrian_EnergyPlus_Database.xlsx", "output workbook path")
	_ = cmd.MarkFlagRequired("resources")

	return cmd
}

func runExport(rootOpts *RootOptions, opts *exportOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	lib, err := library.Load(opts.Resources)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error(), nil)
	}

	issues := lib.Validate()
	formatter.VerboseLog("Exporting %d materials, %d constructions, %d finding(s)",
		len(lib.MaterialNames()), len(lib.ConstructionNames()), len(issues))

	if err := export.WriteFile(lib, issues, opts.Output); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(ExportResult{
			File:          opts.Output,
			Materials:     len(lib.MaterialNames()),
			Constructions: len(lib.ConstructionNames()),
			Issues:        len(issues),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%d materials, %d constructions)\n",
		opts.Output, len(lib.MaterialNames()), len(lib.ConstructionNames()))
	return nil
}

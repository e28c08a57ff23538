package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/epaustria/idfkit/internal/library"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid         bool                  `json:"valid"`
	Constructions []ConstructionSummary `json:"constructions"`
	Issues        []library.Issue       `json:"issues,omitempty"`
}

// ConstructionSummary is one construction row of the validation report.
type ConstructionSummary struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Layers          []string `json:"layers"`
	UValue          *float64 `json:"u_value,omitempty"`
	OIBCompliant    string   `json:"oib_compliant"`
	PassivhausReady string   `json:"passivhaus_ready"`
}

type validateOptions struct {
	Resources string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate constructions against OIB RL 6",
		Long: `Validate the material and construction library against Austrian standards.

Computes U-values per ÖNORM EN ISO 6946, checks them against the OIB
Richtlinie 6 limits for the construction category, and reports naming
and missing-layer problems. Passivhaus readiness is informational.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryValidate(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Resources, "resources", "", "directory of IDF resource files (required)")
	_ = cmd.MarkFlagRequired("resources")

	return cmd
}

func runLibraryValidate(rootOpts *RootOptions, opts *validateOptions, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Loaded %d materials, %d constructions from %s",
		len(lib.MaterialNames()), len(lib.ConstructionNames()), opts.Resources)

	issues := lib.Validate()
	violations := library.Violations(issues)
	report := lib.ConstructionReport()

	summaries := make([]ConstructionSummary, 0, len(report))
	for _, row := range report {
		s := ConstructionSummary{
			Name:            row.Name,
			Category:        row.Category,
			Layers:          row.Layers,
			OIBCompliant:    row.OIBCompliant,
			PassivhausReady: row.PassivhausReady,
		}
		if !math.IsNaN(row.UValue) {
			u := row.UValue
			s.UValue = &u
		}
		summaries = append(summaries, s)
	}

	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:         len(violations) == 0,
			Constructions: summaries,
			Issues:        issues,
		}
		if len(violations) > 0 {
			if err := formatter.Success(result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
		}
		return formatter.Success(result)
	}

	writeValidationTable(formatter, report)

	if len(issues) > 0 {
		fmt.Fprintln(formatter.Writer)
		for _, issue := range issues {
			marker := "!"
			if !issue.Violation() {
				marker = "i"
			}
			fmt.Fprintf(formatter.Writer, "[%s] %s %s: %s\n", issue.Code, marker, issue.Construction, issue.Detail)
		}
	}

	fmt.Fprintln(formatter.Writer)
	if len(violations) > 0 {
		fmt.Fprintf(formatter.Writer, "✗ %d violation(s) in %d construction(s)\n", len(violations), len(report))
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
	}
	fmt.Fprintf(formatter.Writer, "✓ All %d constructions OIB-compliant\n", len(report))
	return nil
}

func writeValidationTable(formatter *OutputFormatter, report []library.ConstructionRow) {
	table := tablewriter.NewWriter(formatter.Writer)
	table.SetHeader([]string{"Konstruktion", "Kategorie", "U-Wert [W/m²K]", "OIB", "Passivhaus"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range report {
		table.Append([]string{
			row.Name,
			row.Category,
			formatUValue(row.UValue),
			row.OIBCompliant,
			row.PassivhausReady,
		})
	}
	table.Render()
}

// formatUValue renders a U-value with three decimals, "Fehler" when it
// could not be computed.
func formatUValue(u float64) string {
	if math.IsNaN(u) {
		return "Fehler"
	}
	return strconv.FormatFloat(u, 'f', 3, 64)
}

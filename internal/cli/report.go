package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/epaustria/idfkit/internal/results"
)

// ReportResult holds the outcome of a report run.
type ReportResult struct {
	Plots      []string `json:"plots"`
	DailyStats []string `json:"daily_stats"`
	Skipped    []string `json:"skipped,omitempty"`
}

type reportOptions struct {
	CSV       string
	OutDir    string
	Zone      string
	Variables []string
	Year      int
	DPI       int
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Plot simulation results from eplusout.csv",
		Long: `Plot zone time series from an EnergyPlus CSV output file.

Renders one PNG per zone and variable, and a daily min/mean/max CSV for
temperature series. Variable names match loosely; "Zone Air Temperature"
finds "Zone Mean Air Temperature" columns too.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CSV, "csv", "", "EnergyPlus CSV output file (required)")
	cmd.Flags().StringVar(&opts.OutDir, "out", "figures", "output directory for plots")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "only this zone (default all zones)")
	cmd.Flags().StringSliceVar(&opts.Variables, "var", []string{"Zone Air Temperature", "Zone Air Relative Humidity"}, "variables to plot")
	cmd.Flags().IntVar(&opts.Year, "year", 2013, "year for timestamps without one")
	cmd.Flags().IntVar(&opts.DPI, "dpi", results.DefaultDPI, "plot resolution")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func runReport(rootOpts *RootOptions, opts *reportOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	table, err := results.ReadCSV(opts.CSV, opts.Year)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error(), nil)
	}

	zones := table.Zones()
	if opts.Zone != "" {
		zones = []string{opts.Zone}
	}
	if len(zones) == 0 {
		return outputCommandError(formatter, ErrCodeBadArgument, "no zone columns found in CSV", nil)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
	}

	report := ReportResult{}
	for _, zoneName := range zones {
		for _, variable := range opts.Variables {
			series, err := table.Resolve(zoneName, variable)
			if err != nil {
				report.Skipped = append(report.Skipped, fmt.Sprintf("%s / %s", zoneName, variable))
				formatter.VerboseLog("Skipping %s / %s: %v", zoneName, variable, err)
				continue
			}

			plotPath := filepath.Join(opts.OutDir, results.PlotName(zoneName, series.Variable))
			title := fmt.Sprintf("%s: %s", zoneName, series.Variable)
			if err := results.Plot(series, title, series.YLabel(), plotPath, opts.DPI); err != nil {
				return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
			}
			report.Plots = append(report.Plots, plotPath)

			if series.IsTemperature() {
				stats := results.DailyStats(series)
				statsPath := filepath.Join(opts.OutDir, results.DailyStatsName(zoneName))
				if err := results.WriteDailyCSV(stats, statsPath); err != nil {
					return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
				}
				report.DailyStats = append(report.DailyStats, statsPath)
			}
		}
	}

	if len(report.Plots) == 0 {
		return outputCommandError(formatter, ErrCodeBadArgument,
			fmt.Sprintf("no matching series for zones %v", zones), report.Skipped)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	for _, p := range report.Plots {
		fmt.Fprintf(formatter.Writer, "plot  %s\n", p)
	}
	for _, s := range report.DailyStats {
		fmt.Fprintf(formatter.Writer, "stats %s\n", s)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d plot(s), %d daily stat file(s)\n", len(report.Plots), len(report.DailyStats))
	return nil
}

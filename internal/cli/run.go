package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/epaustria/idfkit/internal/idf"
	"github.com/epaustria/idfkit/internal/simulate"
	"github.com/epaustria/idfkit/internal/store"
)

// RunSummary is the per-invocation slice of a run report.
type RunSummary struct {
	ID        string `json:"id"`
	Scenario  string `json:"scenario,omitempty"`
	OutputDir string `json:"output_dir"`
	ExitCode  int    `json:"exit_code"`
	Success   bool   `json:"success"`
	Warnings  int    `json:"warnings"`
	Severes   int    `json:"severes"`
	Fatals    int    `json:"fatals"`
	Duration  string `json:"duration"`
	CSV       string `json:"csv,omitempty"`
}

// RunReport holds the outcome of a run command.
type RunReport struct {
	Runs   []RunSummary `json:"runs"`
	Failed int          `json:"failed"`
}

type runOptions struct {
	Weather    string
	OutDir     string
	Executable string
	ReadVars   bool
	Database   string
	Scenarios  string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <model.idf>",
		Short: "Run EnergyPlus simulations",
		Long: `Run an EnergyPlus simulation, or a batch of construction scenarios.

With --scenarios each scenario gets its own copy of the model with the
configured constructions swapped in, simulated into its own output
directory. A failing simulation does not abort the batch.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulations(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Weather, "weather", "w", "", "EPW weather file (required)")
	cmd.Flags().StringVar(&opts.OutDir, "out", "output", "output directory")
	cmd.Flags().StringVar(&opts.Executable, "energyplus", "", "EnergyPlus executable (defaults to energyplus on PATH)")
	cmd.Flags().BoolVarP(&opts.ReadVars, "readvars", "r", true, "run ReadVarsESO so eplusout.csv is produced")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite cache")
	cmd.Flags().StringVar(&opts.Scenarios, "scenarios", "", "YAML file of construction scenarios")
	_ = cmd.MarkFlagRequired("weather")

	return cmd
}

func runSimulations(rootOpts *RootOptions, opts *runOptions, idfPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
	ctx := cmd.Context()

	var db *store.Store
	if opts.Database != "" {
		var err error
		db, err = store.Open(opts.Database)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDatabase, err.Error(), nil)
		}
		defer db.Close()
	}

	runner := &simulate.Runner{Executable: opts.Executable, ReadVars: opts.ReadVars}

	var results []*simulate.RunResult
	var names []string
	if opts.Scenarios != "" {
		scenarios, err := simulate.LoadScenarios(opts.Scenarios)
		if err != nil {
			return outputCommandError(formatter, ErrCodeBadArgument, err.Error(), nil)
		}
		results, names, err = runBatch(ctx, formatter, runner, db, idfPath, opts, scenarios)
		if err != nil {
			return err
		}
	} else {
		result, err := runOne(ctx, runner, db, idfPath, opts.Weather, opts.OutDir)
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
		}
		results = []*simulate.RunResult{result}
		names = []string{""}
	}

	return outputRunReport(formatter, results, names)
}

// runBatch simulates every scenario into its own subdirectory of --out.
func runBatch(ctx context.Context, formatter *OutputFormatter, runner *simulate.Runner, db *store.Store, idfPath string, opts *runOptions, scenarios []simulate.Scenario) ([]*simulate.RunResult, []string, error) {
	var results []*simulate.RunResult
	var names []string
	for _, sc := range scenarios {
		// Re-parse per scenario so swaps never leak between variants.
		model, err := idf.ParseFile(idfPath)
		if err != nil {
			return nil, nil, outputCommandError(formatter, ErrCodeBadArgument, err.Error(), nil)
		}
		swapped := simulate.ApplyScenario(model, sc.Constructions)
		formatter.VerboseLog("Scenario %s: %d construction reference(s) swapped", sc.Name, swapped)

		outDir := filepath.Join(opts.OutDir, sc.Name)
		scenarioIDF := filepath.Join(outDir, sc.Name+".idf")
		if err := writeIDF(model, scenarioIDF); err != nil {
			return nil, nil, outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
		}

		weather := opts.Weather
		if sc.Weather != "" {
			weather = sc.Weather
		}

		result, err := runOne(ctx, runner, db, scenarioIDF, weather, outDir)
		if err != nil {
			return nil, nil, outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
		}
		results = append(results, result)
		names = append(names, sc.Name)
	}

	return results, names, nil
}

// runOne executes a single simulation and records it when a cache is
// attached. Recording failures surface; losing the run history silently
// would defeat the point of --db.
func runOne(ctx context.Context, runner *simulate.Runner, db *store.Store, idfPath, weather, outDir string) (*simulate.RunResult, error) {
	started := time.Now()
	result, err := runner.Run(ctx, idfPath, weather, outDir)
	if err != nil {
		return nil, err
	}

	if db != nil {
		if err := db.RecordRun(ctx, result.ID, idfPath, weather, outDir, started); err != nil {
			return nil, err
		}
		if err := db.FinishRun(ctx, result.ID, started.Add(result.Duration), result.Success(),
			result.Summary.Warnings, result.Summary.Severes, result.Summary.Fatals); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func outputRunReport(formatter *OutputFormatter, results []*simulate.RunResult, names []string) error {
	report := RunReport{}
	for i, r := range results {
		s := RunSummary{
			ID:        r.ID,
			Scenario:  names[i],
			OutputDir: r.OutputDir,
			ExitCode:  r.ExitCode,
			Success:   r.Success(),
			Warnings:  r.Summary.Warnings,
			Severes:   r.Summary.Severes,
			Fatals:    r.Summary.Fatals,
			Duration:  r.Duration.Round(time.Millisecond).String(),
		}
		if r.Artifacts.CSV.Exists {
			s.CSV = r.Artifacts.CSV.Path
		}
		if !s.Success {
			report.Failed++
		}
		report.Runs = append(report.Runs, s)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
		if report.Failed > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d of %d simulation(s) failed", report.Failed, len(report.Runs)))
		}
		return nil
	}

	table := tablewriter.NewWriter(formatter.Writer)
	table.SetHeader([]string{"Scenario", "Status", "Warnings", "Severes", "Duration", "Output"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, s := range report.Runs {
		name := s.Scenario
		if name == "" {
			name = "-"
		}
		status := "ok"
		if !s.Success {
			status = "FAILED"
		}
		table.Append([]string{
			name,
			status,
			fmt.Sprintf("%d", s.Warnings),
			fmt.Sprintf("%d", s.Severes),
			s.Duration,
			s.OutputDir,
		})
	}
	table.Render()

	fmt.Fprintln(formatter.Writer)
	if report.Failed > 0 {
		fmt.Fprintf(formatter.Writer, "✗ %d of %d simulation(s) failed\n", report.Failed, len(report.Runs))
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d simulation(s) failed", report.Failed, len(report.Runs)))
	}
	fmt.Fprintf(formatter.Writer, "✓ %d simulation(s) succeeded\n", len(report.Runs))
	return nil
}

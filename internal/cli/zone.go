package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epaustria/idfkit/internal/idf"
	"github.com/epaustria/idfkit/internal/zone"
)

// ZoneResult holds the outcome of a zone generation.
type ZoneResult struct {
	File    string   `json:"file"`
	Zones   []string `json:"zones"`
	Objects int      `json:"objects"`
}

type zoneOptions struct {
	RoomType   string
	Name       string
	Dimensions string
	Position   string
	OutDir     string
	Sample     bool
}

// NewZoneCommand creates the zone command.
func NewZoneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &zoneOptions{}

	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Generate EnergyPlus zone IDF files",
		Long: `Generate thermal zone IDF snippets with Austrian construction defaults.

A single zone is built from --room-type and --name; --sample writes the
four-zone Salzburg single-family house instead.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZone(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RoomType, "room-type", "", "room type (wohnzimmer, schlafzimmer, kueche, badezimmer, buero, kinderzimmer)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "zone name (without the AT_Zone_ prefix)")
	cmd.Flags().StringVar(&opts.Dimensions, "dimensions", "", "interior size as w,d,h in metres (defaults per room type)")
	cmd.Flags().StringVar(&opts.Position, "position", "", "zone origin as x,y,z in metres")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.Sample, "sample", false, "generate the Salzburg sample building")

	return cmd
}

func runZone(rootOpts *RootOptions, opts *zoneOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if opts.Sample {
		return runZoneSample(formatter, opts)
	}

	if opts.Name == "" {
		return outputCommandError(formatter, ErrCodeBadArgument, "--name is required (or use --sample)", nil)
	}

	cfg := zone.Config{Name: opts.Name, RoomType: opts.RoomType}
	if opts.Dimensions != "" {
		vals, err := parseTriple(opts.Dimensions)
		if err != nil {
			return outputCommandError(formatter, ErrCodeBadArgument, fmt.Sprintf("invalid --dimensions: %v", err), nil)
		}
		cfg.Dimensions = zone.Dimensions{Width: vals[0], Depth: vals[1], Height: vals[2]}
	}
	if opts.Position != "" {
		vals, err := parseTriple(opts.Position)
		if err != nil {
			return outputCommandError(formatter, ErrCodeBadArgument, fmt.Sprintf("invalid --position: %v", err), nil)
		}
		cfg.Position = zone.Position{X: vals[0], Y: vals[1], Z: vals[2]}
	}

	file, err := zone.Build(cfg)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadArgument, err.Error(), nil)
	}

	path := filepath.Join(opts.OutDir, zone.ZoneName(cfg.Name)+".idf")
	if err := writeIDF(file, path); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
	}

	return outputZoneResult(formatter, file, path)
}

func runZoneSample(formatter *OutputFormatter, opts *zoneOptions) error {
	configs := zone.SampleBuilding()
	file, err := zone.BuildBuilding(configs)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadArgument, err.Error(), nil)
	}

	path := filepath.Join(opts.OutDir, "Salzburg_EFH_Complete.idf")
	if err := writeIDF(file, path); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
	}

	formatter.VerboseLog("Generated %d zones", len(configs))
	return outputZoneResult(formatter, file, path)
}

func outputZoneResult(formatter *OutputFormatter, file *idf.File, path string) error {
	zones := make([]string, 0, 4)
	for _, obj := range file.ByClass("Zone") {
		zones = append(zones, obj.Name())
	}

	if formatter.Format == "json" {
		return formatter.Success(ZoneResult{File: path, Zones: zones, Objects: len(file.Objects)})
	}

	fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%d zones, %d objects)\n", path, len(zones), len(file.Objects))
	return nil
}

// writeIDF renders a file to disk, creating the parent directory.
func writeIDF(file *idf.File, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := file.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseTriple parses a "w,d,h" style comma triple.
func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("expected three comma-separated numbers, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("value %q is not a number", strings.TrimSpace(p))
		}
		out[i] = v
	}
	return out, nil
}

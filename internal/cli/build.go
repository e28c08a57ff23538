package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epaustria/idfkit/internal/layout"
	"github.com/epaustria/idfkit/internal/results"
	"github.com/epaustria/idfkit/internal/zone"
)

// BuildResult holds the outcome of a layout build.
type BuildResult struct {
	Building string   `json:"building"`
	File     string   `json:"file"`
	Zones    []string `json:"zones"`
	Objects  int      `json:"objects"`
}

type buildOptions struct {
	Output string
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <layout.cue>",
		Short: "Build a multi-zone IDF from a CUE layout",
		Long: `Build a multi-zone building IDF from a CUE layout file.

The layout is validated against the embedded schema before any geometry
is generated, so wall names, dimensions and window sizes fail early with
positions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output IDF path (defaults to <building name>.idf)")

	return cmd
}

func runBuild(rootOpts *RootOptions, opts *buildOptions, layoutPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	building, err := layout.Load(layoutPath)
	if err != nil {
		var loadErr *layout.LoadError
		if errors.As(err, &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Error(), nil)
		}
		return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	formatter.VerboseLog("Layout %q: %d zone(s)", building.Name, len(building.Zones))

	file, err := zone.BuildBuilding(building.Zones)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadArgument, err.Error(), nil)
	}

	path := opts.Output
	if path == "" {
		path = results.SafeName(building.Name) + ".idf"
	}
	if err := writeIDF(file, path); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
	}

	zones := make([]string, 0, len(building.Zones))
	for _, obj := range file.ByClass("Zone") {
		zones = append(zones, obj.Name())
	}

	if formatter.Format == "json" {
		return formatter.Success(BuildResult{
			Building: building.Name,
			File:     path,
			Zones:    zones,
			Objects:  len(file.Objects),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Built %s: %s (%d zones, %d objects)\n", building.Name, path, len(zones), len(file.Objects))
	return nil
}

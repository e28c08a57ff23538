package cli

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/epaustria/idfkit/internal/library"
	"github.com/epaustria/idfkit/internal/store"
)

// CacheResult holds the outcome of a cache refresh.
type CacheResult struct {
	Database      string `json:"database"`
	Materials     int    `json:"materials"`
	Constructions int    `json:"constructions"`
}

// CacheListResult holds the cached rows for --list.
type CacheListResult struct {
	Database      string                     `json:"database"`
	Materials     []store.MaterialRecord     `json:"materials"`
	Constructions []store.ConstructionRecord `json:"constructions"`
}

type cacheOptions struct {
	Resources string
	Database  string
	List      bool
}

// NewCacheCommand creates the cache command.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &cacheOptions{}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the SQLite library cache",
		Long: `Refresh or inspect the SQLite cache of materials and constructions.

A refresh merges the freshly computed library into the cache; known
values survive when the new scan cannot provide them. --list prints the
cached rows without touching the resources.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Resources, "resources", "", "directory of IDF resource files")
	cmd.Flags().StringVar(&opts.Database, "db", "idfkit.db", "cache database path")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list cached rows instead of refreshing")

	return cmd
}

func runCache(rootOpts *RootOptions, opts *cacheOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	db, err := store.Open(opts.Database)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error(), nil)
	}
	defer db.Close()

	if opts.List {
		return runCacheList(cmd.Context(), formatter, db, opts)
	}

	if opts.Resources == "" {
		return outputCommandError(formatter, ErrCodeBadArgument, "--resources is required for a refresh", nil)
	}

	lib, err := library.Load(opts.Resources)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error(), nil)
	}

	ctx := cmd.Context()
	if err := db.RefreshLibrary(ctx, lib); err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(CacheResult{
			Database:      opts.Database,
			Materials:     len(lib.MaterialNames()),
			Constructions: len(lib.ConstructionNames()),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Cached %d materials, %d constructions in %s\n",
		len(lib.MaterialNames()), len(lib.ConstructionNames()), opts.Database)
	return nil
}

func runCacheList(ctx context.Context, formatter *OutputFormatter, db *store.Store, opts *cacheOptions) error {
	materials, err := db.Materials(ctx)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error(), nil)
	}
	constructions, err := db.Constructions(ctx)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(CacheListResult{
			Database:      opts.Database,
			Materials:     materials,
			Constructions: constructions,
		})
	}

	table := tablewriter.NewWriter(formatter.Writer)
	table.SetHeader([]string{"Konstruktion", "Kategorie", "Schichten", "U-Wert [W/m²K]", "OIB"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, c := range constructions {
		u := "Fehler"
		if c.UValue != nil {
			u = formatUValue(*c.UValue)
		}
		table.Append([]string{c.Name, c.Category, fmt.Sprintf("%d", c.LayerCount), u, c.OIBCompliant})
	}
	table.Render()

	fmt.Fprintf(formatter.Writer, "\n%d materials, %d constructions cached in %s\n",
		len(materials), len(constructions), opts.Database)
	return nil
}

// Package simulate invokes the external EnergyPlus binary and triages its
// output directory. The engine itself stays a black box; this package only
// shells out, parses eplusout.err and checks which artifacts appeared.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DefaultExecutable is looked up on PATH when no explicit path is given.
const DefaultExecutable = "energyplus"

// Runner invokes EnergyPlus.
type Runner struct {
	// Executable is the EnergyPlus binary, DefaultExecutable when empty.
	Executable string
	// ReadVars additionally runs ReadVarsESO (-r) so eplusout.csv is
	// generated.
	ReadVars bool
}

// Artifact is one expected output file.
type Artifact struct {
	Path   string
	Exists bool
	Size   int64
}

// Artifacts are the post-run output files worth checking.
type Artifacts struct {
	CSV  Artifact // eplusout.csv (needs ReadVars)
	HTML Artifact // eplustbl.htm
	ESO  Artifact // eplusout.eso
	Err  Artifact // eplusout.err
}

// RunResult describes one completed simulator invocation.
type RunResult struct {
	ID          string
	IDFPath     string
	WeatherPath string
	OutputDir   string
	ExitCode    int
	Duration    time.Duration
	Summary     ErrSummary
	Artifacts   Artifacts
	Output      string // combined stdout/stderr of the process
}

// Success requires a zero exit code and a clean err file. EnergyPlus can
// exit 0 and still have produced Severe entries, so both are checked.
func (r *RunResult) Success() bool {
	return r.ExitCode == 0 && r.Summary.Clean()
}

// Run executes one simulation. The output directory is created when
// missing. A failing simulation is not an error; the result carries the
// exit code and err summary. Errors are reserved for not being able to
// run at all.
func (r *Runner) Run(ctx context.Context, idfPath, epwPath, outputDir string) (*RunResult, error) {
	exe := r.Executable
	if exe == "" {
		exe = DefaultExecutable
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	args := []string{"-w", epwPath, "-d", outputDir}
	if r.ReadVars {
		args = append(args, "-r")
	}
	args = append(args, idfPath)

	result := &RunResult{
		ID:          uuid.NewString(),
		IDFPath:     idfPath,
		WeatherPath: epwPath,
		OutputDir:   outputDir,
	}

	slog.Info("starting EnergyPlus", "run", result.ID, "idf", idfPath, "weather", epwPath, "out", outputDir)

	cmd := exec.CommandContext(ctx, exe, args...)
	start := time.Now()
	output, err := cmd.CombinedOutput()
	result.Duration = time.Since(start)
	result.Output = string(output)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never ran (binary missing, context canceled
			// before start, ...).
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("run energyplus: %w", err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	result.Artifacts = statArtifacts(outputDir)

	if result.Artifacts.Err.Exists {
		f, err := os.Open(result.Artifacts.Err.Path)
		if err != nil {
			return nil, fmt.Errorf("open err file: %w", err)
		}
		defer f.Close()
		summary, err := ParseErrFile(f)
		if err != nil {
			return nil, fmt.Errorf("parse err file: %w", err)
		}
		result.Summary = summary
	}

	slog.Info("EnergyPlus finished",
		"run", result.ID,
		"exit", result.ExitCode,
		"duration", result.Duration.Round(time.Millisecond),
		"warnings", result.Summary.Warnings,
		"severes", result.Summary.Severes,
		"fatals", result.Summary.Fatals)

	return result, nil
}

func statArtifacts(dir string) Artifacts {
	return Artifacts{
		CSV:  statArtifact(filepath.Join(dir, "eplusout.csv")),
		HTML: statArtifact(filepath.Join(dir, "eplustbl.htm")),
		ESO:  statArtifact(filepath.Join(dir, "eplusout.eso")),
		Err:  statArtifact(filepath.Join(dir, "eplusout.err")),
	}
}

func statArtifact(path string) Artifact {
	a := Artifact{Path: path}
	if info, err := os.Stat(path); err == nil {
		a.Exists = true
		a.Size = info.Size()
	}
	return a
}

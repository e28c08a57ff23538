package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/epaustria/idfkit/internal/library"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"materials", "constructions", "runs"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func testLibrary() *library.Library {
	lib := library.New()
	lib.Materials["AT_Ziegel_25cm"] = library.Material{
		Name:         "AT_Ziegel_25cm",
		Thickness:    0.25,
		Conductivity: 0.44,
		Density:      1200,
		SpecificHeat: 1000,
	}
	lib.NoMassR["AT_Daemmung_R4"] = 4.0
	lib.Constructions["AT_Außenwand_Test"] = library.Construction{
		Name:     "AT_Außenwand_Test",
		Layers:   []string{"AT_Ziegel_25cm", "AT_Daemmung_R4"},
		Category: library.CatExteriorWall,
	}
	return lib
}

func TestRefreshLibrary_InsertsRows(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.RefreshLibrary(ctx, testLibrary()); err != nil {
		t.Fatalf("RefreshLibrary() failed: %v", err)
	}

	mats, err := s.Materials(ctx)
	if err != nil {
		t.Fatalf("Materials() failed: %v", err)
	}
	if len(mats) != 2 {
		t.Fatalf("got %d materials, want 2", len(mats))
	}

	// Rows come back name-sorted: the no-mass layer first.
	nomass := mats[0]
	if nomass.Name != "AT_Daemmung_R4" {
		t.Fatalf("unexpected first material %q", nomass.Name)
	}
	if nomass.Thickness != nil {
		t.Error("no-mass layer should have NULL thickness")
	}
	if nomass.Resistance == nil || *nomass.Resistance != 4.0 {
		t.Errorf("no-mass resistance = %v, want 4.0", nomass.Resistance)
	}

	ziegel := mats[1]
	if ziegel.Resistance == nil {
		t.Fatal("massive material should have a resistance")
	}
	want := 0.25 / 0.44
	if diff := *ziegel.Resistance - want; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("resistance = %v, want %v", *ziegel.Resistance, want)
	}

	cons, err := s.Constructions(ctx)
	if err != nil {
		t.Fatalf("Constructions() failed: %v", err)
	}
	if len(cons) != 1 {
		t.Fatalf("got %d constructions, want 1", len(cons))
	}
	con := cons[0]
	if con.Category != library.CatExteriorWall {
		t.Errorf("category = %q, want %q", con.Category, library.CatExteriorWall)
	}
	if con.LayerCount != 2 || len(con.Layers) != 2 {
		t.Errorf("layer count = %d/%d, want 2", con.LayerCount, len(con.Layers))
	}
	if con.UValue == nil {
		t.Fatal("U-value should be present")
	}
	// 1 / (0.165 + 0.25/0.44 + 4.0), rounded to three decimals by the report.
	if *con.UValue != 0.211 {
		t.Errorf("u_value = %v, want 0.211", *con.UValue)
	}
	if con.OIBCompliant != "Ja" {
		t.Errorf("oib_compliant = %q, want Ja", con.OIBCompliant)
	}
}

func TestRefreshLibrary_MergeKeepsKnownValues(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.RefreshLibrary(ctx, testLibrary()); err != nil {
		t.Fatalf("first RefreshLibrary() failed: %v", err)
	}

	// The same material reappears as a bare no-mass resistance. The new
	// resistance wins; the old volumetric properties survive.
	degraded := library.New()
	degraded.NoMassR["AT_Ziegel_25cm"] = 0.5
	if err := s.RefreshLibrary(ctx, degraded); err != nil {
		t.Fatalf("second RefreshLibrary() failed: %v", err)
	}

	mats, err := s.Materials(ctx)
	if err != nil {
		t.Fatalf("Materials() failed: %v", err)
	}
	var ziegel *MaterialRecord
	for i := range mats {
		if mats[i].Name == "AT_Ziegel_25cm" {
			ziegel = &mats[i]
		}
	}
	if ziegel == nil {
		t.Fatal("AT_Ziegel_25cm missing after merge")
	}
	if ziegel.Resistance == nil || *ziegel.Resistance != 0.5 {
		t.Errorf("resistance = %v, want fresh value 0.5", ziegel.Resistance)
	}
	if ziegel.Thickness == nil || *ziegel.Thickness != 0.25 {
		t.Errorf("thickness = %v, want preserved 0.25", ziegel.Thickness)
	}
}

func TestRunLifecycle(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.RecordRun(ctx, "run-1", "haus.idf", "wien.epw", "out", started); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].FinishedAt != nil || runs[0].Success != nil {
		t.Error("unfinished run should have NULL outcome")
	}

	finished := started.Add(90 * time.Second)
	if err := s.FinishRun(ctx, "run-1", finished, true, 3, 0, 0); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	runs, err = s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	run := runs[0]
	if run.Success == nil || !*run.Success {
		t.Error("run should be marked successful")
	}
	if run.Warnings == nil || *run.Warnings != 3 {
		t.Errorf("warnings = %v, want 3", run.Warnings)
	}
	if run.FinishedAt == nil || !run.FinishedAt.Equal(finished) {
		t.Errorf("finished_at = %v, want %v", run.FinishedAt, finished)
	}
}

func TestFinishRun_UnknownID(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	err = s.FinishRun(context.Background(), "nope", time.Now(), false, 0, 0, 0)
	if err == nil {
		t.Error("FinishRun() with unknown id should fail")
	}
}

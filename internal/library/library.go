package library

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/epaustria/idfkit/internal/idf"
)

// Library holds every thermally relevant record found in a resource tree.
type Library struct {
	Materials     map[string]Material
	NoMassR       map[string]float64 // Material:NoMass and Material:AirGap resistances
	WindowU       map[string]float64 // WindowMaterial:SimpleGlazingSystem U-factors
	Constructions map[string]Construction

	// Files lists the IDF files that were ingested, in walk order.
	Files []string
}

// New returns an empty library.
func New() *Library {
	return &Library{
		Materials:     map[string]Material{},
		NoMassR:       map[string]float64{},
		WindowU:       map[string]float64{},
		Constructions: map[string]Construction{},
	}
}

// Load ingests every *.idf file (case-insensitive extension) under dir.
func Load(dir string) (*Library, error) {
	lib := New()

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".idf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan resources: %w", err)
	}
	sort.Strings(files)

	if len(files) == 0 {
		slog.Warn("no IDF files found", "dir", dir)
	}
	for _, path := range files {
		if err := lib.IngestFile(path); err != nil {
			return nil, err
		}
	}

	slog.Info("library loaded",
		"materials", len(lib.Materials),
		"constructions", len(lib.Constructions),
		"files", len(files))
	return lib, nil
}

// IngestFile parses one IDF file and merges its records into the library.
// Later files win on name collisions, matching EnergyPlus include order.
func (l *Library) IngestFile(path string) error {
	file, err := idf.ParseFile(path)
	if err != nil {
		return err
	}
	counts := l.Ingest(file)
	l.Files = append(l.Files, path)
	slog.Info("ingested resource file", "file", filepath.Base(path),
		"material", counts["material"], "nomass", counts["nomass"],
		"airgap", counts["airgap"], "glazing", counts["glazing"],
		"construction", counts["construction"])
	return nil
}

// Ingest merges the thermally relevant records of a parsed file and
// returns per-class ingest counts. Malformed records are logged and
// skipped rather than failing the whole library.
func (l *Library) Ingest(file *idf.File) map[string]int {
	counts := map[string]int{}

	for _, obj := range file.Objects {
		switch idf.NormalizeClass(obj.Class) {
		case "material":
			if len(obj.Fields) < 6 {
				slog.Warn("material has too few fields", "name", obj.Name())
				continue
			}
			m, err := materialFromObject(obj)
			if err != nil {
				slog.Warn("skipping material", "name", obj.Name(), "err", err)
				continue
			}
			l.Materials[m.Name] = m
			counts["material"]++

		case "material:nomass":
			if len(obj.Fields) < 3 {
				continue
			}
			r, err := obj.Num(2)
			if err != nil {
				slog.Warn("skipping no-mass material", "name", obj.Name(), "err", err)
				continue
			}
			l.NoMassR[obj.Name()] = r
			counts["nomass"]++

		case "material:airgap":
			if len(obj.Fields) < 2 {
				continue
			}
			r, err := obj.Num(1)
			if err != nil {
				slog.Warn("skipping air gap", "name", obj.Name(), "err", err)
				continue
			}
			l.NoMassR[obj.Name()] = r
			counts["airgap"]++

		case "windowmaterial:simpleglazingsystem":
			if len(obj.Fields) < 2 {
				continue
			}
			u, err := obj.Num(1)
			if err != nil {
				slog.Warn("skipping glazing system", "name", obj.Name(), "err", err)
				continue
			}
			l.WindowU[obj.Name()] = u
			counts["glazing"]++

		case "construction":
			if len(obj.Fields) < 2 {
				continue
			}
			var layers []string
			for _, f := range obj.Fields[1:] {
				if f.Value != "" {
					layers = append(layers, f.Value)
				}
			}
			l.Constructions[obj.Name()] = Construction{
				Name:     obj.Name(),
				Layers:   layers,
				Category: CategorizeConstruction(obj.Name()),
			}
			counts["construction"]++
		}
	}

	return counts
}

func materialFromObject(obj idf.Object) (Material, error) {
	m := Material{
		Name:               obj.Name(),
		ThermalAbsorptance: 0.9,
		SolarAbsorptance:   0.7,
		VisibleAbsorptance: 0.7,
	}

	var err error
	if m.Thickness, err = obj.Num(2); err != nil {
		return m, err
	}
	if m.Conductivity, err = obj.Num(3); err != nil {
		return m, err
	}
	if m.Density, err = obj.Num(4); err != nil {
		return m, err
	}
	if m.SpecificHeat, err = obj.Num(5); err != nil {
		return m, err
	}
	if len(obj.Fields) > 6 && obj.Fields[6].Value != "" {
		if m.ThermalAbsorptance, err = obj.Num(6); err != nil {
			return m, err
		}
	}
	if len(obj.Fields) > 7 && obj.Fields[7].Value != "" {
		if m.SolarAbsorptance, err = obj.Num(7); err != nil {
			return m, err
		}
	}
	if len(obj.Fields) > 8 && obj.Fields[8].Value != "" {
		if m.VisibleAbsorptance, err = obj.Num(8); err != nil {
			return m, err
		}
	}
	return m, nil
}

// ConstructionNames returns construction names in sorted order.
func (l *Library) ConstructionNames() []string {
	names := make([]string, 0, len(l.Constructions))
	for name := range l.Constructions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaterialNames returns material names in sorted order.
func (l *Library) MaterialNames() []string {
	names := make([]string, 0, len(l.Materials))
	for name := range l.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

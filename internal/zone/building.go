package zone

import (
	"fmt"

	"github.com/epaustria/idfkit/internal/idf"
)

// box is the axis-aligned bounding box of a zone.
type box struct {
	x0, y0, z0 float64
	x1, y1, z1 float64
}

func (c Config) bounds() box {
	d, p := c.Dimensions, c.Position
	return box{
		x0: p.X, y0: p.Y, z0: p.Z,
		x1: p.X + d.Width, y1: p.Y + d.Depth, z1: p.Z + d.Height,
	}
}

// overlaps reports whether two boxes intersect with positive volume.
// Touching faces are allowed, that is how adjacent rooms are modeled.
func (a box) overlaps(b box) bool {
	return a.x0 < b.x1 && b.x0 < a.x1 &&
		a.y0 < b.y1 && b.y0 < a.y1 &&
		a.z0 < b.z1 && b.z0 < a.z1
}

// BuildBuilding generates all zones of a building into one file. Zone
// volumes must not overlap; shared faces between neighbors are fine.
func BuildBuilding(configs []Config) (*idf.File, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("building has no zones")
	}

	filled := make([]Config, len(configs))
	for i, cfg := range configs {
		filled[i] = cfg.withDefaults()
	}

	seen := map[string]bool{}
	for i, a := range filled {
		if seen[a.Name] {
			return nil, fmt.Errorf("duplicate zone name %q", a.Name)
		}
		seen[a.Name] = true
		for _, b := range filled[:i] {
			if a.bounds().overlaps(b.bounds()) {
				return nil, fmt.Errorf("zones %q and %q overlap in coordinate space", b.Name, a.Name)
			}
		}
	}

	building := &idf.File{}
	for _, cfg := range filled {
		zoneFile, err := Build(cfg)
		if err != nil {
			return nil, err
		}
		building.Merge(zoneFile)
	}
	return building, nil
}

// SampleBuilding is the Salzburg single-family-house layout used by the
// zone --sample command and as a working end-to-end example.
func SampleBuilding() []Config {
	return []Config{
		{
			Name:       "Wohnzimmer",
			RoomType:   "wohnzimmer",
			Position:   Position{0, 0, 0},
			Dimensions: Dimensions{5.0, 6.0, 2.7},
		},
		{
			Name:       "Kueche",
			RoomType:   "kueche",
			Position:   Position{0, 7, 0},
			Dimensions: Dimensions{4.0, 3.0, 2.7},
		},
		{
			Name:       "Schlafzimmer",
			RoomType:   "schlafzimmer",
			Position:   Position{6, 0, 0},
			Dimensions: Dimensions{4.0, 4.0, 2.7},
		},
		{
			Name:       "Badezimmer",
			RoomType:   "badezimmer",
			Position:   Position{4, 7, 0},
			Dimensions: Dimensions{2.5, 3.0, 2.7},
		},
	}
}

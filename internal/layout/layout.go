// Package layout loads building layouts written in CUE. User files are
// unified with the embedded schema before decoding, so structural errors
// surface with file positions instead of as zero values downstream.
package layout

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/epaustria/idfkit/internal/zone"
)

//go:embed schema.cue
var schemaSource string

// Error code constants for layout loading.
const (
	ErrCodeNotFound   = "L001" // Layout file not found
	ErrCodeLoadFailed = "L002" // CUE load or build failed
	ErrCodeSchema     = "L003" // Layout does not satisfy the schema
	ErrCodeDecode     = "L004" // Decoding into Go values failed
)

// LoadError is an error that occurred while loading a layout file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Building is a decoded layout: a named set of zone configs ready for
// zone.BuildBuilding.
type Building struct {
	Name  string
	Zones []zone.Config
}

type buildingDoc struct {
	Name  string    `json:"name"`
	Zones []zoneDoc `json:"zones"`
}

type zoneDoc struct {
	Name           string            `json:"name"`
	RoomType       string            `json:"roomType"`
	Dimensions     []float64         `json:"dimensions"`
	Position       []float64         `json:"position"`
	Orientation    float64           `json:"orientation"`
	People         float64           `json:"people"`
	LightingPower  float64           `json:"lightingPower"`
	EquipmentPower float64           `json:"equipmentPower"`
	Windows        []windowDoc       `json:"windows"`
	Constructions  map[string]string `json:"constructions"`
}

type windowDoc struct {
	Wall       string  `json:"wall"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	SillHeight float64 `json:"sillHeight"`
}

// Load reads one CUE layout file, unifies it with the embedded schema and
// decodes the result.
func Load(path string) (*Building, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("layout file not found: %s", path)}
	} else if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing layout file: %v", err)}
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("compiling layout schema: %v", err)}
	}

	instances := load.Instances([]string{path}, &load.Config{})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading %s: %v", path, inst.Err), Pos: errPos(inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("building CUE value: %v", err), Pos: errPos(err)}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: cueerrors.Details(err, nil), Pos: errPos(err)}
	}

	var doc buildingDoc
	if err := unified.LookupPath(cue.ParsePath("building")).Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding layout: %v", err), Pos: errPos(err)}
	}

	b := &Building{Name: doc.Name}
	for _, z := range doc.Zones {
		b.Zones = append(b.Zones, zoneConfig(z))
	}
	return b, nil
}

func zoneConfig(d zoneDoc) zone.Config {
	cfg := zone.Config{
		Name:           d.Name,
		RoomType:       d.RoomType,
		Orientation:    d.Orientation,
		PeopleCount:    d.People,
		LightingPower:  d.LightingPower,
		EquipmentPower: d.EquipmentPower,
		Constructions:  d.Constructions,
	}
	if len(d.Dimensions) == 3 {
		cfg.Dimensions = zone.Dimensions{Width: d.Dimensions[0], Depth: d.Dimensions[1], Height: d.Dimensions[2]}
	}
	if len(d.Position) == 3 {
		cfg.Position = zone.Position{X: d.Position[0], Y: d.Position[1], Z: d.Position[2]}
	}
	// A zone with no windows key inherits the room-type windows; an
	// explicit empty list means none.
	if d.Windows != nil {
		cfg.Windows = make([]zone.Window, 0, len(d.Windows))
		for _, w := range d.Windows {
			cfg.Windows = append(cfg.Windows, zone.Window{
				Wall:       w.Wall,
				Width:      w.Width,
				Height:     w.Height,
				SillHeight: w.SillHeight,
			})
		}
	}
	return cfg
}

// errPos returns the first position a CUE error carries, if any.
func errPos(err error) token.Pos {
	positions := cueerrors.Positions(cueerrors.Promote(err, ""))
	if len(positions) > 0 {
		return positions[0]
	}
	return token.NoPos
}

package zone

import (
	"fmt"
	"strings"
)

// Wall identifiers, named from the compass direction they face.
const (
	WallSued = "sued"
	WallNord = "nord"
	WallWest = "west"
	WallOst  = "ost"
)

// Window describes one opening, centered horizontally in its host wall.
type Window struct {
	Wall       string  `json:"wall"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	SillHeight float64 `json:"sillHeight"`
}

// Dimensions is the interior box size of a zone in metres.
type Dimensions struct {
	Width  float64
	Depth  float64
	Height float64
}

// Position is the zone origin offset in metres.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Config describes one zone to generate. Zero-valued fields inherit from
// the room-type defaults.
type Config struct {
	Name           string
	RoomType       string
	Dimensions     Dimensions
	Position       Position
	Orientation    float64 // relative north rotation in degrees
	PeopleCount    float64
	LightingPower  float64 // W
	EquipmentPower float64 // W
	Windows        []Window

	// Constructions overrides the default construction per role
	// (roleFloor, roleCeiling, roleExteriorWall, roleWindow).
	Constructions map[string]string
}

// Construction roles.
const (
	RoleExteriorWall = "exterior_wall"
	RoleInteriorWall = "interior_wall"
	RoleFloor        = "floor"
	RoleCeiling      = "ceiling"
	RoleRoof         = "roof"
	RoleWindow       = "window"
	RoleDoor         = "door"
)

// DefaultConstructions is the standard Austrian construction set.
var DefaultConstructions = map[string]string{
	RoleExteriorWall: "AT_Außenwand_WDVS_Standard",
	RoleInteriorWall: "AT_Innenwand_Ziegel_14cm",
	RoleFloor:        "AT_Zwischendecke_Standard",
	RoleCeiling:      "AT_Zwischendecke_Standard",
	RoleRoof:         "AT_Steildach_Standard",
	RoleWindow:       "AT_Fenster_3fach_Standard",
	RoleDoor:         "AT_Innentür_Standard",
}

// RoomDefaults carries the per-room-type defaults.
type RoomDefaults struct {
	Dimensions      Dimensions
	PeopleCount     float64
	LightingPower   float64
	EquipmentPower  float64
	HeatingSchedule string
	Windows         []Window
}

// roomDefaults holds the Austrian standard room types.
var roomDefaults = map[string]RoomDefaults{
	"wohnzimmer": {
		Dimensions:      Dimensions{5.0, 6.0, 2.7},
		PeopleCount:     2.5,
		LightingPower:   300,
		EquipmentPower:  500,
		HeatingSchedule: "AT_Heizung_Zeitplan",
		Windows:         []Window{{Wall: WallSued, Width: 4.0, Height: 1.4, SillHeight: 0.8}},
	},
	"kueche": {
		Dimensions:      Dimensions{4.0, 3.0, 2.7},
		PeopleCount:     1.0,
		LightingPower:   180,
		EquipmentPower:  800,
		HeatingSchedule: "AT_Heizung_Zeitplan",
		Windows:         []Window{{Wall: WallNord, Width: 2.4, Height: 1.4, SillHeight: 0.8}},
	},
	"schlafzimmer": {
		Dimensions:      Dimensions{4.0, 4.0, 2.7},
		PeopleCount:     2.0,
		LightingPower:   100,
		EquipmentPower:  50,
		HeatingSchedule: "AT_Heizung_Schlafbereich",
		Windows:         []Window{{Wall: WallSued, Width: 1.0, Height: 1.4, SillHeight: 0.8}},
	},
	"badezimmer": {
		Dimensions:      Dimensions{2.5, 3.0, 2.7},
		PeopleCount:     0.5,
		LightingPower:   120,
		EquipmentPower:  200,
		HeatingSchedule: "BAD_Heizung_Zeitplan",
		Windows:         []Window{{Wall: WallNord, Width: 1.1, Height: 0.8, SillHeight: 1.2}},
	},
	"buero": {
		Dimensions:      Dimensions{3.5, 4.0, 2.7},
		PeopleCount:     1.0,
		LightingPower:   200,
		EquipmentPower:  300,
		HeatingSchedule: "AT_Heizung_Zeitplan",
		Windows:         []Window{{Wall: WallSued, Width: 1.5, Height: 1.4, SillHeight: 0.8}},
	},
	"keller": {
		Dimensions:      Dimensions{4.0, 6.0, 2.3},
		PeopleCount:     0.1,
		LightingPower:   80,
		EquipmentPower:  100,
		HeatingSchedule: "Keller_Heizung_Zeitplan",
		Windows:         []Window{{Wall: WallSued, Width: 0.8, Height: 0.6, SillHeight: 2.0}},
	},
}

// fallbackDefaults applies to unknown room types.
var fallbackDefaults = RoomDefaults{
	Dimensions:      Dimensions{4.0, 4.0, 2.7},
	PeopleCount:     1.0,
	LightingPower:   100,
	EquipmentPower:  50,
	HeatingSchedule: "AT_Heizung_Zeitplan",
}

// RoomTypes returns the known room type keys.
func RoomTypes() []string {
	keys := make([]string, 0, len(roomDefaults))
	for k := range roomDefaults {
		keys = append(keys, k)
	}
	return keys
}

// Defaults returns the defaults for a room type, falling back to the
// generic room when the type is unknown.
func Defaults(roomType string) RoomDefaults {
	if d, ok := roomDefaults[strings.ToLower(roomType)]; ok {
		return d
	}
	return fallbackDefaults
}

// withDefaults fills unset config fields from the room-type defaults.
func (c Config) withDefaults() Config {
	d := Defaults(c.RoomType)
	if c.Dimensions == (Dimensions{}) {
		c.Dimensions = d.Dimensions
	}
	if c.PeopleCount == 0 {
		c.PeopleCount = d.PeopleCount
	}
	if c.LightingPower == 0 {
		c.LightingPower = d.LightingPower
	}
	if c.EquipmentPower == 0 {
		c.EquipmentPower = d.EquipmentPower
	}
	if c.Windows == nil {
		c.Windows = d.Windows
	}
	return c
}

// construction resolves a construction role against overrides.
func (c Config) construction(role string) string {
	if name, ok := c.Constructions[role]; ok && name != "" {
		return name
	}
	return DefaultConstructions[role]
}

// validate rejects configurations that would produce degenerate geometry.
func (c Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("zone name is required")
	}
	d := c.Dimensions
	if d.Width <= 0 || d.Depth <= 0 || d.Height <= 0 {
		return fmt.Errorf("zone %q: dimensions must be positive, got %gx%gx%g", c.Name, d.Width, d.Depth, d.Height)
	}
	for i, w := range c.Windows {
		if err := c.validateWindow(i, w); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validateWindow(i int, w Window) error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("zone %q: window %d must have positive size", c.Name, i+1)
	}
	if w.SillHeight < 0 {
		return fmt.Errorf("zone %q: window %d has negative sill height", c.Name, i+1)
	}

	var hostWidth float64
	switch w.Wall {
	case WallSued, WallNord:
		hostWidth = c.Dimensions.Width
	case WallWest, WallOst:
		hostWidth = c.Dimensions.Depth
	default:
		return fmt.Errorf("zone %q: window %d references unknown wall %q", c.Name, i+1, w.Wall)
	}

	if w.Width > hostWidth {
		return fmt.Errorf("zone %q: window %d is wider (%gm) than wall %q (%gm)", c.Name, i+1, w.Width, w.Wall, hostWidth)
	}
	if w.SillHeight+w.Height > c.Dimensions.Height {
		return fmt.Errorf("zone %q: window %d exceeds wall height (sill %gm + %gm > %gm)",
			c.Name, i+1, w.SillHeight, w.Height, c.Dimensions.Height)
	}
	return nil
}

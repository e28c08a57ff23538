package zone

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/epaustria/idfkit/internal/idf"
)

// num renders a value with the shortest decimal form after rounding to
// micrometre precision, so derived coordinates like 0.8+1.4 come out as
// 2.2 rather than 2.1999999999999997.
func num(v float64) string {
	r := math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(r, 'g', -1, 64)
}

type vertex struct{ x, y, z float64 }

func (v vertex) String() string {
	return num(v.x) + "," + num(v.y) + "," + num(v.z)
}

// ZoneName returns the IDF object name for a zone config name.
func ZoneName(name string) string {
	return "AT_Zone_" + name
}

// Build generates the complete IDF record set for one zone.
func Build(cfg Config) (*idf.File, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	zoneName := ZoneName(cfg.Name)
	d, p := cfg.Dimensions, cfg.Position
	file := &idf.File{}

	zoneObj := idf.NewObject("Zone",
		zoneName, num(cfg.Orientation), num(p.X), num(p.Y), num(p.Z),
		"1", "1", "autocalculate", "autocalculate")
	annotate(&zoneObj,
		"Name", "Direction of Relative North {deg}",
		"X Origin {m}", "Y Origin {m}", "Z Origin {m}",
		"Type", "Multiplier", "Ceiling Height {m}", "Volume {m3}")
	zoneObj.Banner = fmt.Sprintf("ZONE: %s (%s)\n%gm x %gm x %gm",
		strings.ToUpper(cfg.Name), cfg.RoomType, d.Width, d.Depth, d.Height)
	file.Append(zoneObj)

	file.Append(floorSurface(cfg, zoneName))
	file.Append(ceilingSurface(cfg, zoneName))
	file.Append(wallSurfaces(cfg, zoneName)...)

	windows, err := windowSurfaces(cfg, zoneName)
	if err != nil {
		return nil, err
	}
	file.Append(windows...)

	file.Append(thermostatObjects(cfg, zoneName)...)
	file.Append(loadObjects(cfg, zoneName)...)
	file.Append(scheduleObjects(cfg)...)

	return file, nil
}

func annotate(obj *idf.Object, comments ...string) {
	for i, c := range comments {
		if i < len(obj.Fields) {
			obj.Fields[i].Comment = c
		}
	}
}

func surfaceObject(name, surfaceType, construction, zoneName, boundary, sun, wind string, viewFactor float64, verts []vertex) idf.Object {
	values := []string{
		name, surfaceType, construction, zoneName,
		boundary, "", sun, wind, num(viewFactor),
		strconv.Itoa(len(verts)),
	}
	comments := []string{
		"Name", "Surface Type", "Construction Name", "Zone Name",
		"Outside Boundary Condition", "Outside Boundary Condition Object",
		"Sun Exposure", "Wind Exposure", "View Factor to Ground",
		"Number of Vertices",
	}
	for i, v := range verts {
		values = append(values, v.String())
		comments = append(comments, fmt.Sprintf("X,Y,Z ==> Vertex %d {m}", i+1))
	}

	obj := idf.NewObject("BuildingSurface:Detailed", values...)
	annotate(&obj, comments...)
	return obj
}

func floorSurface(cfg Config, zoneName string) idf.Object {
	d, p := cfg.Dimensions, cfg.Position
	return surfaceObject(zoneName+"_Boden", "Floor", cfg.construction(RoleFloor), zoneName,
		"OtherSideCoefficients", "NoSun", "NoWind", 1.0, []vertex{
			{p.X, p.Y, p.Z},
			{p.X, p.Y + d.Depth, p.Z},
			{p.X + d.Width, p.Y + d.Depth, p.Z},
			{p.X + d.Width, p.Y, p.Z},
		})
}

func ceilingSurface(cfg Config, zoneName string) idf.Object {
	d, p := cfg.Dimensions, cfg.Position
	top := p.Z + d.Height
	return surfaceObject(zoneName+"_Decke", "Ceiling", cfg.construction(RoleCeiling), zoneName,
		"OtherSideCoefficients", "NoSun", "NoWind", 0, []vertex{
			{p.X, p.Y, top},
			{p.X + d.Width, p.Y, top},
			{p.X + d.Width, p.Y + d.Depth, top},
			{p.X, p.Y + d.Depth, top},
		})
}

// wallSurfaces emits the four exterior walls. Winding starts at an upper
// edge and runs downward first, keeping the outward normal facing away
// from the zone.
func wallSurfaces(cfg Config, zoneName string) []idf.Object {
	d, p := cfg.Dimensions, cfg.Position
	con := cfg.construction(RoleExteriorWall)
	top := p.Z + d.Height

	wall := func(suffix string, verts []vertex) idf.Object {
		return surfaceObject(zoneName+"_Wand_"+suffix, "Wall", con, zoneName,
			"Outdoors", "SunExposed", "WindExposed", 0.5, verts)
	}

	return []idf.Object{
		wall("Sued", []vertex{
			{p.X, p.Y, top},
			{p.X, p.Y, p.Z},
			{p.X + d.Width, p.Y, p.Z},
			{p.X + d.Width, p.Y, top},
		}),
		wall("Nord", []vertex{
			{p.X + d.Width, p.Y + d.Depth, top},
			{p.X + d.Width, p.Y + d.Depth, p.Z},
			{p.X, p.Y + d.Depth, p.Z},
			{p.X, p.Y + d.Depth, top},
		}),
		wall("West", []vertex{
			{p.X, p.Y, top},
			{p.X, p.Y + d.Depth, top},
			{p.X, p.Y + d.Depth, p.Z},
			{p.X, p.Y, p.Z},
		}),
		wall("Ost", []vertex{
			{p.X + d.Width, p.Y, top},
			{p.X + d.Width, p.Y, p.Z},
			{p.X + d.Width, p.Y + d.Depth, p.Z},
			{p.X + d.Width, p.Y + d.Depth, top},
		}),
	}
}

// windowSurfaces centers each window horizontally in its host wall.
func windowSurfaces(cfg Config, zoneName string) ([]idf.Object, error) {
	d, p := cfg.Dimensions, cfg.Position
	con := cfg.construction(RoleWindow)

	var objs []idf.Object
	for i, w := range cfg.Windows {
		bottom := p.Z + w.SillHeight
		top := bottom + w.Height

		var verts []vertex
		var wallSuffix string
		switch w.Wall {
		case WallSued:
			x0 := p.X + (d.Width-w.Width)/2
			x1 := x0 + w.Width
			verts = []vertex{{x0, p.Y, top}, {x0, p.Y, bottom}, {x1, p.Y, bottom}, {x1, p.Y, top}}
			wallSuffix = "Sued"
		case WallNord:
			x0 := p.X + (d.Width-w.Width)/2
			x1 := x0 + w.Width
			y := p.Y + d.Depth
			verts = []vertex{{x1, y, top}, {x1, y, bottom}, {x0, y, bottom}, {x0, y, top}}
			wallSuffix = "Nord"
		case WallWest:
			y0 := p.Y + (d.Depth-w.Width)/2
			y1 := y0 + w.Width
			verts = []vertex{{p.X, y0, top}, {p.X, y1, top}, {p.X, y1, bottom}, {p.X, y0, bottom}}
			wallSuffix = "West"
		case WallOst:
			y0 := p.Y + (d.Depth-w.Width)/2
			y1 := y0 + w.Width
			x := p.X + d.Width
			verts = []vertex{{x, y1, top}, {x, y0, top}, {x, y0, bottom}, {x, y1, bottom}}
			wallSuffix = "Ost"
		default:
			return nil, fmt.Errorf("zone %q: window %d references unknown wall %q", cfg.Name, i+1, w.Wall)
		}

		values := []string{
			fmt.Sprintf("%s_Fenster_%s_%d", zoneName, wallSuffix, i+1),
			"Window", con, zoneName + "_Wand_" + wallSuffix,
			"", "0.5", "", "1", strconv.Itoa(len(verts)),
		}
		comments := []string{
			"Name", "Surface Type", "Construction Name", "Building Surface Name",
			"Outside Boundary Condition Object", "View Factor to Ground",
			"Frame and Divider Name", "Multiplier", "Number of Vertices",
		}
		for vi, v := range verts {
			values = append(values, v.String())
			comments = append(comments, fmt.Sprintf("X,Y,Z ==> Vertex %d {m}", vi+1))
		}

		obj := idf.NewObject("FenestrationSurface:Detailed", values...)
		annotate(&obj, comments...)
		objs = append(objs, obj)
	}
	return objs, nil
}

func thermostatObjects(cfg Config, zoneName string) []idf.Object {
	control := idf.NewObject("ZoneControl:Thermostat",
		zoneName+"_Thermostat", zoneName, "AT_Dual_Zone_Control",
		"ThermostatSetpoint:DualSetpoint", zoneName+"_Setpoint")
	annotate(&control, "Name", "Zone or ZoneList Name", "Control Type Schedule Name",
		"Control Object Type 1", "Control Name 1")

	setpoint := idf.NewObject("ThermostatSetpoint:DualSetpoint",
		zoneName+"_Setpoint", Defaults(cfg.RoomType).HeatingSchedule, "AT_Kühlung_Zeitplan")
	annotate(&setpoint, "Name",
		"Heating Setpoint Temperature Schedule Name",
		"Cooling Setpoint Temperature Schedule Name")

	return []idf.Object{control, setpoint}
}

func loadObjects(cfg Config, zoneName string) []idf.Object {
	people := idf.NewObject("People",
		zoneName+"_People", zoneName, cfg.Name+"_Anwesenheit",
		"people", num(cfg.PeopleCount), "", "", "0.3", "", cfg.Name+"_Aktivitaet")
	annotate(&people, "Name", "Zone or ZoneList Name", "Number of People Schedule Name",
		"Number of People Calculation Method", "Number of People",
		"People per Zone Floor Area {person/m2}", "Zone Floor Area per Person {m2/person}",
		"Fraction Radiant", "Sensible Heat Fraction", "Activity Level Schedule Name")

	lights := idf.NewObject("Lights",
		zoneName+"_Lights", zoneName, cfg.Name+"_Beleuchtung",
		"LightingLevel", num(cfg.LightingPower), "", "",
		"0", "0.4", "0.2", "1.0", "General", "No")
	annotate(&lights, "Name", "Zone or ZoneList Name", "Schedule Name",
		"Design Level Calculation Method", "Lighting Level {W}",
		"Watts per Zone Floor Area {W/m2}", "Watts per Person {W/person}",
		"Return Air Fraction", "Fraction Radiant", "Fraction Visible",
		"Fraction Replaceable", "End-Use Subcategory",
		"Return Air Fraction Calculated from Plenum Temperature")

	equipment := idf.NewObject("ElectricEquipment",
		zoneName+"_Equipment", zoneName, cfg.Name+"_Geraete",
		"EquipmentLevel", num(cfg.EquipmentPower), "", "",
		"0", "0.3", "0", "General")
	annotate(&equipment, "Name", "Zone or ZoneList Name", "Schedule Name",
		"Design Level Calculation Method", "Design Level {W}",
		"Watts per Zone Floor Area {W/m2}", "Watts per Person {W/person}",
		"Fraction Latent", "Fraction Radiant", "Fraction Lost", "End-Use Subcategory")

	return []idf.Object{people, lights, equipment}
}

package library

import "strings"

// Material is a massive layer parsed from a Material record.
type Material struct {
	Name               string
	Thickness          float64 // m
	Conductivity       float64 // W/m-K
	Density            float64 // kg/m3
	SpecificHeat       float64 // J/kg-K
	ThermalAbsorptance float64
	SolarAbsorptance   float64
	VisibleAbsorptance float64
}

// Resistance returns the layer's thermal resistance in m²K/W, or 0 for a
// zero-conductivity layer.
func (m Material) Resistance() float64 {
	if m.Conductivity == 0 {
		return 0
	}
	return m.Thickness / m.Conductivity
}

// Inertia returns the areal heat capacity in kJ/m²K.
func (m Material) Inertia() float64 {
	return m.Density * m.SpecificHeat * m.Thickness / 1000.0
}

// Construction is an ordered layer stack parsed from a Construction record.
type Construction struct {
	Name     string
	Layers   []string
	UValue   float64 // W/m²K, 0 until computed
	Category string
}

// Construction and material categories used for limits and reporting.
const (
	CatExteriorWall = "Außenwand"
	CatRoof         = "Dach"
	CatGroundSlab   = "Bodenplatte"
	CatWindow       = "Fenster"
	CatInteriorWall = "Innenwand"
	CatUnknown      = "Unbekannt"
)

// CategorizeConstruction maps a construction name to its envelope category
// by keyword, following the library's German naming convention.
func CategorizeConstruction(name string) string {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "außenwand", "aussenwand", "fassade"):
		return CatExteriorWall
	case containsAny(n, "dach", "roof"):
		return CatRoof
	case containsAny(n, "boden", "bodenplatte", "fundament"):
		return CatGroundSlab
	case containsAny(n, "fenster", "window"):
		return CatWindow
	case containsAny(n, "innenwand", "trennwand"):
		return CatInteriorWall
	default:
		return CatUnknown
	}
}

// CategorizeMaterial maps a material name to a trade category for reports.
func CategorizeMaterial(name string) string {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "dämmung", "eps", "steinwolle", "pur", "zellulose"):
		return "Dämmstoffe"
	case containsAny(n, "ziegel", "beton", "porenbeton", "mauerwerk"):
		return "Mauerwerk"
	case containsAny(n, "holz", "bsh", "osb"):
		return "Holzwerkstoffe"
	case containsAny(n, "putz", "gips", "beschichtung"):
		return "Putze & Beschichtungen"
	case containsAny(n, "dach", "bitumen"):
		return "Dacheindeckung"
	default:
		return "Sonstige"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isAirLayerName reports whether an unresolved layer name denotes an air
// gap, which gets a flat resistance instead of a missing-material finding.
func isAirLayerName(name string) bool {
	return containsAny(strings.ToLower(name), "luft", "air", "gap")
}

package library

import (
	"fmt"
	"log/slog"
)

// Surface film resistances per ÖNORM B 8110-6: interior Rsi plus exterior
// Rse, added to every opaque layer stack.
const (
	filmResistance = 0.125 + 0.04 // m²K/W

	// airGapResistance is the flat value applied to unresolved layers
	// whose name marks them as an air layer.
	airGapResistance = 0.17
)

// UValue computes the thermal transmittance of a named construction in
// W/m²K and memoizes it on the construction.
//
// A construction containing a simple glazing system layer takes that
// system's U-factor directly; everything else is the reciprocal of the
// summed layer resistances plus the surface films. Unknown layers warn and
// contribute nothing, so a partially resolvable stack still yields a
// (optimistic) value; Validate reports the missing layers separately.
func (l *Library) UValue(name string) (float64, error) {
	con, ok := l.Constructions[name]
	if !ok {
		return 0, fmt.Errorf("construction %q not found", name)
	}

	for _, layer := range con.Layers {
		if u, ok := l.WindowU[layer]; ok {
			con.UValue = u
			l.Constructions[name] = con
			return u, nil
		}
	}

	total := filmResistance
	for _, layer := range con.Layers {
		switch {
		case l.Materials[layer].Name != "":
			m := l.Materials[layer]
			if m.Conductivity == 0 {
				slog.Warn("layer has zero conductivity, ignoring", "construction", name, "layer", layer)
				continue
			}
			total += m.Resistance()
		default:
			if r, ok := l.NoMassR[layer]; ok {
				total += r
			} else if isAirLayerName(layer) {
				total += airGapResistance
			} else {
				slog.Warn("layer material not found", "construction", name, "layer", layer)
			}
		}
	}

	if total <= 0 {
		return 0, fmt.Errorf("construction %q: total resistance is not positive", name)
	}

	u := 1.0 / total
	con.UValue = u
	l.Constructions[name] = con
	return u, nil
}

package results

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultDPI matches the resolution the report command uses when none is
// given.
const DefaultDPI = 150

// Plot renders a series as a PNG time-series chart. NaN samples are left
// out of the line.
func Plot(s *Series, title, ylabel, path string, dpi int) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Zeit"
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "01/02\n15:04"}

	pts := make(plotter.XYs, 0, len(s.Values))
	for i, v := range s.Values {
		if i >= len(s.Times) || math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Times[i].Unix()), Y: v})
	}
	if len(pts) == 0 {
		return fmt.Errorf("plot %s: series has no numeric samples", title)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot %s: %w", title, err)
	}
	p.Add(line)

	canvas := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(8*vg.Inch, 4*vg.Inch),
		vgimg.UseDPI(dpi),
	)}
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot %s: %w", title, err)
	}
	defer f.Close()
	if _, err := canvas.WriteTo(f); err != nil {
		return fmt.Errorf("plot %s: %w", title, err)
	}
	return nil
}

// PlotName builds the on-disk PNG name for a zone/variable pair.
func PlotName(zone, variable string) string {
	return SafeName(zone) + "__" + SafeName(variable) + ".png"
}

// DailyStatsName builds the daily statistics CSV name for a zone.
func DailyStatsName(zone string) string {
	return SafeName(zone) + "__ZoneAirTemperature_daily.csv"
}

// YLabel derives an axis label from the series: the unit in brackets when
// the source column carried one, the variable name otherwise.
func (s *Series) YLabel() string {
	if s.Unit != "" {
		return "[" + s.Unit + "]"
	}
	return s.Variable
}

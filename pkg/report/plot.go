package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// NewPlot builds a fitness chart with one line per series. Generations are
// numbered from one, shifted by each series' offset. Colors cycle through
// constants.Palette.
func NewPlot(title string, series []types.Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j].X = float64(s.Offset + j + 1)
			pts[j].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build series %q: %w", s.Name, err)
		}
		line.LineStyle.Color = PaletteColor(i)
		line.LineStyle.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

// PaletteColor returns the i-th palette color, wrapping around
func PaletteColor(i int) color.Color {
	palette := constants.Palette
	c, err := parseHexColor(palette[i%len(palette)])
	if err != nil {
		return color.Black
	}
	return c
}

// parseHexColor parses #rrggbb
func parseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color: %q", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color: %w", err)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

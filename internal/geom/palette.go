package geom

import (
	"math"

	"github.com/verte-zerg/flagball/internal/model"
)

// Palette holds every colour the builder emits.
type Palette struct {
	Background model.RGBA
	Foreground model.RGBA
	Shadow     model.RGBA
	Trail      []model.RGBA
}

// DefaultPalette returns the stock colours.
func DefaultPalette() Palette {
	return Palette{
		Background: model.Hex(0x193b59ff),
		Foreground: model.Hex(0xf2d2b6ff),
		Shadow:     model.Hex(0xf2ad94ff),
		Trail: []model.RGBA{
			model.Hex(0xf2ad9488),
			model.Hex(0xf2897288),
			model.Hex(0xbacac088),
		},
	}
}

// GradientAt maps step (1..steps) onto the colour stops and blends the two
// neighbouring stops. Out-of-range positions clamp to the end stops.
func GradientAt(stops []model.RGBA, step, steps int) model.RGBA {
	switch len(stops) {
	case 0:
		return model.RGBA{}
	case 1:
		return stops[0]
	}
	pos := 0.0
	if steps > 1 {
		pos = float64(step-1) / float64(steps-1) * float64(len(stops))
	}
	ci := int(math.Floor(pos))
	cf := pos - float64(ci)
	if ci < 0 {
		ci = 0
		cf = 0
	}
	if ci > len(stops)-2 {
		ci = len(stops) - 2
		cf = 1
	}
	return model.Mix(stops[ci], stops[ci+1], cf)
}

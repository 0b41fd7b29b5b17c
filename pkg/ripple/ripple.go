// Package ripple computes the visual state of a rainfall ripple.
//
// A ripple is a set of concentric rings whose radius, count and opacity encode
// one station's rainfall weight for one animation frame. All geometry lives in
// unit coordinates; the renderer scales to pixels. Everything here is a pure
// function of (weight, phase), which keeps frames deterministic.
package ripple

import (
	"math"

	"github.com/fogleman/ease"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Ring is one concentric circle of a ripple, radius in unit coordinates.
type Ring struct {
	Radius float64
	Alpha  float64
}

// State is the drawable ripple for one station on one frame.
type State struct {
	T     float64 // normalized intensity in [0,1]
	Rings []Ring
	Color colorful.Color
}

// Color ramp endpoints: light rain washes out pale, heavy rain saturates deep.
var (
	lightBlue = colorful.Color{R: 215.0 / 255, G: 238.0 / 255, B: 251.0 / 255}
	deepBlue  = colorful.Color{R: 11.0 / 255, G: 61.0 / 255, B: 145.0 / 255}
)

// Ring geometry constants, in unit coordinates.
const (
	minRings    = 3
	ringSpan    = 8 // extra rings at full intensity
	baseRadius  = 0.02
	radiusSpan  = 0.22
	ringSpacing = 0.02
	alphaDecay  = 0.55
	minAlpha    = 0.01
)

// MaxRadius is the clamp ceiling for the innermost ring's radius, reached at
// full intensity and peak phase.
const MaxRadius = baseRadius + radiusSpan*(0.7+0.6*1.0)

// Compute derives the ripple state for one station.
// weight is the station's rainfall weight (see Weights), phase in [0,1) is the
// sub-frame position within the day, and amp is the global amplification.
// A zero weight produces no rings at all: no rain, no ripple.
func Compute(weight, phase, amp float64) State {
	t := clamp01(weight * amp)
	if t == 0 {
		return State{}
	}

	pulse := 0.7 + 0.6*(0.5+0.5*math.Sin(2*math.Pi*phase))
	base := baseRadius + radiusSpan*t*pulse
	spacing := ringSpacing + ringSpacing*(1-t)

	n := minRings + int(math.Round(ringSpan*t))
	rings := make([]Ring, n)
	for i := range rings {
		fi := float64(i)
		wobble := 1 + 0.15*math.Sin(2*math.Pi*(phase+fi*0.08))
		rings[i] = Ring{
			Radius: base + fi*spacing*wobble,
			Alpha:  math.Max(minAlpha, math.Exp(-alphaDecay*fi)*(0.9*t+0.08)),
		}
	}

	return State{
		T:     t,
		Rings: rings,
		Color: lightBlue.BlendLab(deepBlue, ease.OutQuad(t)).Clamped(),
	}
}

// BaseRadius returns the innermost ring radius for the given weight at peak
// phase. Monotone non-decreasing in weight up to the clamp ceiling.
func BaseRadius(weight, amp float64) float64 {
	t := clamp01(weight * amp)
	return baseRadius + radiusSpan*t*(0.7+0.6)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package ripple

import (
	"math"

	"github.com/wkchan/rainripple/pkg/dataset"
)

// Blend factors for combining absolute rainfall with day-over-day change.
// Change is emphasized so a sudden shower reads louder than steady drizzle.
const (
	levelWeight = 0.6
	deltaWeight = 1.8
)

// Weights converts a rainfall table into per-day, per-station ripple weights.
//
// Each value and its absolute day-over-day delta are normalized against the
// global maxima, gamma-curved to amplify small differences, and blended:
//
//	w = 0.6*(v/vmax)^gamma + 1.8*(dv/dmax)^gamma
//
// The result is not clamped; Compute applies amplification and clamping.
func Weights(t *dataset.Table, gamma float64) [][]float64 {
	deltas := t.Deltas()

	vmax := t.Max()
	if vmax <= 0 {
		vmax = 1
	}
	dmax := 0.0
	for _, row := range deltas {
		for _, dv := range row {
			if dv > dmax {
				dmax = dv
			}
		}
	}
	if dmax <= 0 {
		dmax = 1
	}

	weights := make([][]float64, t.NumDays())
	for i := range weights {
		weights[i] = make([]float64, t.NumStations())
		for j := range weights[i] {
			nv := math.Pow(t.Value(i, j)/vmax, gamma)
			nd := math.Pow(deltas[i][j]/dmax, gamma)
			weights[i][j] = levelWeight*nv + deltaWeight*nd
		}
	}
	return weights
}

package ripple

import (
	"math"
	"testing"
	"time"

	"github.com/wkchan/rainripple/pkg/dataset"
)

func TestCompute_ZeroWeightNoRipple(t *testing.T) {
	s := Compute(0, 0.5, 6.0)
	if len(s.Rings) != 0 {
		t.Errorf("zero rainfall produced %d rings, want 0", len(s.Rings))
	}
	if s.T != 0 {
		t.Errorf("T = %v, want 0", s.T)
	}
}

func TestCompute_RadiusMonotoneInWeight(t *testing.T) {
	const amp = 6.0
	prev := -1.0
	for w := 0.0; w <= 0.3; w += 0.005 {
		r := BaseRadius(w, amp)
		if r < prev {
			t.Fatalf("BaseRadius decreased at weight %v: %v < %v", w, r, prev)
		}
		prev = r
	}
}

func TestCompute_RadiusClamped(t *testing.T) {
	for _, w := range []float64{1, 5, 1000, math.Inf(1)} {
		s := Compute(w, 0.25, 6.0) // phase 0.25 puts sin at its peak
		if len(s.Rings) == 0 {
			t.Fatalf("weight %v produced no rings", w)
		}
		if s.Rings[0].Radius > MaxRadius+1e-9 {
			t.Errorf("weight %v: inner radius %v exceeds ceiling %v", w, s.Rings[0].Radius, MaxRadius)
		}
	}
	// Saturated weights all hit the same ceiling
	a := Compute(10, 0.25, 6.0)
	b := Compute(1000, 0.25, 6.0)
	if a.Rings[0].Radius != b.Rings[0].Radius {
		t.Error("saturated weights should clamp to the same radius")
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute(0.4, 0.33, 6.0)
	b := Compute(0.4, 0.33, 6.0)

	if len(a.Rings) != len(b.Rings) {
		t.Fatal("ring counts differ between identical calls")
	}
	for i := range a.Rings {
		if a.Rings[i] != b.Rings[i] {
			t.Errorf("ring %d differs: %+v vs %+v", i, a.Rings[i], b.Rings[i])
		}
	}
	if a.Color != b.Color {
		t.Error("colors differ between identical calls")
	}
}

func TestCompute_RingStructure(t *testing.T) {
	s := Compute(1, 0, 1) // t = 1

	if got := len(s.Rings); got != minRings+ringSpan {
		t.Errorf("ring count = %d, want %d at full intensity", got, minRings+ringSpan)
	}
	// Alpha decays outward
	for i := 1; i < len(s.Rings); i++ {
		if s.Rings[i].Alpha > s.Rings[i-1].Alpha {
			t.Errorf("alpha increased at ring %d: %v > %v", i, s.Rings[i].Alpha, s.Rings[i-1].Alpha)
		}
	}
	for i, r := range s.Rings {
		if r.Alpha < minAlpha {
			t.Errorf("ring %d alpha %v below floor", i, r.Alpha)
		}
	}
}

func TestCompute_MoreRainMoreColor(t *testing.T) {
	light := Compute(0.05, 0, 1)
	heavy := Compute(1, 0, 1)

	// Heavier rain blends toward the deep blue (lower R, lower G).
	if heavy.Color.R >= light.Color.R {
		t.Errorf("heavy R %v should be below light R %v", heavy.Color.R, light.Color.R)
	}
}

func TestWeights(t *testing.T) {
	tbl := dataset.NewTable(
		[]time.Time{date("2026-08-01"), date("2026-08-02")},
		[]string{"A", "B"},
		[][]float64{
			{0, 10},
			{10, 10},
		},
	)

	w := Weights(tbl, 1.5)

	if len(w) != 2 || len(w[0]) != 2 {
		t.Fatalf("weights shape = %dx%d, want 2x2", len(w), len(w[0]))
	}
	// Dry cell on a dry-history station: weight 0
	if w[0][0] != 0 {
		t.Errorf("w[0][0] = %v, want 0", w[0][0])
	}
	// Station A jumps 0→10: max delta and max value, both terms saturate
	if got, want := w[1][0], levelWeight+deltaWeight; math.Abs(got-want) > 1e-9 {
		t.Errorf("w[1][0] = %v, want %v", got, want)
	}
	// Station B holds steady at the max: level term only
	if got, want := w[1][1], levelWeight; math.Abs(got-want) > 1e-9 {
		t.Errorf("w[1][1] = %v, want %v", got, want)
	}
}

func TestWeights_AllZero(t *testing.T) {
	tbl := dataset.NewTable(
		[]time.Time{date("2026-08-01")},
		[]string{"A"},
		[][]float64{{0}},
	)
	w := Weights(tbl, 1.5)
	if w[0][0] != 0 {
		t.Errorf("all-zero table weight = %v, want 0", w[0][0])
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

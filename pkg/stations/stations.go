// Package stations resolves display positions for rainfall stations.
//
// Every station observed in the dataset must map to a fixed position on the
// unit square. Positions come from an optional TOML table for curated layouts;
// any station without an entry falls back to a deterministic position derived
// from the SHA-1 of its name, so resolution is total and stable across runs.
package stations

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// Station is a rainfall station with a fixed display position.
// X and Y are unit coordinates: (0,0) bottom-left, (1,1) top-right.
type Station struct {
	Name string
	X    float64
	Y    float64
}

// edgeMargin keeps hashed positions away from the canvas border so ripples
// and labels stay visible.
const edgeMargin = 0.02

// HashedPosition derives a deterministic unit position from a station name.
// The first 8 hex digits of sha1(name) become x, the next 8 become y, each
// taken mod 1000 and scaled into [0,1], then clamped to the edge margin.
func HashedPosition(name string) (x, y float64) {
	sum := sha1.Sum([]byte(name))
	hsh := hex.EncodeToString(sum[:])
	x = hexUnit(hsh[:8])
	y = hexUnit(hsh[8:16])
	return clampUnit(x), clampUnit(y)
}

func hexUnit(s string) float64 {
	n, _ := strconv.ParseUint(s, 16, 64)
	return float64(n%1000) / 1000
}

func clampUnit(v float64) float64 {
	if v < edgeMargin {
		return edgeMargin
	}
	if v > 1-edgeMargin {
		return 1 - edgeMargin
	}
	return v
}

// Registry resolves station names to positioned Stations.
type Registry struct {
	overrides map[string]position
}

type position struct {
	x, y float64
}

// NewRegistry creates a registry with no overrides; every position is hashed.
func NewRegistry() *Registry {
	return &Registry{overrides: map[string]position{}}
}

// Resolve maps the given station names to positioned Stations, preserving
// order. Names with a configured override use it; the rest hash.
func (r *Registry) Resolve(names []string) []Station {
	out := make([]Station, len(names))
	for i, name := range names {
		if p, ok := r.overrides[name]; ok {
			out[i] = Station{Name: name, X: p.x, Y: p.y}
			continue
		}
		x, y := HashedPosition(name)
		out[i] = Station{Name: name, X: x, Y: y}
	}
	return out
}

// Overridden reports whether a station has a configured position.
func (r *Registry) Overridden(name string) bool {
	_, ok := r.overrides[name]
	return ok
}

// Package render draws ripple animation frames onto an RGBA canvas.
//
// The renderer owns everything visual: the background wash, the ripple rings,
// station labels, title and date overlays. It is deliberately free of wall
// clocks and random state so that identical inputs produce byte-identical
// frames.
package render

import (
	"image"
	"image/color"
	"sort"

	"github.com/fogleman/gg"

	"github.com/wkchan/rainripple/pkg/ripple"
	"github.com/wkchan/rainripple/pkg/stations"
)

// Renderer draws frames for a fixed station layout at a fixed resolution.
type Renderer struct {
	size      int
	stations  []stations.Station
	amp       float64
	maxLabels int
	title     string
	fonts     *FontSet
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFonts supplies the font set for label/title/date overlays.
// Without fonts the renderer draws ripples only.
func WithFonts(f *FontSet) Option {
	return func(r *Renderer) { r.fonts = f }
}

// WithTitle sets the title drawn top-center on every frame.
func WithTitle(title string) Option {
	return func(r *Renderer) { r.title = title }
}

// WithAmp sets the global weight amplification.
func WithAmp(amp float64) Option {
	return func(r *Renderer) { r.amp = amp }
}

// WithMaxLabels caps how many station labels are drawn, ranked by weight.
func WithMaxLabels(n int) Option {
	return func(r *Renderer) { r.maxLabels = n }
}

// New creates a renderer for a size×size canvas over the given stations.
func New(size int, sts []stations.Station, opts ...Option) *Renderer {
	r := &Renderer{
		size:      size,
		stations:  sts,
		amp:       1.0,
		maxLabels: 40,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size returns the canvas edge length in pixels.
func (r *Renderer) Size() int { return r.size }

// Background colors: deep navy fading to near-black, echoing a night sky over
// the harbour.
var (
	bgTop    = color.RGBA{R: 10, G: 18, B: 40, A: 255}
	bgBottom = color.RGBA{R: 3, G: 6, B: 14, A: 255}
)

// DrawFrame renders one frame. weights holds one ripple weight per station
// (same order as the renderer's station slice), phase in [0,1) is the
// sub-frame position within the day, dateText is drawn bottom-left.
func (r *Renderer) DrawFrame(weights []float64, phase float64, dateText string) *image.RGBA {
	dc := gg.NewContext(r.size, r.size)
	r.drawBackground(dc)

	for i, st := range r.stations {
		if i >= len(weights) {
			break
		}
		r.drawRipple(dc, st, ripple.Compute(weights[i], phase, r.amp))
	}

	if r.fonts != nil {
		r.drawLabels(dc, weights)
		r.drawTitle(dc)
		r.drawDate(dc, dateText)
	}

	return dc.Image().(*image.RGBA)
}

// LabelPosition returns the pixel anchor of a station's label. It depends
// only on the station position and canvas size, never on the frame, which is
// what keeps labels pinned across the animation.
func (r *Renderer) LabelPosition(st stations.Station) (x, y float64) {
	s := r.scale()
	px, py := r.toPixels(st.X, st.Y)
	return px + 8*s, py - 8*s
}

func (r *Renderer) scale() float64 {
	return float64(r.size) / 900.0
}

// toPixels maps unit coordinates (y up) to pixel coordinates (y down).
func (r *Renderer) toPixels(x, y float64) (px, py float64) {
	return x * float64(r.size), (1 - y) * float64(r.size)
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	h := float64(r.size)
	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, bgTop)
	grad.AddColorStop(1, bgBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, h, h)
	dc.Fill()

	// Faint horizontal wash for depth.
	band := gg.NewLinearGradient(0, 0, h, 0)
	band.AddColorStop(0, color.RGBA{R: 30, G: 60, B: 110, A: 18})
	band.AddColorStop(0.5, color.RGBA{A: 0})
	band.AddColorStop(1, color.RGBA{R: 20, G: 40, B: 90, A: 14})
	dc.SetFillStyle(band)
	dc.DrawRectangle(0, 0, h, h)
	dc.Fill()
}

// drawRipple paints the rings innermost first so the brightest core sits on
// top of the fading halo.
func (r *Renderer) drawRipple(dc *gg.Context, st stations.Station, state ripple.State) {
	if len(state.Rings) == 0 {
		return
	}
	px, py := r.toPixels(st.X, st.Y)
	c := state.Color

	for i := len(state.Rings) - 1; i >= 0; i-- {
		ring := state.Rings[i]
		dc.SetRGBA(c.R, c.G, c.B, ring.Alpha)
		dc.DrawCircle(px, py, ring.Radius*float64(r.size))
		dc.FillPreserve()
		dc.SetLineWidth(1.2 * r.scale())
		dc.Stroke()
	}
}

// drawLabels writes the top-ranked station names. Shadow first, then the
// light text one pixel up-left, matching the crisp-over-blur look of the
// source material.
func (r *Renderer) drawLabels(dc *gg.Context, weights []float64) {
	if r.maxLabels <= 0 {
		return
	}

	type ranked struct {
		idx    int
		weight float64
	}
	order := make([]ranked, 0, len(r.stations))
	for i := range r.stations {
		w := 0.0
		if i < len(weights) {
			w = weights[i]
		}
		order = append(order, ranked{idx: i, weight: w})
	}
	sort.SliceStable(order, func(a, b int) bool { return order[a].weight > order[b].weight })

	n := r.maxLabels
	if n > len(order) {
		n = len(order)
	}

	dc.SetFontFace(r.fonts.Label)
	for _, rk := range order[:n] {
		st := r.stations[rk.idx]
		fx, fy := r.LabelPosition(st)
		dc.SetRGBA(0, 0, 0, 200.0/255)
		dc.DrawString(st.Name, fx+1, fy+1)
		dc.SetRGBA(220.0/255, 235.0/255, 255.0/255, 230.0/255)
		dc.DrawString(st.Name, fx, fy)
	}
}

func (r *Renderer) drawTitle(dc *gg.Context) {
	if r.title == "" {
		return
	}
	s := r.scale()
	dc.SetFontFace(r.fonts.Title)
	w, h := dc.MeasureString(r.title)
	x := (float64(r.size) - w) / 2
	y := 12*s + h

	dc.SetRGBA(0, 0, 0, 200.0/255)
	dc.DrawString(r.title, x+2, y+2)
	dc.SetRGBA(230.0/255, 245.0/255, 255.0/255, 1)
	dc.DrawString(r.title, x, y)
}

func (r *Renderer) drawDate(dc *gg.Context, dateText string) {
	if dateText == "" {
		return
	}
	s := r.scale()
	dc.SetFontFace(r.fonts.Date)
	x := 18 * s
	y := float64(r.size) - 18*s

	dc.SetRGBA(0, 0, 0, 200.0/255)
	dc.DrawString(dateText, x+2, y+2)
	dc.SetRGBA(220.0/255, 235.0/255, 255.0/255, 1)
	dc.DrawString(dateText, x, y)
}

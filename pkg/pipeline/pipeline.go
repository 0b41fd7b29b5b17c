// Package pipeline provides the core rendering pipeline for rainripple.
//
// This package implements the complete load → window → render → encode flow
// shared by the render and preview commands. Centralizing it keeps behavior
// identical across entry points and gives the artifact cache a single seam.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{Formats: []string{"gif", "mp4"}}
//	opts.SetDefaults()
//	result, err := runner.Run(ctx, csvBytes, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gif := result.Artifacts["gif"]
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/wkchan/rainripple/pkg/encode"
	"github.com/wkchan/rainripple/pkg/errors"
)

// Default render parameters.
const (
	// DefaultSize is the canvas edge length in pixels.
	DefaultSize = 1600

	// DefaultDays is the animation window length.
	DefaultDays = 30

	// DefaultFramesPerDay is the number of sub-frames interpolating one day.
	DefaultFramesPerDay = 6

	// DefaultFPS is the playback frame rate.
	DefaultFPS = 8

	// DefaultGamma amplifies small rainfall differences.
	DefaultGamma = 1.5

	// DefaultAmp is the global weight amplification.
	DefaultAmp = 6.0

	// DefaultMaxLabels caps the station labels drawn per frame.
	DefaultMaxLabels = 40

	// DefaultTitle is drawn top-center on every frame.
	DefaultTitle = "香港各区降水量"
)

// ValidFormats is the set of supported animation output formats.
var ValidFormats = map[string]bool{
	encode.FormatGIF:  true,
	encode.FormatMP4:  true,
	encode.FormatWebM: true,
	encode.FormatPNG:  true,
}

// Options configures a pipeline run.
type Options struct {
	// Render options
	Size         int
	Days         int
	FramesPerDay int
	FPS          int
	Gamma        float64
	Amp          float64

	// MaxLabels caps the station labels drawn per frame. Zero means the
	// default; set NoLabels to render without labels.
	MaxLabels int
	NoLabels  bool

	// Title is drawn top-center. Empty means the default; set NoTitle to
	// render without a title.
	Title   string
	NoTitle bool

	// StationsFile optionally points at a TOML station-position table.
	StationsFile string

	// Formats selects the encoded outputs (gif, mp4, webm, png).
	Formats []string

	// Today anchors the window fill for short datasets. Zero means now;
	// tests pin it for determinism.
	Today time.Time
}

// SetDefaults fills zero-valued fields with the standard render parameters.
func (o *Options) SetDefaults() {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Days == 0 {
		o.Days = DefaultDays
	}
	if o.FramesPerDay == 0 {
		o.FramesPerDay = DefaultFramesPerDay
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.Gamma == 0 {
		o.Gamma = DefaultGamma
	}
	if o.Amp == 0 {
		o.Amp = DefaultAmp
	}
	if o.NoLabels {
		o.MaxLabels = 0
	} else if o.MaxLabels == 0 {
		o.MaxLabels = DefaultMaxLabels
	}
	if o.NoTitle {
		o.Title = ""
	} else if o.Title == "" {
		o.Title = DefaultTitle
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{encode.FormatGIF}
	}
	if o.Today.IsZero() {
		o.Today = time.Now()
	}
}

// Validate checks option ranges. Call after SetDefaults.
func (o *Options) Validate() error {
	if o.Size < 16 {
		return errors.New(errors.ErrCodeInvalidOptions, "size %d too small", o.Size)
	}
	if o.Days < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "days must be positive, got %d", o.Days)
	}
	if o.FramesPerDay < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "frames-per-day must be positive, got %d", o.FramesPerDay)
	}
	if o.FPS < 1 || o.FPS > 100 {
		return errors.New(errors.ErrCodeInvalidOptions, "fps must be in 1..100, got %d", o.FPS)
	}
	if o.Gamma <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "gamma must be positive, got %g", o.Gamma)
	}
	if o.Amp <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "amp must be positive, got %g", o.Amp)
	}
	if o.MaxLabels < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "max-labels must not be negative, got %d", o.MaxLabels)
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %s (must be 'gif', 'mp4', 'webm', or 'png')", f)
		}
	}
	return nil
}

// FrameCount returns the exact number of frames a run produces.
func (o *Options) FrameCount() int {
	return o.Days * o.FramesPerDay
}

// fingerprint serializes every option that influences rendered pixels, for
// use in artifact cache keys. stationCfg is the raw TOML table (nil when no
// table is in use). Formats are deliberately excluded: each format keys its
// own entry.
func (o *Options) fingerprint(stationCfgHash string) string {
	return strings.Join([]string{
		fmt.Sprintf("size=%d", o.Size),
		fmt.Sprintf("days=%d", o.Days),
		fmt.Sprintf("fpd=%d", o.FramesPerDay),
		fmt.Sprintf("fps=%d", o.FPS),
		fmt.Sprintf("gamma=%g", o.Gamma),
		fmt.Sprintf("amp=%g", o.Amp),
		fmt.Sprintf("labels=%d", o.MaxLabels),
		fmt.Sprintf("title=%s", o.Title),
		fmt.Sprintf("stations=%s", stationCfgHash),
	}, ";")
}

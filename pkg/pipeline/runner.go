package pipeline

import (
	"bytes"
	"context"
	"image"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wkchan/rainripple/pkg/cache"
	"github.com/wkchan/rainripple/pkg/dataset"
	"github.com/wkchan/rainripple/pkg/encode"
	"github.com/wkchan/rainripple/pkg/errors"
	"github.com/wkchan/rainripple/pkg/render"
	"github.com/wkchan/rainripple/pkg/ripple"
	"github.com/wkchan/rainripple/pkg/stations"
)

// Runner executes the rendering pipeline with caching and logging.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching; a nil
// logger falls back to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cache: c, logger: logger}
}

// Stats carries timing information for a run.
type Stats struct {
	LoadTime   time.Duration
	RenderTime time.Duration
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dates is the selected animation window.
	Dates []time.Time

	// Stations is the resolved station layout.
	Stations []stations.Station

	// Frames is the number of frames rendered (days × frames-per-day).
	Frames int

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Cached records which formats were served from the artifact cache.
	Cached map[string]bool

	// Stats contains timing information.
	Stats Stats
}

// Run executes the full pipeline over raw CSV bytes.
func (r *Runner) Run(ctx context.Context, csv []byte, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	registry, cfgHash, err := loadRegistry(opts.StationsFile)
	if err != nil {
		return nil, err
	}
	fingerprint := opts.fingerprint(cfgHash)

	// Answer from the cache where possible.
	result := &Result{
		Artifacts: map[string][]byte{},
		Cached:    map[string]bool{},
	}
	var pending []string
	for _, format := range opts.Formats {
		key := cache.ArtifactKey(csv, fingerprint, format)
		if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			r.logger.Debugf("Cache hit for %s", format)
			result.Artifacts[format] = data
			result.Cached[format] = true
			continue
		}
		pending = append(pending, format)
	}

	loadStart := time.Now()
	table, err := dataset.ReadCSV(bytes.NewReader(csv))
	if err != nil {
		return nil, err
	}
	window := table.Window(opts.Days, opts.Today)
	result.Dates = window.Dates()
	result.Stations = registry.Resolve(window.Stations())
	result.Frames = opts.FrameCount()
	result.Stats.LoadTime = time.Since(loadStart)

	r.logger.Infof("Loaded %d days × %d stations (window of %d input rows)",
		window.NumDays(), window.NumStations(), table.NumDays())

	if len(pending) == 0 {
		r.logger.Info("All artifacts cached, skipping render")
		return result, nil
	}

	renderer, err := r.newRenderer(result.Stations, opts)
	if err != nil {
		return nil, err
	}

	writers, err := r.newWriters(ctx, window, pending, opts)
	if err != nil {
		return nil, err
	}
	// Release encoder resources (ffmpeg children, temp files) when the frame
	// loop aborts early. Close is idempotent, so the happy path just no-ops.
	defer func() {
		for _, w := range writers {
			_, _ = w.Close()
		}
	}()

	renderStart := time.Now()
	r.logger.Infof("Rendering %d frames at %dx%d", opts.FrameCount(), opts.Size, opts.Size)

	weights := ripple.Weights(window, opts.Gamma)
	frame := 0
	for day := 0; day < window.NumDays(); day++ {
		dateText := window.Dates()[day].Format("2006-01-02")
		for sub := 0; sub < opts.FramesPerDay; sub++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			phase := float64(sub) / float64(opts.FramesPerDay)
			img := renderer.DrawFrame(weights[day], phase, dateText)
			for _, w := range writers {
				if err := w.WriteFrame(img); err != nil {
					return nil, err
				}
			}
			frame++
		}
		r.logger.Debugf("Rendered day %s (%d/%d frames)", dateText, frame, opts.FrameCount())
	}
	result.Stats.RenderTime = time.Since(renderStart)

	for _, format := range pending {
		data, err := writers[format].Close()
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = data
		r.logger.Infof("Encoded %s (%d bytes)", format, len(data))

		key := cache.ArtifactKey(csv, fingerprint, format)
		if err := r.cache.Set(ctx, key, data, 0); err != nil {
			r.logger.Warnf("Failed to cache %s artifact: %v", format, err)
		}
	}

	r.logger.Infof("Render complete (%s)", result.Stats.RenderTime.Round(time.Millisecond))
	return result, nil
}

// newRenderer builds the frame renderer, loading fonts only when any text
// will actually be drawn.
func (r *Runner) newRenderer(sts []stations.Station, opts Options) (*render.Renderer, error) {
	renderOpts := []render.Option{
		render.WithAmp(opts.Amp),
		render.WithMaxLabels(opts.MaxLabels),
		render.WithTitle(opts.Title),
	}
	if opts.MaxLabels > 0 || opts.Title != "" {
		fonts, err := render.LoadFonts(opts.Size, render.DefaultLabelPoints)
		if err != nil {
			return nil, err
		}
		renderOpts = append(renderOpts, render.WithFonts(fonts))
	}
	return render.New(opts.Size, sts, renderOpts...), nil
}

// newWriters creates one frame writer per pending format. On error, writers
// already constructed are closed so their temp files do not outlive the call.
func (r *Runner) newWriters(ctx context.Context, window *dataset.Table, formats []string, opts Options) (_ map[string]encode.FrameWriter, err error) {
	writers := make(map[string]encode.FrameWriter, len(formats))
	defer func() {
		if err != nil {
			for _, w := range writers {
				_, _ = w.Close()
			}
		}
	}()

	for _, format := range formats {
		switch format {
		case encode.FormatGIF:
			writers[format] = encode.NewGIF(opts.FPS)
		case encode.FormatMP4:
			w, err := encode.NewMP4(ctx, opts.Size, opts.Size, opts.FPS)
			if err != nil {
				return nil, err
			}
			writers[format] = w
		case encode.FormatWebM:
			w, err := encode.NewWebM(ctx, opts.Size, opts.Size, opts.FPS)
			if err != nil {
				return nil, err
			}
			writers[format] = w
		case encode.FormatPNG:
			writers[format] = newStillWriter(stillFrameIndex(window, opts.FramesPerDay))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s", format)
		}
	}
	return writers, nil
}

// stillFrameIndex picks the frame the PNG format captures: the mid-phase
// sub-frame of the wettest day in the window.
func stillFrameIndex(window *dataset.Table, framesPerDay int) int {
	day := wettestDay(window)
	return day*framesPerDay + framesPerDay/2
}

// wettestDay returns the index of the day with the highest total rainfall.
func wettestDay(window *dataset.Table) int {
	best, bestTotal := 0, -1.0
	for i := 0; i < window.NumDays(); i++ {
		if total := window.DayTotal(i); total > bestTotal {
			best, bestTotal = i, total
		}
	}
	return best
}

// stillWriter is a FrameWriter that keeps exactly one frame of the stream
// and encodes it as PNG.
type stillWriter struct {
	target  int
	current int
	img     *image.RGBA
	closed  bool
}

func newStillWriter(target int) *stillWriter {
	return &stillWriter{target: target}
}

func (w *stillWriter) WriteFrame(img *image.RGBA) error {
	if w.current == w.target || w.img == nil {
		w.img = img
	}
	w.current++
	return nil
}

func (w *stillWriter) Close() ([]byte, error) {
	if w.closed {
		return nil, nil
	}
	w.closed = true

	if w.img == nil {
		return nil, errors.New(errors.ErrCodeEncodeFailed, "no frames to encode")
	}
	return encode.PNG(w.img)
}

// loadRegistry builds the station registry, hashing the raw config bytes for
// cache keying. No config file means hashed positions only.
func loadRegistry(path string) (*stations.Registry, string, error) {
	if path == "" {
		return stations.NewRegistry(), "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "station table %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "station table %s", path)
	}
	registry, err := stations.ParseConfig(data)
	if err != nil {
		return nil, "", err
	}
	return registry, cache.Hash(data), nil
}

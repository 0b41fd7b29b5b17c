package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/wkchan/rainripple/pkg/dataset"
	"github.com/wkchan/rainripple/pkg/encode"
	"github.com/wkchan/rainripple/pkg/render"
	"github.com/wkchan/rainripple/pkg/ripple"
)

// ThumbnailWidth is the pixel width of the preview's companion thumbnail.
const ThumbnailWidth = 400

// Preview is a labeled still of the wettest day in the window.
type Preview struct {
	PNG       []byte
	Thumbnail []byte
	Date      time.Time
}

// RenderPreview renders a single labeled frame: the mid-phase sub-frame of
// the wettest day. Unlike Run, labels are always drawn (at the larger preview
// size), so a missing font is an error here.
func (r *Runner) RenderPreview(ctx context.Context, csv []byte, opts Options) (*Preview, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	registry, _, err := loadRegistry(opts.StationsFile)
	if err != nil {
		return nil, err
	}

	table, err := dataset.ReadCSV(bytes.NewReader(csv))
	if err != nil {
		return nil, err
	}
	window := table.Window(opts.Days, opts.Today)

	day := wettestDay(window)
	date := window.Dates()[day]
	r.logger.Infof("Previewing %s (%d stations)", date.Format("2006-01-02"), window.NumStations())

	fonts, err := render.LoadFonts(opts.Size, render.PreviewLabelPoints)
	if err != nil {
		return nil, err
	}

	renderer := render.New(opts.Size, registry.Resolve(window.Stations()),
		render.WithAmp(opts.Amp),
		render.WithMaxLabels(opts.MaxLabels),
		render.WithTitle(opts.Title),
		render.WithFonts(fonts),
	)

	weights := ripple.Weights(window, opts.Gamma)
	img := renderer.DrawFrame(weights[day], 0.5, date.Format("2006-01-02"))

	png, err := encode.PNG(img)
	if err != nil {
		return nil, err
	}
	thumb, err := encode.Thumbnail(img, ThumbnailWidth)
	if err != nil {
		return nil, err
	}

	return &Preview{PNG: png, Thumbnail: thumb, Date: date}, nil
}

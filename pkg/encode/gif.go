package encode

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"

	"github.com/wkchan/rainripple/pkg/errors"
)

// GIFWriter encodes frames into a looping animated GIF.
// Frames are quantized onto the Plan 9 palette with Floyd-Steinberg
// dithering, which keeps the deep-blue gradients from banding.
type GIFWriter struct {
	delay  int // per-frame delay in 1/100s
	frames []*image.Paletted
	bounds image.Rectangle
	closed bool
}

// NewGIF creates a GIF encoder running at the given frame rate.
func NewGIF(fps int) *GIFWriter {
	if fps <= 0 {
		fps = 8
	}
	return &GIFWriter{delay: 100 / fps}
}

// WriteFrame quantizes and appends one frame.
func (w *GIFWriter) WriteFrame(img *image.RGBA) error {
	if len(w.frames) == 0 {
		w.bounds = img.Bounds()
	} else if img.Bounds() != w.bounds {
		return errors.New(errors.ErrCodeEncodeFailed,
			"frame bounds %v do not match first frame %v", img.Bounds(), w.bounds)
	}

	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, img.Bounds(), img, image.Point{})
	w.frames = append(w.frames, p)
	return nil
}

// Close encodes the accumulated frames as an endlessly looping GIF.
func (w *GIFWriter) Close() ([]byte, error) {
	if w.closed {
		return nil, nil
	}
	w.closed = true

	if len(w.frames) == 0 {
		return nil, errors.New(errors.ErrCodeEncodeFailed, "no frames to encode")
	}

	out := &gif.GIF{LoopCount: 0}
	for _, f := range w.frames {
		out.Image = append(out.Image, f)
		out.Delay = append(out.Delay, w.delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "GIF encode")
	}
	return buf.Bytes(), nil
}

var _ FrameWriter = (*GIFWriter)(nil)

package encode

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/wkchan/rainripple/pkg/errors"
)

// PNG encodes a single frame as a PNG still.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "PNG encode")
	}
	return buf.Bytes(), nil
}

// Thumbnail downscales a frame to the given width (height follows the aspect
// ratio) and encodes it as PNG. Used for the preview's small companion image.
func Thumbnail(img image.Image, width int) ([]byte, error) {
	small := imaging.Resize(img, width, 0, imaging.Lanczos)
	return PNG(small)
}

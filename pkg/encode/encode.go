// Package encode turns rendered frames into animation artifacts.
//
// Encoders implement FrameWriter so the pipeline can render each frame once
// and fan it out to every requested format without holding the whole
// animation in memory (the GIF encoder necessarily accumulates paletted
// frames; the video encoders stream into ffmpeg as they go).
package encode

import "image"

// FrameWriter consumes frames one at a time and produces an encoded artifact.
type FrameWriter interface {
	// WriteFrame appends one frame. All frames must share the same bounds.
	WriteFrame(img *image.RGBA) error

	// Close finalizes the artifact, releases any held resources (child
	// processes, temp files) and returns the encoded bytes. Close is
	// idempotent: calls after the first return (nil, nil), so callers can
	// defer a blanket Close to guarantee cleanup on aborted runs.
	Close() ([]byte, error)
}

// Format names as used on the CLI and as output file extensions.
const (
	FormatGIF  = "gif"
	FormatMP4  = "mp4"
	FormatWebM = "webm"
	FormatPNG  = "png"
)

package encode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"

	"github.com/wkchan/rainripple/pkg/errors"
)

// FFmpegWriter streams raw RGBA frames into an ffmpeg process.
// The MP4 and WebM containers both need seekable output, so ffmpeg writes to
// a temp file that is read back and removed on Close.
type FFmpegWriter struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *bytes.Buffer
	outPath string
	width   int
	height  int
	started bool
	closed  bool
	codec   string
}

// NewMP4 creates an H.264 MP4 encoder for width×height frames at fps.
func NewMP4(ctx context.Context, width, height, fps int) (*FFmpegWriter, error) {
	return newFFmpeg(ctx, width, height, fps, "libx264", "mp4",
		"-pix_fmt", "yuv420p", "-movflags", "+faststart")
}

// NewWebM creates a VP9 WebM encoder for width×height frames at fps.
func NewWebM(ctx context.Context, width, height, fps int) (*FFmpegWriter, error) {
	return newFFmpeg(ctx, width, height, fps, "libvpx-vp9", "webm",
		"-pix_fmt", "yuv420p", "-b:v", "0", "-crf", "32")
}

// newFFmpeg sets up the process. ffmpeg itself is started lazily on the first
// frame so that constructing writers for a fully cached run spawns nothing.
func newFFmpeg(ctx context.Context, width, height, fps int, codec, container string, codecArgs ...string) (*FFmpegWriter, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.New(errors.ErrCodeEncodeFailed,
			"%s export requires ffmpeg. Install with:\n  macOS:  brew install ffmpeg\n  Linux:  apt install ffmpeg", container)
	}

	tmp, err := os.CreateTemp("", "rainripple-*."+container)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "create temp output")
	}
	outPath := tmp.Name()
	tmp.Close()

	args := ffmpegArgs(width, height, fps, codec, codecArgs, outPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.Remove(outPath)
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "ffmpeg stdin")
	}

	return &FFmpegWriter{
		cmd:     cmd,
		stdin:   stdin,
		stderr:  stderr,
		outPath: outPath,
		width:   width,
		height:  height,
		codec:   codec,
	}, nil
}

// ffmpegArgs builds the full argument list: rawvideo RGBA on stdin, encoded
// container at outPath.
func ffmpegArgs(width, height, fps int, codec string, codecArgs []string, outPath string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-c:v", codec,
	}
	args = append(args, codecArgs...)
	return append(args, outPath)
}

// WriteFrame streams one frame's pixels into ffmpeg.
func (w *FFmpegWriter) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return errors.New(errors.ErrCodeEncodeFailed,
			"frame is %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}

	if !w.started {
		if err := w.cmd.Start(); err != nil {
			return errors.Wrap(errors.ErrCodeEncodeFailed, err, "start ffmpeg")
		}
		w.started = true
	}

	// Write row by row in case the stride carries padding.
	rowLen := w.width * 4
	for y := 0; y < w.height; y++ {
		off := y * img.Stride
		if _, err := w.stdin.Write(img.Pix[off : off+rowLen]); err != nil {
			return errors.Wrap(errors.ErrCodeEncodeFailed, err, "ffmpeg (%s): %s", w.codec, w.stderr.String())
		}
	}
	return nil
}

// Close finishes the stream, waits for ffmpeg, removes the temp output and
// returns the container bytes. Closing stdin is what unblocks the child, so
// Close doubles as the abort path for runs that stop mid-stream.
func (w *FFmpegWriter) Close() ([]byte, error) {
	if w.closed {
		return nil, nil
	}
	w.closed = true
	defer os.Remove(w.outPath)

	if !w.started {
		w.stdin.Close()
		return nil, errors.New(errors.ErrCodeEncodeFailed, "no frames to encode")
	}
	if err := w.stdin.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "close ffmpeg stdin")
	}
	if err := w.cmd.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "ffmpeg (%s): %s", w.codec, w.stderr.String())
	}

	data, err := os.ReadFile(w.outPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "read ffmpeg output")
	}
	return data, nil
}

var _ FrameWriter = (*FFmpegWriter)(nil)

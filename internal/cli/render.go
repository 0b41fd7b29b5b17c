package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wkchan/rainripple/pkg/encode"
	"github.com/wkchan/rainripple/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple formats)
	formats   []string // output formats: "gif", "mp4", "webm", "png"
	size      int      // square canvas size in pixels
	days      int      // trailing window length in days
	framesPer int      // animation frames per day
	fps       int      // playback frame rate
	gamma     float64  // weight curve exponent
	amp       float64  // global ripple amplification
	maxLabels int      // station label cap (0 disables labels)
	title     string   // title drawn top-center
	stations  string   // optional station position TOML file
	noCache   bool     // bypass the artifact cache
}

// renderCommand creates the render command for animating a rainfall CSV.
//
// Default settings mirror pipeline defaults:
//   - size: 1600px, 30-day window, 6 frames per day at 8 fps
//   - gamma: 1.5, amp: 6.0, up to 40 station labels
//   - format: gif
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		size:      pipeline.DefaultSize,
		days:      pipeline.DefaultDays,
		framesPer: pipeline.DefaultFramesPerDay,
		fps:       pipeline.DefaultFPS,
		gamma:     pipeline.DefaultGamma,
		amp:       pipeline.DefaultAmp,
		maxLabels: pipeline.DefaultMaxLabels,
		title:     pipeline.DefaultTitle,
	}

	cmd := &cobra.Command{
		Use:   "render [csv]",
		Short: "Animate a rainfall CSV as raindrop ripples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): gif (default), mp4, webm, png (comma-separated)")
	cmd.Flags().IntVar(&opts.size, "size", opts.size, "canvas size in pixels (square)")
	cmd.Flags().IntVar(&opts.days, "days", opts.days, "number of trailing days to animate")
	cmd.Flags().IntVar(&opts.framesPer, "frames-per-day", opts.framesPer, "animation frames per day")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "playback frame rate")
	cmd.Flags().Float64Var(&opts.gamma, "gamma", opts.gamma, "weight curve exponent")
	cmd.Flags().Float64Var(&opts.amp, "amp", opts.amp, "global ripple amplification")
	cmd.Flags().IntVar(&opts.maxLabels, "max-labels", opts.maxLabels, "maximum station labels per frame (0 disables)")
	cmd.Flags().StringVar(&opts.title, "title", opts.title, "title drawn top-center (empty disables)")
	cmd.Flags().StringVar(&opts.stations, "stations", "", "TOML file with station position overrides")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// runRender runs the full pipeline and writes one file per requested format.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	csv, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Run(ctx, csv, pipeline.Options{
		Size:         opts.size,
		Days:         opts.days,
		FramesPerDay: opts.framesPer,
		FPS:          opts.fps,
		Gamma:        opts.gamma,
		Amp:          opts.amp,
		MaxLabels:    opts.maxLabels,
		NoLabels:     opts.maxLabels == 0,
		Title:        opts.title,
		NoTitle:      opts.title == "",
		StationsFile: opts.stations,
		Formats:      opts.formats,
	})
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spinner.Stop()

	base := basePath(opts.output, input)
	allCached := true
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debugf("Wrote %s (%d bytes)", path, len(result.Artifacts[format]))
		printFile(path)
		if !result.Cached[format] {
			allCached = false
		}
	}

	printStats(len(result.Dates), len(result.Stations), result.Frames, allCached)
	prog.done(fmt.Sprintf("Rendered %d frames", result.Frames))
	return nil
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	encode.FormatGIF:  true,
	encode.FormatMP4:  true,
	encode.FormatWebM: true,
	encode.FormatPNG:  true,
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'gif', 'mp4', 'webm', or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.gif, .mp4, etc.), it strips that extension.
// This is used when generating multiple files (e.g., rain.gif, rain.mp4).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Strip known format extensions from output path
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories as needed.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

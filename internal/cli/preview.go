package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wkchan/rainripple/pkg/pipeline"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output    string  // output PNG path
	size      int     // square canvas size in pixels
	days      int     // trailing window length in days
	gamma     float64 // weight curve exponent
	amp       float64 // global ripple amplification
	maxLabels int     // station label cap
	stations  string  // optional station position TOML file
	thumb     bool    // also write a small thumbnail
}

// previewCommand creates the preview command. It renders the wettest day of
// the window as a single labeled PNG still, useful for checking station
// positions and label placement before a full render.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{
		size:      pipeline.DefaultSize,
		days:      pipeline.DefaultDays,
		gamma:     pipeline.DefaultGamma,
		amp:       pipeline.DefaultAmp,
		maxLabels: pipeline.DefaultMaxLabels,
	}

	cmd := &cobra.Command{
		Use:   "preview [csv]",
		Short: "Render a single labeled preview frame as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG path (default <csv>_preview.png)")
	cmd.Flags().IntVar(&opts.size, "size", opts.size, "canvas size in pixels (square)")
	cmd.Flags().IntVar(&opts.days, "days", opts.days, "number of trailing days to consider")
	cmd.Flags().Float64Var(&opts.gamma, "gamma", opts.gamma, "weight curve exponent")
	cmd.Flags().Float64Var(&opts.amp, "amp", opts.amp, "global ripple amplification")
	cmd.Flags().IntVar(&opts.maxLabels, "max-labels", opts.maxLabels, "maximum station labels")
	cmd.Flags().StringVar(&opts.stations, "stations", "", "TOML file with station position overrides")
	cmd.Flags().BoolVar(&opts.thumb, "thumbnail", false, "also write a small thumbnail")

	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, input string, opts *previewOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	csv, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}

	preview, err := runner.RenderPreview(ctx, csv, pipeline.Options{
		Size:         opts.size,
		Days:         opts.days,
		Gamma:        opts.gamma,
		Amp:          opts.amp,
		MaxLabels:    opts.maxLabels,
		NoLabels:     opts.maxLabels == 0,
		StationsFile: opts.stations,
	})
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "_preview.png"
	}
	if err := writeOutput(path, preview.PNG); err != nil {
		return err
	}
	logger.Debugf("Wrote %s (%d bytes)", path, len(preview.PNG))

	printSuccess("Preview for %s", preview.Date.Format("2006-01-02"))
	printFile(path)

	if opts.thumb {
		thumbPath := strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.png"
		if err := writeOutput(thumbPath, preview.Thumbnail); err != nil {
			return err
		}
		printFile(thumbPath)
	}

	printNextStep("Render the full animation", fmt.Sprintf("rainripple render %s", input))
	return nil
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackstack/pkg/config"
	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/render"
)

// defaultPNGScale is the rasterization scale for PNG export.
const defaultPNGScale = 2.0

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configPath string // TOML browser config
	region     string // region string, e.g. chr1:3000000-4000000
	output     string // output file; extension selects svg, png or pdf
	scale      float64
}

// newRenderCmd creates the render command: plot one region through the
// configured track stack and write the figure.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a genomic region to SVG, PNG or PDF",
		Example: `  trackstack render -c browser.toml -r chr1:3000000-4000000 -o hoxa.svg
  trackstack render -c browser.toml -r chr2:1,000,000-2,500,000 -o figure.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "browser config TOML file (required)")
	cmd.Flags().StringVarP(&opts.region, "region", "r", "", "region to plot, e.g. chr1:3000000-4000000 (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file; .svg, .png or .pdf (required)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG rasterization scale")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	format := strings.TrimPrefix(filepath.Ext(opts.output), ".")
	switch format {
	case "svg", "png", "pdf":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"output %q must end in .svg, .png or .pdf", opts.output)
	}

	region, err := genome.ParseRegion(opts.region)
	if err != nil {
		return err
	}

	b, err := config.Load(opts.configPath, config.DefaultTracks(), config.DefaultStores())
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d tracks from %s", len(b.Tracks), opts.configPath)

	prog := newProgress(logger)
	plot, err := b.Plot(region)
	if err != nil {
		return err
	}

	out := plot.SVG()
	switch format {
	case "png":
		out, err = render.ToPNG(out, opts.scale)
	case "pdf":
		out, err = render.ToPDF(out)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err, "writing %s", opts.output)
	}
	prog.done("Rendered " + region.String() + " to " + opts.output)
	return nil
}

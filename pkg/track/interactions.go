package track

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/matrix"
	"github.com/matzehuels/trackstack/pkg/observability"
	"github.com/matzehuels/trackstack/pkg/render/svg"
	"github.com/matzehuels/trackstack/pkg/store"
)

// InteractionsOptions configures an interactions heatmap track.
type InteractionsOptions struct {
	Name string // track caption; defaults to "interactions"

	// Projection options. ClipPercentile 0 disables clipping; HardFloor NaN
	// disables the pre-clip floor.
	ClipPercentile float64
	HardFloor      float64
	Rotate         bool
	Flip           bool
	Log            bool

	Colormap string // colormap name; defaults to "hot"

	// StoreType tags store fetch events for observability hooks.
	StoreType string
}

// DefaultInteractionsOptions returns the options the config layer starts
// from: rotated triangle, 1% clip, no log, "hot" colormap.
func DefaultInteractionsOptions() InteractionsOptions {
	return InteractionsOptions{
		Name:           "interactions",
		ClipPercentile: 1,
		HardFloor:      math.NaN(),
		Rotate:         true,
		Colormap:       "hot",
		StoreType:      "store",
	}
}

// Interactions renders an interaction-matrix heatmap from a matrix store.
type Interactions struct {
	store store.Store
	opts  InteractionsOptions
	cmap  svg.Colormap
}

// NewInteractions builds an interactions track over st.
func NewInteractions(st store.Store, opts InteractionsOptions) (*Interactions, error) {
	if st == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "interactions track needs a store")
	}
	if opts.Name == "" {
		opts.Name = "interactions"
	}
	if opts.Colormap == "" {
		opts.Colormap = "hot"
	}
	if opts.StoreType == "" {
		opts.StoreType = "store"
	}
	if opts.ClipPercentile < 0 || opts.ClipPercentile >= 50 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"clip percentile %v out of range [0, 50)", opts.ClipPercentile)
	}
	cmap, err := svg.ColormapByName(opts.Colormap)
	if err != nil {
		return nil, err
	}
	return &Interactions{store: st, opts: opts, cmap: cmap}, nil
}

// Name implements Track.
func (t *Interactions) Name() string { return t.opts.Name }

// Config implements Track. A square heatmap wants as many rows as the data
// column is wide; the rotated triangle is half as tall.
func (t *Interactions) Config(_ genome.Region, ctx layout.Context) (layout.Declaration, error) {
	rows := int(math.Ceil(ctx.RowsWide()))
	if t.opts.Rotate {
		rows = int(math.Ceil(ctx.RowsWide() / 2))
	}
	if rows < 1 {
		rows = 1
	}
	return layout.Declaration{Rows: rows}, nil
}

// Render implements Track: fetch, project, rasterize.
func (t *Interactions) Render(region genome.Region, data, label *svg.Surface) (Result, error) {
	ctx := context.Background()
	start := time.Now()
	observability.Store().OnFetchStart(ctx, t.opts.StoreType, region.String())
	m, resolved, err := t.store.Interactions(region)
	n := 0
	if m != nil {
		n = m.N()
	}
	observability.Store().OnFetchComplete(ctx, t.opts.StoreType, region.String(), n, time.Since(start), err)
	if err != nil {
		return Result{}, err
	}

	m.RemoveDiagonal()
	if t.opts.ClipPercentile > 0 {
		if err := matrix.Clip(&m.Grid, t.opts.ClipPercentile, t.opts.HardFloor); err != nil {
			return Result{}, err
		}
	}
	grid := &m.Grid
	if t.opts.Rotate {
		grid = matrix.RotateToTriangle(m, t.opts.Flip)
	}
	if t.opts.Log {
		matrix.Log10(grid)
	}

	data.SetXLim(float64(resolved.Start), float64(resolved.Stop))
	data.SetYLim(0, 1)
	if err := data.Raster(grid, t.cmap); err != nil {
		return Result{}, err
	}
	drawLabel(label, t.opts.Name)
	return Result{Name: t.opts.Name, Region: resolved}, nil
}

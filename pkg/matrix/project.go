package matrix

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/trackstack/pkg/errors"
)

// Clip limits all finite values of g to the inclusive range between the
// percentile-th and (100−percentile)-th percentiles of the finite values.
//
// If hardFloor is not NaN, any value below it is first converted to NaN so
// that background noise does not skew the percentile estimate.
//
// Clipping is idempotent: re-clipping at the same percentile leaves the
// extrema unchanged, because the percentile values themselves already lie
// inside the clipped range.
func Clip(g *Grid, percentile float64, hardFloor float64) error {
	if percentile <= 0 || percentile >= 50 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"clip percentile %.2f must be in (0, 50)", percentile)
	}

	if !math.IsNaN(hardFloor) {
		for i := range g.data {
			if g.data[i] < hardFloor {
				g.data[i] = math.NaN()
			}
		}
	}

	finite := g.Finite()
	if len(finite) == 0 {
		return nil
	}

	// Nearest-rank percentiles pick actual sample values, so re-clipping at
	// the same percentile finds the same bounds. Interpolating percentiles
	// would drift between passes and reject small samples.
	lower, err := stats.PercentileNearestRank(finite, percentile)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "lower percentile")
	}
	upper, err := stats.PercentileNearestRank(finite, 100-percentile)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "upper percentile")
	}

	for i, v := range g.data {
		switch {
		case math.IsNaN(v):
		case v < lower:
			g.data[i] = lower
		case v > upper:
			g.data[i] = upper
		}
	}
	return nil
}

// Log10 replaces every finite value with its base-10 logarithm. NaN cells
// are untouched; non-positive values become NaN, since they have no
// logarithm to display.
func Log10(g *Grid) {
	for i, v := range g.data {
		if math.IsNaN(v) {
			continue
		}
		if v <= 0 {
			g.data[i] = math.NaN()
			continue
		}
		g.data[i] = math.Log10(v)
	}
}

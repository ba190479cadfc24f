// Package genome provides the coordinate primitives shared by all Trackstack
// components: half-open genomic regions and human-readable distance
// formatting.
package genome

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/trackstack/pkg/errors"
)

// Region is a half-open genomic interval [Start, Stop) on a named chromosome.
type Region struct {
	Chrom string
	Start int64
	Stop  int64
}

// NewRegion builds a validated Region. A region whose start is not strictly
// smaller than its stop is rejected with INVALID_REGION; coordinates are
// never swapped on the caller's behalf.
func NewRegion(chrom string, start, stop int64) (Region, error) {
	if start >= stop {
		return Region{}, errors.New(errors.ErrCodeInvalidRegion,
			"region start %d must be smaller than stop %d", start, stop)
	}
	return Region{Chrom: chrom, Start: start, Stop: stop}, nil
}

// ParseRegion parses a region in "chrom:start-stop" form, e.g.
// "chr1:3000000-4000000". Commas in coordinates are ignored so that
// "chr1:3,000,000-4,000,000" also parses.
func ParseRegion(s string) (Region, error) {
	chrom, rest, ok := strings.Cut(s, ":")
	if !ok || chrom == "" {
		return Region{}, errors.New(errors.ErrCodeInvalidRegion,
			"region %q must have the form chrom:start-stop", s)
	}

	rest = strings.ReplaceAll(rest, ",", "")
	startText, stopText, ok := strings.Cut(rest, "-")
	if !ok {
		return Region{}, errors.New(errors.ErrCodeInvalidRegion,
			"region %q must have the form chrom:start-stop", s)
	}

	start, err := strconv.ParseInt(startText, 10, 64)
	if err != nil {
		return Region{}, errors.Wrap(errors.ErrCodeInvalidRegion, err,
			"invalid region start %q", startText)
	}
	stop, err := strconv.ParseInt(stopText, 10, 64)
	if err != nil {
		return Region{}, errors.Wrap(errors.ErrCodeInvalidRegion, err,
			"invalid region stop %q", stopText)
	}

	return NewRegion(chrom, start, stop)
}

// Length returns the region's span in base pairs.
func (r Region) Length() int64 { return r.Stop - r.Start }

// Overlaps reports whether r and other share at least one base pair.
// Regions on different chromosomes never overlap.
func (r Region) Overlaps(other Region) bool {
	return r.Chrom == other.Chrom && r.Stop > other.Start && r.Start < other.Stop
}

// Contains reports whether other lies entirely within r.
func (r Region) Contains(other Region) bool {
	return r.Chrom == other.Chrom && r.Start <= other.Start && r.Stop >= other.Stop
}

// String formats the region as "chrom:start-stop".
func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.Stop)
}

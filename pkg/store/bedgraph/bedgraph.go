// Package bedgraph provides continuous genomic signal (e.g. ChIP-seq
// coverage) from bedGraph files: whitespace-separated lines of
// chrom, start, stop, value.
//
// The whole file is parsed once at open time and held in memory per
// chromosome; signal tracks query it repeatedly with different regions and
// bin counts.
package bedgraph

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
)

type span struct {
	start, stop int64
	value       float64
}

// File is a parsed bedGraph signal file.
type File struct {
	spans map[string][]span
}

// Open parses the bedGraph file at path.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "opening bedgraph %s", path)
	}
	defer fh.Close()

	f := &File{spans: make(map[string][]span)}
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, errors.New(errors.ErrCodeStoreIO,
				"bedgraph line %q has fewer than 4 fields", line)
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "bedgraph line %q start", line)
		}
		stop, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "bedgraph line %q stop", line)
		}
		value, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "bedgraph line %q value", line)
		}
		f.spans[fields[0]] = append(f.spans[fields[0]], span{start: start, stop: stop, value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "reading bedgraph %s", path)
	}
	return f, nil
}

// Coverage bins the region into the given number of equal-width bins and
// returns the overlap-weighted mean signal per bin. Bins with no overlapping
// span are zero.
func (f *File) Coverage(region genome.Region, bins int) ([]float64, error) {
	if region.Start >= region.Stop {
		return nil, errors.New(errors.ErrCodeInvalidRegion,
			"region start %d must be smaller than stop %d", region.Start, region.Stop)
	}
	if bins < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "bin count %d must be >= 1", bins)
	}

	spans, ok := f.spans[region.Chrom]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownChrom,
			"%s not present in bedgraph", region.Chrom)
	}

	values := make([]float64, bins)
	covered := make([]float64, bins)
	binWidth := float64(region.Length()) / float64(bins)

	for _, s := range spans {
		if s.stop <= region.Start || s.start >= region.Stop {
			continue
		}
		lo := float64(max64(s.start, region.Start)-region.Start) / binWidth
		hi := float64(min64(s.stop, region.Stop)-region.Start) / binWidth
		for b := int(lo); b < bins && float64(b) < hi; b++ {
			overlap := minf(hi, float64(b+1)) - maxf(lo, float64(b))
			if overlap <= 0 {
				continue
			}
			values[b] += s.value * overlap
			covered[b] += overlap
		}
	}

	for b := range values {
		if covered[b] > 0 {
			values[b] /= covered[b]
		}
	}
	return values, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

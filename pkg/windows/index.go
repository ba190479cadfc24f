// Package windows maps genomic coordinates to and from the bin indices of an
// ordered, per-chromosome partition of coordinate space.
//
// Interaction matrices are stored per bin, not per base pair: a chromosome is
// divided into windows (fixed or variable size), and cell (i, j) of a matrix
// holds the measurement between window i and window j. An [Index] translates
// a genomic region into the half-open slice [start, stopExclusive) of window
// indices covering it, and back.
//
// An Index is immutable after construction. Within one chromosome the windows
// are expected to be sorted by start and mutually non-overlapping; this is
// NOT validated, and the behavior of an Index built from overlapping or
// unsorted windows is undefined.
package windows

import (
	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
)

// Window is one bin of a chromosome partition. Index is the window's
// position within its chromosome's ordered window list.
type Window struct {
	Chrom string
	Start int64
	Stop  int64
	Index int
}

// Region returns the window's genomic extent.
func (w Window) Region() genome.Region {
	return genome.Region{Chrom: w.Chrom, Start: w.Start, Stop: w.Stop}
}

// Index is an immutable ordered collection of windows, built once per
// chromosome source and queried many times.
type Index struct {
	windows []Window
	chroms  map[string]bool
}

// New builds an Index over the given windows. The slice is retained, not
// copied; callers hand over ownership. Window.Index fields are rewritten to
// the position of each window in the slice.
func New(ws []Window) *Index {
	chroms := make(map[string]bool)
	for i := range ws {
		ws[i].Index = i
		chroms[ws[i].Chrom] = true
	}
	return &Index{windows: ws, chroms: chroms}
}

// Len returns the number of windows in the index.
func (ix *Index) Len() int { return len(ix.windows) }

// Window returns the window at position i.
func (ix *Index) Window(i int) Window { return ix.windows[i] }

// HasChrom reports whether any window belongs to the given chromosome.
func (ix *Index) HasChrom(chrom string) bool { return ix.chroms[chrom] }

// FromRegion returns the half-open index range [start, stopExclusive) of all
// windows overlapping the region. A window overlaps when its stop is greater
// than the region start and its start is smaller than the region stop, on the
// same chromosome.
//
// Errors:
//   - INVALID_REGION if region.Start >= region.Stop
//   - UNKNOWN_CHROMOSOME if no window at all belongs to region.Chrom
//   - EMPTY_SELECTION if the chromosome is known but no window overlaps
func (ix *Index) FromRegion(region genome.Region) (start, stopExclusive int, err error) {
	if region.Start >= region.Stop {
		return 0, 0, errors.New(errors.ErrCodeInvalidRegion,
			"region start %d must be smaller than stop %d", region.Start, region.Stop)
	}

	first, last := -1, -1
	for i, w := range ix.windows {
		if w.Chrom != region.Chrom {
			continue
		}
		if w.Stop > region.Start && w.Start < region.Stop {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 {
		if !ix.chroms[region.Chrom] {
			return 0, 0, errors.New(errors.ErrCodeUnknownChrom,
				"%s not found in the list of windows", region.Chrom)
		}
		return 0, 0, errors.New(errors.ErrCodeEmptySelection,
			"no window overlaps %s", region)
	}

	return first, last + 1, nil
}

// Region returns the genomic region spanning from the start of
// windows[start] to the stop of windows[stopExclusive-1]. This snaps any
// query to the enclosing bin boundaries: the result is always a superset of,
// or equal to, the region the indices were derived from.
func (ix *Index) Region(start, stopExclusive int) genome.Region {
	first := ix.windows[start]
	last := ix.windows[stopExclusive-1]
	return genome.Region{Chrom: first.Chrom, Start: first.Start, Stop: last.Stop}
}

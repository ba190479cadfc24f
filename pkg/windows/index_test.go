package windows

import (
	"testing"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
)

// fixedWindows builds an index with 50kb bins over chr1:0-200000 and
// 100kb bins over chr2:0-200000.
func fixedWindows() *Index {
	return New([]Window{
		{Chrom: "chr1", Start: 0, Stop: 50000},
		{Chrom: "chr1", Start: 50000, Stop: 100000},
		{Chrom: "chr1", Start: 100000, Stop: 150000},
		{Chrom: "chr1", Start: 150000, Stop: 200000},
		{Chrom: "chr2", Start: 0, Stop: 100000},
		{Chrom: "chr2", Start: 100000, Stop: 200000},
	})
}

func TestFromRegion(t *testing.T) {
	ix := fixedWindows()

	tests := []struct {
		name      string
		region    genome.Region
		wantStart int
		wantStop  int
	}{
		{
			name:      "exact bin boundaries",
			region:    genome.Region{Chrom: "chr1", Start: 0, Stop: 100000},
			wantStart: 0,
			wantStop:  2,
		},
		{
			name:      "unaligned query snaps outward",
			region:    genome.Region{Chrom: "chr1", Start: 34000, Stop: 156000},
			wantStart: 0,
			wantStop:  4,
		},
		{
			name:      "inside a single bin",
			region:    genome.Region{Chrom: "chr1", Start: 60000, Stop: 70000},
			wantStart: 1,
			wantStop:  2,
		},
		{
			name:      "second chromosome offsets by chr1 windows",
			region:    genome.Region{Chrom: "chr2", Start: 0, Stop: 150000},
			wantStart: 4,
			wantStop:  6,
		},
		{
			name:      "stop on boundary excludes next bin",
			region:    genome.Region{Chrom: "chr1", Start: 0, Stop: 50000},
			wantStart: 0,
			wantStop:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, stop, err := ix.FromRegion(tt.region)
			if err != nil {
				t.Fatalf("FromRegion(%v) error = %v", tt.region, err)
			}
			if start != tt.wantStart || stop != tt.wantStop {
				t.Errorf("FromRegion(%v) = (%d, %d), want (%d, %d)",
					tt.region, start, stop, tt.wantStart, tt.wantStop)
			}

			// Every window inside the range overlaps; none outside does.
			for i := 0; i < ix.Len(); i++ {
				overlaps := ix.Window(i).Region().Overlaps(tt.region)
				inRange := i >= start && i < stop
				if overlaps != inRange {
					t.Errorf("window %d: overlap = %v but in range = %v", i, overlaps, inRange)
				}
			}
		})
	}
}

func TestFromRegionErrors(t *testing.T) {
	ix := fixedWindows()

	tests := []struct {
		name     string
		region   genome.Region
		wantCode errors.Code
	}{
		{
			name:     "start equals stop",
			region:   genome.Region{Chrom: "chr1", Start: 100, Stop: 100},
			wantCode: errors.ErrCodeInvalidRegion,
		},
		{
			name:     "start after stop",
			region:   genome.Region{Chrom: "chr1", Start: 200, Stop: 100},
			wantCode: errors.ErrCodeInvalidRegion,
		},
		{
			name:     "unknown chromosome",
			region:   genome.Region{Chrom: "chr9", Start: 0, Stop: 1000},
			wantCode: errors.ErrCodeUnknownChrom,
		},
		{
			name:     "known chromosome beyond last window",
			region:   genome.Region{Chrom: "chr1", Start: 500000, Stop: 600000},
			wantCode: errors.ErrCodeEmptySelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ix.FromRegion(tt.region)
			if err == nil {
				t.Fatalf("FromRegion(%v) expected error", tt.region)
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("FromRegion(%v) code = %q, want %q", tt.region, errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestRegionRoundTrip(t *testing.T) {
	ix := fixedWindows()

	// Scenario from two 50kb windows: the resolved region is exactly the query.
	two := New([]Window{
		{Chrom: "chr1", Start: 0, Stop: 50000},
		{Chrom: "chr1", Start: 50000, Stop: 100000},
	})
	start, stop, err := two.FromRegion(genome.Region{Chrom: "chr1", Start: 0, Stop: 100000})
	if err != nil {
		t.Fatal(err)
	}
	if start != 0 || stop != 2 {
		t.Fatalf("FromRegion = (%d, %d), want (0, 2)", start, stop)
	}
	got := two.Region(start, stop)
	want := genome.Region{Chrom: "chr1", Start: 0, Stop: 100000}
	if got != want {
		t.Errorf("Region(0, 2) = %v, want %v", got, want)
	}

	// Snapping never shrinks: resolved contains the query.
	queries := []genome.Region{
		{Chrom: "chr1", Start: 34000, Stop: 45600},
		{Chrom: "chr1", Start: 1, Stop: 199999},
		{Chrom: "chr2", Start: 99999, Stop: 100001},
	}
	for _, q := range queries {
		s, e, err := ix.FromRegion(q)
		if err != nil {
			t.Fatalf("FromRegion(%v) error = %v", q, err)
		}
		resolved := ix.Region(s, e)
		if !resolved.Contains(q) {
			t.Errorf("Region(%d, %d) = %v does not contain query %v", s, e, resolved, q)
		}
	}
}

package browser

import (
	"strings"
	"testing"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/render/svg"
	"github.com/matzehuels/trackstack/pkg/track"
)

// stubTrack declares a fixed row count and draws a marker string.
type stubTrack struct {
	name string
	rows int
	err  error
}

func (s *stubTrack) Name() string { return s.name }

func (s *stubTrack) Config(genome.Region, layout.Context) (layout.Declaration, error) {
	return layout.Declaration{Rows: s.rows}, nil
}

func (s *stubTrack) Render(region genome.Region, data, label *svg.Surface) (track.Result, error) {
	if s.err != nil {
		return track.Result{}, s.err
	}
	data.SetXLim(0, 1)
	data.SetYLim(0, 1)
	data.Text(0.5, 0.5, "marker-"+s.name, svg.TextOptions{})
	return track.Result{Name: s.name, Region: region}, nil
}

func testRegion() genome.Region {
	return genome.Region{Chrom: "chr1", Start: 3000000, Stop: 4000000}
}

func TestPlotComposesTracks(t *testing.T) {
	b := New(
		&stubTrack{name: "one", rows: 2},
		&stubTrack{name: "two", rows: 4},
		&stubTrack{name: "three", rows: 1},
	)

	p, err := b.Plot(testRegion())
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if p.ID == "" {
		t.Error("plot should have an ID")
	}
	if len(p.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(p.Results))
	}
	for i, name := range []string{"one", "two", "three"} {
		if p.Results[i].Name != name {
			t.Errorf("results[%d].Name = %q, want %q", i, p.Results[i].Name, name)
		}
	}

	doc := string(p.SVG())
	if !strings.HasPrefix(doc, "<svg") || !strings.HasSuffix(strings.TrimSpace(doc), "</svg>") {
		t.Error("SVG should be a standalone document")
	}
	// 7 rows at the default row height.
	if !strings.Contains(doc, `height="175"`) {
		t.Errorf("SVG height should be 175, got:\n%s", doc[:120])
	}
	for _, name := range []string{"one", "two", "three"} {
		if !strings.Contains(doc, "marker-"+name) {
			t.Errorf("SVG should contain track %q output", name)
		}
	}
	// Second track starts 2 rows down.
	if !strings.Contains(doc, `translate(80.00,50.00)`) {
		t.Error("second track's data column should sit at row offset 2")
	}
}

func TestPlotFailFast(t *testing.T) {
	boom := errors.New(errors.ErrCodeStoreIO, "backend gone")
	b := New(
		&stubTrack{name: "ok", rows: 1},
		&stubTrack{name: "bad", rows: 1, err: boom},
		&stubTrack{name: "after", rows: 1},
	)

	_, err := b.Plot(testRegion())
	if !errors.Is(err, errors.ErrCodeStoreIO) {
		t.Fatalf("err = %v, want store IO", err)
	}
}

func TestPlotIDsAreUnique(t *testing.T) {
	b := New(&stubTrack{name: "one", rows: 1})
	p1, err := b.Plot(testRegion())
	if err != nil {
		t.Fatal(err)
	}
	p2, err := b.Plot(testRegion())
	if err != nil {
		t.Fatal(err)
	}
	if p1.ID == p2.ID {
		t.Error("plot IDs should differ between runs")
	}
}

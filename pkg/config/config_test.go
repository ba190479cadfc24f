package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/trackstack/pkg/errors"
)

// my5cFixture writes a minimal my5c folder with one chr1 file and returns
// the folder path.
func my5cFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "" +
		"\ttest|hg19|chr1:0-50000\ttest|hg19|chr1:50000-100000\n" +
		"test|hg19|chr1:0-50000\t1.0\t2.0\n" +
		"test|hg19|chr1:50000-100000\t2.0\t4.0\n"
	path := filepath.Join(dir, "test_chr1_chr1.my5c.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestParseFullConfig(t *testing.T) {
	dir := t.TempDir()
	bedgraphPath := filepath.Join(dir, "cov.bedgraph")
	if err := os.WriteFile(bedgraphPath, []byte("chr1\t0\t100\t1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	bedPath := filepath.Join(dir, "genes.bed")
	if err := os.WriteFile(bedPath, []byte("chr1\t10\t90\tGene1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	peaksPath := filepath.Join(dir, "peaks.bed")
	if err := os.WriteFile(peaksPath, []byte("chr1\t20\t40\tpeak1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := fmt.Sprintf(`
[browser]
width = 1000
row_height = 20

[[tracks]]
type = "interactions"
name = "hox matrix"
store = "my5c_folder"
path = %q
log = true
clip_percentile = 1.0

[[tracks]]
type = "signal"
file = %q
bins = 100

[[tracks]]
type = "genes"
file = %q

[[tracks]]
type = "intervals"
file = %q

[[tracks]]
type = "scalebar"

[[tracks]]
type = "location"
`, my5cFixture(t), bedgraphPath, bedPath, peaksPath)

	b, err := Parse(cfg, DefaultTracks(), DefaultStores())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b.Width != 1000 || b.RowHeight != 20 {
		t.Errorf("geometry = %v x %v, want 1000 x 20", b.Width, b.RowHeight)
	}
	if len(b.Tracks) != 6 {
		t.Fatalf("got %d tracks, want 6", len(b.Tracks))
	}
	wantNames := []string{"hox matrix", "signal", "genes", "intervals", "scale", "location"}
	for i, name := range wantNames {
		if b.Tracks[i].Name() != name {
			t.Errorf("tracks[%d].Name = %q, want %q", i, b.Tracks[i].Name(), name)
		}
	}
}

func TestParseInteractionsClipPercentile(t *testing.T) {
	// Absent clip_percentile keeps the default 1% clip; an explicit zero
	// disables clipping. Both must build.
	for _, block := range []string{
		"",
		"clip_percentile = 0.0\n",
	} {
		cfg := fmt.Sprintf(`
[[tracks]]
type = "interactions"
store = "my5c_folder"
path = %q
%s`, my5cFixture(t), block)
		if _, err := Parse(cfg, DefaultTracks(), DefaultStores()); err != nil {
			t.Errorf("Parse with block %q: %v", block, err)
		}
	}
}

func TestParseDefaultsGeometry(t *testing.T) {
	b, err := Parse(`
[[tracks]]
type = "scalebar"
`, DefaultTracks(), DefaultStores())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b.Width != 800 || b.RowHeight != 25 {
		t.Errorf("geometry = %v x %v, want defaults 800 x 25", b.Width, b.RowHeight)
	}
}

func TestParseUnknownTrackType(t *testing.T) {
	_, err := Parse(`
[[tracks]]
type = "holograms"
`, DefaultTracks(), DefaultStores())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want invalid config", err)
	}
}

func TestParseMissingType(t *testing.T) {
	_, err := Parse(`
[[tracks]]
name = "anonymous"
`, DefaultTracks(), DefaultStores())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want invalid config", err)
	}
}

func TestParseUnknownStoreType(t *testing.T) {
	_, err := Parse(`
[[tracks]]
type = "interactions"
store = "quantum_db"
path = "/nowhere"
`, DefaultTracks(), DefaultStores())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want invalid config", err)
	}
}

func TestParseMalformedTOML(t *testing.T) {
	_, err := Parse(`[[tracks`, DefaultTracks(), DefaultStores())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want invalid config", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browser.toml")
	if err := os.WriteFile(path, []byte("[[tracks]]\ntype = \"location\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := Load(path, DefaultTracks(), DefaultStores())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Tracks) != 1 || b.Tracks[0].Name() != "location" {
		t.Errorf("unexpected tracks: %v", b.Tracks)
	}
}

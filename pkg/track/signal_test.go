package track

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/store/bedgraph"
)

func signalFixture(t *testing.T) *bedgraph.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signal.bedgraph")
	content := "chr1\t3000000\t3500000\t2.0\nchr1\t3500000\t4000000\t8.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := bedgraph.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSignalConfigFixedRows(t *testing.T) {
	tr, err := NewSignal(signalFixture(t), SignalOptions{})
	if err != nil {
		t.Fatal(err)
	}
	d, err := tr.Config(testRegion(), layout.Context{Width: 800, RowHeight: 25})
	if err != nil {
		t.Fatal(err)
	}
	if d.Rows != 4 {
		t.Errorf("rows = %d, want 4", d.Rows)
	}
}

func TestSignalRender(t *testing.T) {
	tr, err := NewSignal(signalFixture(t), SignalOptions{Name: "coverage", Bins: 10})
	if err != nil {
		t.Fatal(err)
	}
	data, label := surfacePair()
	res, err := tr.Render(testRegion(), data, label)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Region != testRegion() {
		t.Errorf("result region = %v, want %v", res.Region, testRegion())
	}
	if !strings.Contains(string(data.Fragment()), "<path") {
		t.Error("data surface should contain a filled path")
	}
	if !strings.Contains(string(label.Fragment()), "coverage") {
		t.Error("label surface should carry the track name")
	}
}

func TestSignalRenderUnknownChrom(t *testing.T) {
	tr, err := NewSignal(signalFixture(t), SignalOptions{})
	if err != nil {
		t.Fatal(err)
	}
	data, label := surfacePair()
	_, err = tr.Render(genome.Region{Chrom: "chrX", Start: 0, Stop: 100}, data, label)
	if !errors.Is(err, errors.ErrCodeUnknownChrom) {
		t.Fatalf("err = %v, want unknown chromosome", err)
	}
}

func TestNewSignalValidation(t *testing.T) {
	if _, err := NewSignal(nil, SignalOptions{}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("nil file: err = %v, want invalid config", err)
	}
	if _, err := NewSignal(signalFixture(t), SignalOptions{Bins: -3}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative bins: err = %v, want invalid config", err)
	}
}

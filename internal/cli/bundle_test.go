package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/store/bundle"
)

func mustRegion(t *testing.T, s string) genome.Region {
	t.Helper()
	r, err := genome.ParseRegion(s)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

const my5cFixture = "" +
	"\ttest|mm9|chr1:0-50000\ttest|mm9|chr1:50000-100000\n" +
	"test|mm9|chr1:0-50000\t1\t2\n" +
	"test|mm9|chr1:50000-100000\t2\t4\n"

func testContext() context.Context {
	return withLogger(context.Background(), newLogger(&bytes.Buffer{}, log.InfoLevel))
}

func TestRunBundle(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test_chr1_chr1.my5c.txt")
	if err := os.WriteFile(input, []byte(my5cFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "chr1.itx.gz")

	if err := runBundle(testContext(), input, output); err != nil {
		t.Fatalf("runBundle: %v", err)
	}

	f, err := bundle.OpenFile(output)
	if err != nil {
		t.Fatalf("bundle should decode: %v", err)
	}
	m, _, err := f.Interactions(mustRegion(t, "chr1:0-100000"))
	if err != nil {
		t.Fatal(err)
	}
	if m.N() != 2 || m.At(1, 1) != 4 {
		t.Errorf("bundle content wrong: n=%d", m.N())
	}
}

func TestRunBundleDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test_chr1_chr1.my5c.txt")
	if err := os.WriteFile(input, []byte(my5cFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runBundle(testContext(), input, ""); err != nil {
		t.Fatalf("runBundle: %v", err)
	}
	want := filepath.Join(dir, "test_chr1_chr1.itx.gz")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default output %s should exist: %v", want, err)
	}
}

func TestRunBundleMissingInput(t *testing.T) {
	err := runBundle(testContext(), filepath.Join(t.TempDir(), "nope.my5c.txt"), "")
	if err == nil {
		t.Fatal("missing input should fail")
	}
}

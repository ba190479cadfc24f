package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/trackstack/pkg/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindChromFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "hic_mm9_chr1_chr1_50kb.my5c.txt"))
	touch(t, filepath.Join(dir, "hic_mm9_chr2_chr2_50kb.my5c.txt"))

	got, err := FindChromFile(dir, "chr1", ".my5c.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "hic_mm9_chr1_chr1_50kb.my5c.txt")
	if got != want {
		t.Errorf("FindChromFile = %q, want %q", got, want)
	}
}

func TestFindChromFileErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a_chr1_chr1.my5c.txt"))
	touch(t, filepath.Join(dir, "b_chr1_chr1.my5c.txt"))

	t.Run("two matches", func(t *testing.T) {
		_, err := FindChromFile(dir, "chr1", ".my5c.txt")
		if !errors.Is(err, errors.ErrCodeAmbiguousFile) {
			t.Errorf("error = %v, want AMBIGUOUS_FILE", err)
		}
	})

	t.Run("zero matches", func(t *testing.T) {
		_, err := FindChromFile(dir, "chr3", ".my5c.txt")
		if !errors.Is(err, errors.ErrCodeNoFileFound) {
			t.Errorf("error = %v, want NO_FILE_FOUND", err)
		}
	})

	t.Run("hostile chromosome name", func(t *testing.T) {
		_, err := FindChromFile(dir, "../../etc", ".my5c.txt")
		if !errors.Is(err, errors.ErrCodeInvalidChrom) {
			t.Errorf("error = %v, want INVALID_CHROMOSOME", err)
		}
	})
}

func TestRegistryOpen(t *testing.T) {
	reg := Registry{
		"null": func(path string) (Store, error) { return nil, nil },
	}

	if _, err := reg.Open("null", "/tmp/x"); err != nil {
		t.Errorf("Open known type: %v", err)
	}
	if _, err := reg.Open("bigwig", "/tmp/x"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open unknown type error = %v, want INVALID_CONFIG", err)
	}
}

package interdb

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedDB builds a 4-bin chr1 at 50kb resolution with a deliberately sparse
// pair table: (3, 7) style holes are represented by simply not inserting.
func seedDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if err := CreateSchema(db); err != nil {
		t.Fatal(err)
	}
	db.MustExec(`CREATE TABLE "chr1" (x INTEGER, y INTEGER, value REAL)`)
	for i := 0; i < 4; i++ {
		db.MustExec(`INSERT INTO windows (chrom, start, stop, i) VALUES (?, ?, ?, ?)`,
			"chr1", int64(i)*50000, int64(i+1)*50000, i)
	}
	// Dense except: no row for (1, 3) or (3, 1).
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if (x == 1 && y == 3) || (x == 3 && y == 1) {
				continue
			}
			db.MustExec(`INSERT INTO "chr1" (x, y, value) VALUES (?, ?, ?)`,
				x, y, float64(x*10+y))
		}
	}
}

func TestInteractions(t *testing.T) {
	db := openTestDB(t)
	seedDB(t, db)
	d := New(db)

	m, resolved, err := d.Interactions(genome.Region{Chrom: "chr1", Start: 0, Stop: 200000})
	if err != nil {
		t.Fatal(err)
	}

	want := genome.Region{Chrom: "chr1", Start: 0, Stop: 200000}
	if resolved != want {
		t.Errorf("resolved = %v, want %v", resolved, want)
	}
	if m.N() != 4 {
		t.Fatalf("matrix side = %d, want 4", m.N())
	}
	if got := m.At(2, 3); got != 23 {
		t.Errorf("cell (2,3) = %v, want 23", got)
	}

	// The absent pair is undefined, not zero.
	if !math.IsNaN(m.At(1, 3)) {
		t.Errorf("absent pair (1,3) = %v, want NaN", m.At(1, 3))
	}
	if !math.IsNaN(m.At(3, 1)) {
		t.Errorf("absent pair (3,1) = %v, want NaN", m.At(3, 1))
	}
}

func TestInteractionsBoundarySnap(t *testing.T) {
	db := openTestDB(t)
	seedDB(t, db)
	d := New(db)

	// Query ending exactly on a bin boundary must not drag in the next bin.
	m, resolved, err := d.Interactions(genome.Region{Chrom: "chr1", Start: 60000, Stop: 100000})
	if err != nil {
		t.Fatal(err)
	}
	if m.N() != 1 {
		t.Errorf("matrix side = %d, want 1", m.N())
	}
	want := genome.Region{Chrom: "chr1", Start: 50000, Stop: 100000}
	if resolved != want {
		t.Errorf("resolved = %v, want %v", resolved, want)
	}

	// An unaligned query snaps outward and never shrinks.
	q := genome.Region{Chrom: "chr1", Start: 60000, Stop: 110000}
	_, resolved, err = d.Interactions(q)
	if err != nil {
		t.Fatal(err)
	}
	if !resolved.Contains(q) {
		t.Errorf("resolved %v does not contain query %v", resolved, q)
	}
}

func TestInteractionsErrors(t *testing.T) {
	db := openTestDB(t)
	seedDB(t, db)
	d := New(db)

	tests := []struct {
		name     string
		region   genome.Region
		wantCode errors.Code
	}{
		{"invalid region", genome.Region{Chrom: "chr1", Start: 10, Stop: 10}, errors.ErrCodeInvalidRegion},
		{"unknown chromosome", genome.Region{Chrom: "chr9", Start: 0, Stop: 100}, errors.ErrCodeUnknownChrom},
		{"before first window", genome.Region{Chrom: "chr1", Start: -5000, Stop: -1}, errors.ErrCodeEmptySelection},
		{"hostile chromosome", genome.Region{Chrom: `x"; DROP TABLE windows;--`, Start: 0, Stop: 10}, errors.ErrCodeInvalidChrom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := d.Interactions(tt.region)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %q", err, tt.wantCode)
			}
		})
	}
}

func TestBinFromLocationEmptySelection(t *testing.T) {
	db := openTestDB(t)
	if err := CreateSchema(db); err != nil {
		t.Fatal(err)
	}
	// chr1 windows start at 100000: a position before the first window is a
	// known chromosome with no floor bin.
	db.MustExec(`INSERT INTO windows (chrom, start, stop, i) VALUES ('chr1', 100000, 150000, 0)`)

	_, err := New(db).BinFromLocation("chr1", 50)
	if !errors.Is(err, errors.ErrCodeEmptySelection) {
		t.Errorf("error = %v, want EMPTY_SELECTION", err)
	}
}

func TestImportWindows(t *testing.T) {
	db := openTestDB(t)

	bed := filepath.Join(t.TempDir(), "windows.bed")
	content := "# comment\nchr1\t0\t50000\nchr1\t50000\t100000\nchr2\t0\t50000\n"
	if err := os.WriteFile(bed, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := ImportWindows(db, bed)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("imported %d windows, want 3", n)
	}

	// Bin indices restart per chromosome.
	var chr2Bin int
	if err := db.Get(&chr2Bin, `SELECT i FROM windows WHERE chrom = 'chr2'`); err != nil {
		t.Fatal(err)
	}
	if chr2Bin != 0 {
		t.Errorf("chr2 first bin index = %d, want 0", chr2Bin)
	}
}

func TestImportMy5cRoundTrip(t *testing.T) {
	db := openTestDB(t)

	my5cText := "\tHiC|mm9|chr1:0-50000\tHiC|mm9|chr1:50000-100000\n" +
		"HiC|mm9|chr1:0-50000\t1\t2\n" +
		"HiC|mm9|chr1:50000-100000\t2\tnan\n"
	path := filepath.Join(t.TempDir(), "hic_chr1_chr1.my5c.txt")
	if err := os.WriteFile(path, []byte(my5cText), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := log.New(io.Discard)
	if err := ImportMy5c(db, logger, path); err != nil {
		t.Fatal(err)
	}

	m, resolved, err := New(db).Interactions(genome.Region{Chrom: "chr1", Start: 0, Stop: 100000})
	if err != nil {
		t.Fatal(err)
	}
	want := genome.Region{Chrom: "chr1", Start: 0, Stop: 100000}
	if resolved != want {
		t.Errorf("resolved = %v, want %v", resolved, want)
	}
	if m.At(0, 0) != 1 || m.At(0, 1) != 2 {
		t.Errorf("cells = %v, %v", m.At(0, 0), m.At(0, 1))
	}
	// NaN source cells were skipped at import, so they come back undefined.
	if !math.IsNaN(m.At(1, 1)) {
		t.Errorf("cell (1,1) = %v, want NaN", m.At(1, 1))
	}
}

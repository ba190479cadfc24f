// Package interdb provides interaction matrices from a SQLite-indexed
// sparse pair store.
//
// # Schema
//
// A single windows table replaces the in-memory window index:
//
//	windows(chrom TEXT, start INTEGER, stop INTEGER, i INTEGER)
//
// where i is the bin index, sequential per chromosome. Pairwise values live
// in one table per chromosome, named by the chromosome string:
//
//	"chr1"(x INTEGER, y INTEGER, value REAL)
//
// Chromosome names are validated before being interpolated as table names.
//
// Unlike the dense backends, matrix density here depends on which rows
// exist in storage: any (x, y) pair inside the requested range with no row
// is undefined, so the pivot step fills absent cells with NaN rather than
// leaving them at a numeric default.
package interdb

import (
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/matrix"
	"github.com/matzehuels/trackstack/pkg/store"
)

// DB provides interactions from a SQLite interaction database.
type DB struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *DB { return &DB{db: db} }

// Open opens the SQLite database at path. It satisfies store.Factory.
func Open(path string) (store.Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "opening interaction db %s", path)
	}
	return New(db), nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error { return d.db.Close() }

// Interactions implements store.Store. Coordinate resolution is two-step:
// the region's endpoints are mapped to bin indices with floor lookups on the
// windows table, all pair rows inside the half-open index range are fetched,
// and the result set is pivoted into a dense matrix.
func (d *DB) Interactions(region genome.Region) (*matrix.Matrix, genome.Region, error) {
	if region.Start >= region.Stop {
		return nil, genome.Region{}, errors.New(errors.ErrCodeInvalidRegion,
			"region start %d must be smaller than stop %d", region.Start, region.Stop)
	}
	if err := errors.ValidateChromName(region.Chrom); err != nil {
		return nil, genome.Region{}, err
	}

	startBin, err := d.BinFromLocation(region.Chrom, region.Start)
	if err != nil {
		return nil, genome.Region{}, err
	}
	// Stop is exclusive: the last covered base pair is Stop-1, so a query
	// ending exactly on a bin boundary does not drag in the next bin.
	stopBin, err := d.BinFromLocation(region.Chrom, region.Stop-1)
	if err != nil {
		return nil, genome.Region{}, err
	}

	m, err := d.pivot(region.Chrom, startBin, stopBin+1)
	if err != nil {
		return nil, genome.Region{}, err
	}

	resolvedStart, _, err := d.LocationFromBin(region.Chrom, startBin)
	if err != nil {
		return nil, genome.Region{}, err
	}
	_, resolvedStop, err := d.LocationFromBin(region.Chrom, stopBin)
	if err != nil {
		return nil, genome.Region{}, err
	}

	resolved := genome.Region{Chrom: region.Chrom, Start: resolvedStart, Stop: resolvedStop}
	return m, resolved, nil
}

// BinFromLocation returns the index of the bin containing the position: the
// window with the greatest start <= position (a floor lookup).
func (d *DB) BinFromLocation(chrom string, position int64) (int, error) {
	var bin int
	err := d.db.Get(&bin,
		`SELECT i FROM windows WHERE chrom = ? AND start <= ? ORDER BY start DESC LIMIT 1`,
		chrom, position)
	if stderrors.Is(err, sql.ErrNoRows) {
		var count int
		if err := d.db.Get(&count, `SELECT COUNT(*) FROM windows WHERE chrom = ?`, chrom); err != nil {
			return 0, errors.Wrap(errors.ErrCodeStoreIO, err, "counting windows for %s", chrom)
		}
		if count == 0 {
			return 0, errors.New(errors.ErrCodeUnknownChrom,
				"%s not found in the windows table", chrom)
		}
		return 0, errors.New(errors.ErrCodeEmptySelection,
			"no window at or before %s:%d", chrom, position)
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreIO, err, "bin lookup %s:%d", chrom, position)
	}
	return bin, nil
}

// LocationFromBin is the inverse of BinFromLocation: the genomic extent of
// one bin.
func (d *DB) LocationFromBin(chrom string, bin int) (start, stop int64, err error) {
	row := struct {
		Start int64 `db:"start"`
		Stop  int64 `db:"stop"`
	}{}
	err = d.db.Get(&row,
		`SELECT start, stop FROM windows WHERE chrom = ? AND i = ? LIMIT 1`, chrom, bin)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, 0, errors.New(errors.ErrCodeEmptySelection,
			"no window with index %d on %s", bin, chrom)
	}
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeStoreIO, err, "window lookup %s bin %d", chrom, bin)
	}
	return row.Start, row.Stop, nil
}

// pivot fetches all (x, y, value) rows with x and y inside
// [startBin, stopExclusive) and spreads them into a dense matrix. Cells with
// no backing row stay NaN.
func (d *DB) pivot(chrom string, startBin, stopExclusive int) (*matrix.Matrix, error) {
	query := fmt.Sprintf(
		`SELECT x, y, value FROM %s WHERE x >= ? AND x < ? AND y >= ? AND y < ?`,
		quoteIdent(chrom))

	rows, err := d.db.Queryx(query, startBin, stopExclusive, startBin, stopExclusive)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "querying interactions for %s", chrom)
	}
	defer rows.Close()

	m := matrix.NewMatrix(stopExclusive - startBin)
	for rows.Next() {
		var x, y int
		var value float64
		if err := rows.Scan(&x, &y, &value); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "scanning interaction row")
		}
		m.Set(x-startBin, y-startBin, value)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "iterating interactions for %s", chrom)
	}
	return m, nil
}

// quoteIdent double-quotes an already validated identifier for use as a
// SQLite table name.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

package interdb

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/store/my5c"
)

// insertBatch is the number of pair rows per INSERT statement, kept under
// SQLite's bound-variable limit (3 variables per row).
const insertBatch = 300

// CreateSchema creates the windows table and its lookup index. Safe to call
// on an existing database.
func CreateSchema(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS windows (chrom TEXT, start INTEGER, stop INTEGER, i INTEGER)`,
		`CREATE INDEX IF NOT EXISTS IdxWindows ON windows(chrom, start)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(errors.ErrCodeStoreIO, err, "creating schema")
		}
	}
	return nil
}

// ImportWindows loads a BED file (chrom, start, stop; whitespace separated)
// into the windows table, assigning sequential per-chromosome bin indices in
// file order. Returns the number of windows imported.
func ImportWindows(db *sqlx.DB, bedPath string) (int, error) {
	fh, err := os.Open(bedPath)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreIO, err, "opening bed file %s", bedPath)
	}
	defer fh.Close()

	if err := CreateSchema(db); err != nil {
		return 0, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreIO, err, "beginning transaction")
	}
	defer tx.Rollback()

	perChrom := make(map[string]int)
	count := 0
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return 0, errors.New(errors.ErrCodeMalformedWindows,
				"bed line %q has fewer than 3 fields", line)
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeMalformedWindows, err, "bed line %q start", line)
		}
		stop, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeMalformedWindows, err, "bed line %q stop", line)
		}

		chrom := fields[0]
		if _, err := tx.Exec(
			`INSERT INTO windows (chrom, start, stop, i) VALUES (?, ?, ?, ?)`,
			chrom, start, stop, perChrom[chrom]); err != nil {
			return 0, errors.Wrap(errors.ErrCodeStoreIO, err, "inserting window")
		}
		perChrom[chrom]++
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreIO, err, "reading bed file %s", bedPath)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreIO, err, "committing windows")
	}
	return count, nil
}

// ImportMy5c loads one or more my5c text matrices into the sparse pair
// schema: one table per chromosome, populated in chunked inserts with an
// (x, y) index created after the load, plus one windows-table row per bin.
// NaN cells are not stored; their absence is what marks them undefined.
func ImportMy5c(db *sqlx.DB, logger *log.Logger, paths ...string) error {
	if err := CreateSchema(db); err != nil {
		return err
	}

	for _, path := range paths {
		logger.Info("Adding matrix", "path", path)
		file, err := my5c.OpenFile(path)
		if err != nil {
			return err
		}
		if err := importFile(db, logger, file); err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
	}
	return nil
}

func importFile(db *sqlx.DB, logger *log.Logger, file *my5c.File) error {
	ws := file.Windows()
	if len(ws) == 0 {
		return errors.New(errors.ErrCodeMalformedWindows, "matrix has no windows")
	}
	chrom := ws[0].Chrom
	if err := errors.ValidateChromName(chrom); err != nil {
		return err
	}
	for _, w := range ws {
		if w.Chrom != chrom {
			return errors.New(errors.ErrCodeMalformedWindows,
				"matrix mixes chromosomes %s and %s", chrom, w.Chrom)
		}
	}

	scores := file.Scores()
	logger.Debug("chromosome matrix loaded", "chrom", chrom, "side", scores.N())

	table := quoteIdent(chrom)
	if _, err := db.Exec(fmt.Sprintf(
		`CREATE TABLE %s (x INTEGER, y INTEGER, value REAL)`, table)); err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err, "creating table for %s", chrom)
	}

	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err, "beginning transaction")
	}
	defer tx.Rollback()

	args := make([]any, 0, insertBatch*3)
	flush := func() error {
		if len(args) == 0 {
			return nil
		}
		placeholders := strings.TrimSuffix(
			strings.Repeat("(?, ?, ?),", len(args)/3), ",")
		stmt := fmt.Sprintf(`INSERT INTO %s (x, y, value) VALUES %s`, table, placeholders)
		if _, err := tx.Exec(stmt, args...); err != nil {
			return errors.Wrap(errors.ErrCodeStoreIO, err, "inserting pairs for %s", chrom)
		}
		args = args[:0]
		return nil
	}

	n := scores.N()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			v := scores.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			args = append(args, x, y, v)
			if len(args) == insertBatch*3 {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	for _, w := range ws {
		if _, err := tx.Exec(
			`INSERT INTO windows (chrom, start, stop, i) VALUES (?, ?, ?, ?)`,
			w.Chrom, w.Start, w.Stop, w.Index); err != nil {
			return errors.Wrap(errors.ErrCodeStoreIO, err, "inserting window for %s", chrom)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err, "committing %s", chrom)
	}

	logger.Debug("creating pair index", "chrom", chrom)
	if _, err := db.Exec(fmt.Sprintf(
		`CREATE INDEX %s ON %s(x, y)`, quoteIdent("Idx"+chrom), table)); err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err, "indexing table for %s", chrom)
	}
	return nil
}

// Package my5c reads folders of my5c-format interaction matrices, one dense
// tab-separated file per chromosome.
//
// Each file divides the chromosome into bins and stores the interaction
// between every pair of bins as an N×N matrix. The header row and the first
// column carry window labels in the form "source|assembly|chrom:start-stop"
// (e.g. "HiC|mm9|chr7:7000000-7999999"); the labels are parsed into a
// window index so that queries in base-pair coordinates can be translated
// to matrix indices.
package my5c

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/matrix"
	"github.com/matzehuels/trackstack/pkg/store"
	"github.com/matzehuels/trackstack/pkg/windows"
)

// Suffix is the filename suffix my5c files are located by.
const Suffix = ".my5c.txt"

// Folder provides interactions from a folder of per-chromosome my5c files.
// Files are parsed lazily on first access to a chromosome and cached for
// reuse; the cache is never mutated after a file is loaded.
type Folder struct {
	path  string
	files map[string]*File
}

// New creates a folder store rooted at path.
func New(path string) *Folder {
	return &Folder{path: path, files: make(map[string]*File)}
}

// Open adapts New to the store.Factory signature.
func Open(path string) (store.Store, error) {
	return New(path), nil
}

// Interactions implements store.Store.
func (f *Folder) Interactions(region genome.Region) (*matrix.Matrix, genome.Region, error) {
	// Reject malformed regions before touching the filesystem.
	if region.Start >= region.Stop {
		return nil, genome.Region{}, errors.New(errors.ErrCodeInvalidRegion,
			"region start %d must be smaller than stop %d", region.Start, region.Stop)
	}

	file, err := f.chromFile(region.Chrom)
	if err != nil {
		return nil, genome.Region{}, err
	}
	return file.Interactions(region)
}

func (f *Folder) chromFile(chrom string) (*File, error) {
	if file, ok := f.files[chrom]; ok {
		return file, nil
	}

	path, err := store.FindChromFile(f.path, chrom, Suffix)
	if err != nil {
		return nil, err
	}
	file, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	f.files[chrom] = file
	return file, nil
}

// File is a fully loaded my5c matrix for one chromosome.
type File struct {
	index  *windows.Index
	scores *matrix.Matrix
}

// OpenFile parses a my5c file: the header row is discarded (row labels are
// authoritative, and the two are identical in well-formed files), each data
// row contributes one window from its label and one matrix row of values.
func OpenFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "opening my5c file %s", path)
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	if !scanner.Scan() {
		return nil, errors.New(errors.ErrCodeMalformedMatrix, "my5c file %s is empty", path)
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	n := len(header)
	if header[0] == "" {
		// the corner cell above the row-label column may be blank
		n--
	}
	if n == 0 {
		return nil, errors.New(errors.ErrCodeMalformedMatrix, "my5c file %s has no columns", path)
	}

	ws := make([]windows.Window, 0, n)
	scores := matrix.NewMatrix(n)

	row := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		if row >= n {
			return nil, errors.New(errors.ErrCodeMalformedMatrix,
				"my5c file %s has more rows than header columns (%d)", path, n)
		}

		fields := strings.Split(line, "\t")
		if len(fields) != n+1 {
			return nil, errors.New(errors.ErrCodeMalformedMatrix,
				"my5c file %s row %d has %d fields, want %d", path, row+1, len(fields), n+1)
		}

		w, err := ParseLabel(fields[0])
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)

		for j, field := range fields[1:] {
			v, err := parseScore(field)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedMatrix, err,
					"my5c file %s cell (%d,%d)", path, row, j)
			}
			scores.Set(row, j, v)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "reading my5c file %s", path)
	}
	if row != n {
		return nil, errors.New(errors.ErrCodeMalformedMatrix,
			"my5c file %s has %d rows for %d columns", path, row, n)
	}

	return &File{index: windows.New(ws), scores: scores}, nil
}

// Windows returns the file's window list in matrix order. Used by the
// importers that re-encode my5c data into other store formats.
func (f *File) Windows() []windows.Window {
	ws := make([]windows.Window, f.index.Len())
	for i := range ws {
		ws[i] = f.index.Window(i)
	}
	return ws
}

// Scores returns the full interaction matrix.
func (f *File) Scores() *matrix.Matrix { return f.scores }

// Interactions slices the symmetric sub-matrix covering the region and
// returns it with the region snapped to the enclosing bin boundaries.
func (f *File) Interactions(region genome.Region) (*matrix.Matrix, genome.Region, error) {
	start, stop, err := f.index.FromRegion(region)
	if err != nil {
		return nil, genome.Region{}, err
	}
	return f.scores.Sub(start, stop), f.index.Region(start, stop), nil
}

// ParseLabel parses a my5c window label of the form
// "source|assembly|chrom:start-stop". Only the final location part is
// significant; any number of leading pipe-separated annotations is allowed.
func ParseLabel(label string) (windows.Window, error) {
	parts := strings.Split(label, "|")
	location := parts[len(parts)-1]

	chrom, pos, ok := strings.Cut(location, ":")
	if !ok || chrom == "" {
		return windows.Window{}, errors.New(errors.ErrCodeMalformedWindows,
			"window label %q has no chrom:start-stop location", label)
	}
	startText, stopText, ok := strings.Cut(pos, "-")
	if !ok {
		return windows.Window{}, errors.New(errors.ErrCodeMalformedWindows,
			"window label %q has no start-stop range", label)
	}

	start, err := strconv.ParseInt(startText, 10, 64)
	if err != nil {
		return windows.Window{}, errors.Wrap(errors.ErrCodeMalformedWindows, err,
			"window label %q start", label)
	}
	stop, err := strconv.ParseInt(stopText, 10, 64)
	if err != nil {
		return windows.Window{}, errors.Wrap(errors.ErrCodeMalformedWindows, err,
			"window label %q stop", label)
	}

	return windows.Window{Chrom: chrom, Start: start, Stop: stop}, nil
}

func parseScore(field string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "", "nan", "na":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}

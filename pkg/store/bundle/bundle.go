// Package bundle reads and writes compressed binary interaction bundles,
// one file per chromosome in a folder.
//
// A bundle is the binary sibling of the my5c text format: it carries the
// same two arrays, N window records and an N×N score matrix, but windows
// are structured (chrom, start, stop) tuples rather than delimited label
// strings, and the whole payload is gzip-compressed.
//
// # Wire format
//
// After gzip decompression, all integers little-endian:
//
//	magic    [4]byte  "ITX1"
//	count    uint32   N, number of windows
//	windows  N × { chromLen uint16, chrom [chromLen]byte, start uint64, stop uint64 }
//	scores   N×N × float64 (IEEE-754 bits; NaN marks undefined cells)
package bundle

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/matrix"
	"github.com/matzehuels/trackstack/pkg/store"
	"github.com/matzehuels/trackstack/pkg/windows"
)

// Suffix is the filename suffix bundle files are located by.
const Suffix = ".itx.gz"

var magic = [4]byte{'I', 'T', 'X', '1'}

// maxWindows bounds the declared window count so a corrupt header cannot
// trigger an enormous allocation.
const maxWindows = 1 << 20

// Folder provides interactions from a folder of per-chromosome bundles.
// Bundles are decoded lazily on first access and cached per chromosome.
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
	if region.Start >= region.Stop {
		return nil, genome.Region{}, errors.New(errors.ErrCodeInvalidRegion,
			"region start %d must be smaller than stop %d", region.Start, region.Stop)
	}

	file, ok := f.files[region.Chrom]
	if !ok {
		path, err := store.FindChromFile(f.path, region.Chrom, Suffix)
		if err != nil {
			return nil, genome.Region{}, err
		}
		file, err = OpenFile(path)
		if err != nil {
			return nil, genome.Region{}, err
		}
		f.files[region.Chrom] = file
	}

	return file.Interactions(region)
}

// File is a fully decoded bundle for one chromosome.
type File struct {
	index  *windows.Index
	scores *matrix.Matrix
}

// OpenFile decompresses and decodes a bundle file.
func OpenFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "opening bundle %s", path)
	}
	defer fh.Close()

	zr, err := gzip.NewReader(fh)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedMatrix, err, "bundle %s is not gzip", path)
	}
	defer zr.Close()

	file, err := Decode(zr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedMatrix, err, "decoding bundle %s", path)
	}
	return file, nil
}

// Decode reads an uncompressed bundle stream.
func Decode(r io.Reader) (*File, error) {
	var gotMagic [4]byte
	if err := binary.Read(r, binary.LittleEndian, &gotMagic); err != nil {
		return nil, err
	}
	if gotMagic != magic {
		return nil, errors.New(errors.ErrCodeMalformedMatrix,
			"bad magic %q, want %q", gotMagic, magic)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	n := int(count)
	if n == 0 || n > maxWindows {
		return nil, errors.New(errors.ErrCodeMalformedMatrix,
			"implausible window count %d", n)
	}

	ws := make([]windows.Window, n)
	for i := range ws {
		var chromLen uint16
		if err := binary.Read(r, binary.LittleEndian, &chromLen); err != nil {
			return nil, err
		}
		chrom := make([]byte, chromLen)
		if _, err := io.ReadFull(r, chrom); err != nil {
			return nil, err
		}
		var start, stop uint64
		if err := binary.Read(r, binary.LittleEndian, &start); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &stop); err != nil {
			return nil, err
		}
		ws[i] = windows.Window{Chrom: string(chrom), Start: int64(start), Stop: int64(stop)}
	}

	scores := matrix.NewMatrix(n)
	buf := make([]byte, 8)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			scores.Set(i, j, math.Float64frombits(binary.LittleEndian.Uint64(buf)))
		}
	}

	return &File{index: windows.New(ws), scores: scores}, nil
}

// Interactions slices the symmetric sub-matrix covering the region,
// identically to the my5c slicing contract.
func (f *File) Interactions(region genome.Region) (*matrix.Matrix, genome.Region, error) {
	start, stop, err := f.index.FromRegion(region)
	if err != nil {
		return nil, genome.Region{}, err
	}
	return f.scores.Sub(start, stop), f.index.Region(start, stop), nil
}

// Write gzip-compresses and encodes a bundle: ws supplies the window
// records, scores the matrix. Used by the "trackstack bundle" importer.
func Write(w io.Writer, ws []windows.Window, scores *matrix.Matrix) error {
	if len(ws) != scores.N() {
		return errors.New(errors.ErrCodeMalformedMatrix,
			"window count %d does not match matrix side %d", len(ws), scores.N())
	}

	zw := gzip.NewWriter(w)
	if err := encode(zw, ws, scores); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func encode(w io.Writer, ws []windows.Window, scores *matrix.Matrix) error {
	var buf bytes.Buffer
	buf.Write(magic[:])

	n := len(ws)
	binary.Write(&buf, binary.LittleEndian, uint32(n))
	for _, win := range ws {
		binary.Write(&buf, binary.LittleEndian, uint16(len(win.Chrom)))
		buf.WriteString(win.Chrom)
		binary.Write(&buf, binary.LittleEndian, uint64(win.Start))
		binary.Write(&buf, binary.LittleEndian, uint64(win.Stop))
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			binary.Write(&buf, binary.LittleEndian, math.Float64bits(scores.At(i, j)))
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Package bed provides gene models from BED files: tab- or
// whitespace-separated lines of chrom, start, stop and optionally
// name, score and strand.
package bed

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
)

// Gene is one BED record.
type Gene struct {
	Chrom  string
	Start  int64
	Stop   int64
	Name   string
	Strand string // "+", "-" or "" when the file has no strand column
}

// File is a parsed BED gene file with records grouped per chromosome and
// sorted by start.
type File struct {
	genes map[string][]Gene
}

// Open parses the BED file at path.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "opening bed %s", path)
	}
	defer fh.Close()

	f := &File{genes: make(map[string][]Gene)}
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errors.New(errors.ErrCodeStoreIO,
				"bed line %q has fewer than 3 fields", line)
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "bed line %q start", line)
		}
		stop, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "bed line %q stop", line)
		}
		g := Gene{Chrom: fields[0], Start: start, Stop: stop}
		if len(fields) > 3 {
			g.Name = fields[3]
		}
		if len(fields) > 5 {
			g.Strand = fields[5]
		}
		f.genes[g.Chrom] = append(f.genes[g.Chrom], g)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "reading bed %s", path)
	}
	for chrom := range f.genes {
		gs := f.genes[chrom]
		sort.Slice(gs, func(i, j int) bool { return gs[i].Start < gs[j].Start })
	}
	return f, nil
}

// Query returns the genes overlapping region, sorted by start. A chromosome
// absent from the file yields an empty slice, not an error: gene annotation
// is routinely sparser than the interaction data it accompanies.
func (f *File) Query(region genome.Region) ([]Gene, error) {
	if region.Start >= region.Stop {
		return nil, errors.New(errors.ErrCodeInvalidRegion,
			"region %s has non-positive length", region)
	}
	var out []Gene
	for _, g := range f.genes[region.Chrom] {
		if g.Start < region.Stop && g.Stop > region.Start {
			out = append(out, g)
		}
	}
	return out, nil
}

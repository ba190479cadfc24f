package track

import (
	"fmt"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/render/svg"
	"github.com/matzehuels/trackstack/pkg/store/bed"
)

const (
	geneFontSize = 10.0
	// geneCharWidth approximates sans-serif glyph advance at geneFontSize.
	geneCharWidth = 6.0
	genePadding   = 8.0
)

// GenesOptions configures a gene-model track.
type GenesOptions struct {
	Name string // track caption; defaults to "genes"
	Fill string // gene body color; defaults to "#4daf4a"
}

// Genes renders gene models from a BED file, one packed row per
// non-overlapping run of gene bodies and name labels.
type Genes struct {
	file *bed.File
	opts GenesOptions
}

// NewGenes builds a gene track over f.
func NewGenes(f *bed.File, opts GenesOptions) (*Genes, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "genes track needs a bed file")
	}
	if opts.Name == "" {
		opts.Name = "genes"
	}
	if opts.Fill == "" {
		opts.Fill = "#4daf4a"
	}
	return &Genes{file: f, opts: opts}, nil
}

// Name implements Track.
func (t *Genes) Name() string { return t.opts.Name }

// Config implements Track. The declared height is the number of packed rows,
// so layout and render must agree; both call the same packing.
func (t *Genes) Config(region genome.Region, ctx layout.Context) (layout.Declaration, error) {
	genes, err := t.file.Query(region)
	if err != nil {
		return layout.Declaration{}, err
	}
	rows := packGenes(genes, region, ctx.DataWidth())
	if len(rows) == 0 {
		return layout.Declaration{Rows: 1}, nil
	}
	return layout.Declaration{Rows: len(rows)}, nil
}

// Render implements Track.
func (t *Genes) Render(region genome.Region, data, label *svg.Surface) (Result, error) {
	genes, err := t.file.Query(region)
	if err != nil {
		return Result{}, err
	}
	rows := packGenes(genes, region, data.Width())

	data.SetXLim(float64(region.Start), float64(region.Stop))
	data.SetYLim(0, float64(max(len(rows), 1)))

	// Row 0 renders at the top.
	for ri, row := range rows {
		yBase := float64(len(rows)-ri) - 1
		for _, g := range row {
			x0 := clampCoord(float64(g.Start), region)
			x1 := clampCoord(float64(g.Stop), region)
			data.Rect(x0, yBase+0.55, x1-x0, 0.3, t.opts.Fill)
			if g.Name != "" {
				data.Text(x0, yBase+0.15, geneCaption(g), svg.TextOptions{Size: geneFontSize})
			}
		}
	}

	drawLabel(label, t.opts.Name)
	return Result{Name: t.opts.Name, Region: region}, nil
}

func geneCaption(g bed.Gene) string {
	if g.Strand == "" {
		return g.Name
	}
	return fmt.Sprintf("%s (%s)", g.Name, g.Strand)
}

func clampCoord(x float64, region genome.Region) float64 {
	if x < float64(region.Start) {
		return float64(region.Start)
	}
	if x > float64(region.Stop) {
		return float64(region.Stop)
	}
	return x
}

// packGenes assigns genes (already sorted by start) to rows greedily: each
// gene goes to the first row whose occupied pixel extent, gene body plus name
// label, ends before the gene starts. The extent is measured in pixels so
// label overlap depends on the rendered width, not the genomic span.
func packGenes(genes []bed.Gene, region genome.Region, width float64) [][]bed.Gene {
	perBase := width / float64(region.Length())
	var rows [][]bed.Gene
	var rowEnds []float64
	for _, g := range genes {
		x0 := (clampCoord(float64(g.Start), region) - float64(region.Start)) * perBase
		x1 := (clampCoord(float64(g.Stop), region) - float64(region.Start)) * perBase
		labelEnd := x0 + float64(len(geneCaption(g)))*geneCharWidth
		if g.Name == "" {
			labelEnd = x0
		}
		end := max(x1, labelEnd)

		placed := false
		for ri := range rows {
			if rowEnds[ri]+genePadding <= x0 {
				rows[ri] = append(rows[ri], g)
				rowEnds[ri] = end
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []bed.Gene{g})
			rowEnds = append(rowEnds, end)
		}
	}
	return rows
}

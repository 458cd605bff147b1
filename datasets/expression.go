package datasets

import (
	"context"
	"fmt"

	"github.com/bionotebook/seeddata/generators"
)

const (
	airwayGenes   = 20000
	airwayDEGenes = 500
	firstFillerID = 100
)

func produceExpression(ctx context.Context, e *Env) {
	counts := e.path("nb05", countsFile)
	meta := e.path("nb05", metadataFile)
	e.Mat.EnsureBundle(ctx, []string{counts, meta}, "Airway dexamethasone RNA-seq counts (GSE52778-like)",
		func(ctx context.Context) (map[string][]byte, error) {
			design := e.Tables.Airway
			metaCSV, err := airwayMetadata(design)
			if err != nil {
				return nil, err
			}
			countsCSV, err := airwayCounts(e, design)
			if err != nil {
				return nil, err
			}
			return map[string][]byte{counts: countsCSV, meta: metaCSV}, nil
		})
}

func airwayMetadata(design AirwayDesign) ([]byte, error) {
	t := newTable("sample_id", "cell_line", "treatment", "condition")
	for _, s := range design.Samples {
		t.row(s.SampleID, s.CellLine, s.Treatment, s.Condition)
	}
	return t.bytes()
}

func airwayCounts(e *Env, design AirwayDesign) ([]byte, error) {
	treated := make([]bool, len(design.Samples))
	header := []string{"gene_id"}
	for i, s := range design.Samples {
		treated[i] = s.Treated()
		header = append(header, s.SampleID)
	}

	counts, err := generators.SimulateCounts(e.rng(), generators.ExpressionParams{
		Genes:                   airwayGenes,
		LibraryFactors:          design.LibraryFactors,
		Treated:                 treated,
		Up:                      len(design.DexUp),
		Down:                    len(design.DexDown),
		DifferentiallyExpressed: airwayDEGenes,
		BaseMu:                  4,
		BaseSigma:               2.5,
	})
	if err != nil {
		return nil, err
	}

	genes := airwayGeneIDs(design, airwayGenes)
	t := newTable(header...)
	fields := make([]string, len(header))
	for i, row := range counts {
		fields[0] = genes[i]
		for j, c := range row {
			fields[j+1] = itoa(c)
		}
		t.row(fields...)
	}
	e.detail("%d genes x %d samples", airwayGenes, len(design.Samples))
	e.detail("%d known upregulated, %d known downregulated", len(design.DexUp), len(design.DexDown))
	return t.bytes()
}

// airwayGeneIDs lists the induced genes, then the repressed ones, then real
// Ensembl ids, padded with ENSG ids numbered from 100.
func airwayGeneIDs(design AirwayDesign, n int) []string {
	ids := make([]string, 0, n)
	ids = append(ids, design.DexUp...)
	ids = append(ids, design.DexDown...)
	ids = append(ids, design.RealGenes...)
	for i := 0; len(ids) < n; i++ {
		ids = append(ids, fmt.Sprintf("ENSG%08d", i+firstFillerID))
	}
	return ids[:n]
}

package datasets

import (
	"context"
	"path/filepath"
)

const (
	proteomeFile   = "human_proteome_lengths.csv"
	genotypeFile   = "1kg_chr22_subset.csv"
	populationFile = "1kg_populations.csv"
	drugsFile      = "approved_drugs.csv"
	countsFile     = "airway_counts.csv"
	metadataFile   = "airway_metadata.csv"
	cropsFile      = "crop_genome_stats.csv"
	snpsFile       = "arabidopsis_snps.csv"
	phenotypesFile = "arabidopsis_phenotypes.csv"
)

// Notebook is one teaching notebook and the files it reads from its data
// directory. Notebooks with a Notice load built-in datasets and need no files.
type Notebook struct {
	ID      string
	Title   string
	Notice  string
	Files   []string
	produce func(ctx context.Context, e *Env)
}

// Paths returns the absolute path of every file of the notebook under root.
func (n Notebook) Paths(root string) []string {
	out := make([]string, len(n.Files))
	for i, f := range n.Files {
		out[i] = filepath.Join(root, n.ID, f)
	}
	return out
}

// Catalog returns the notebooks in the order they are produced. Remote files
// come first, in table order, followed by locally built ones.
func Catalog(t *Tables) []Notebook {
	nbs := []Notebook{
		{ID: "nb01", Title: "Sequence Analysis", Files: []string{proteomeFile}, produce: produceSequences},
		{ID: "nb02", Title: "Genomic Variant Analysis", Files: []string{genotypeFile, populationFile}, produce: produceVariants},
		{ID: "nb03", Title: "Single-cell RNA-seq (PBMC3k)", produce: produceSingleCell},
		{ID: "nb04", Title: "Protein Structure & Drug Discovery", Files: []string{drugsFile}, produce: produceStructures},
		{ID: "nb05", Title: "Bulk RNA-seq", Files: []string{countsFile, metadataFile}, produce: produceExpression},
		{ID: "nb06", Title: "Clinical Informatics", Notice: "Uses lifelines.datasets.load_gbsg2() (built-in)"},
		{ID: "nb07", Title: "Biomedical Image Analysis", Notice: "Uses skimage.data.ihc() and skimage.data.human_mitosis() (built-in)"},
		{ID: "nb08", Title: "Plant Biology", Files: []string{cropsFile, snpsFile, phenotypesFile}, produce: producePlants},
	}
	for i := range nbs {
		var files []string
		for _, r := range t.RemoteFor(nbs[i].ID) {
			files = append(files, r.File)
		}
		nbs[i].Files = append(files, nbs[i].Files...)
	}
	return nbs
}

// ArtifactPaths flattens the paths of every notebook under root.
func ArtifactPaths(root string, nbs []Notebook) []string {
	var out []string
	for _, nb := range nbs {
		out = append(out, nb.Paths(root)...)
	}
	return out
}

package generators

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	minProteinLength = 50
	maxProteinLength = 35000
)

// Protein is one row of a proteome length table.
type Protein struct {
	Accession string `json:"accession"`
	Gene      string `json:"gene"`
	Length    int    `json:"length"`
	Name      string `json:"name"`
}

// SimulateProteome returns reference followed by extra hypothetical proteins
// numbered from 0. Their lengths are LogNormal(5.5, 0.8) clamped to
// [50, 35000].
func SimulateProteome(rng *rand.Rand, reference []Protein, extra int) []Protein {
	out := make([]Protein, 0, len(reference)+extra)
	out = append(out, reference...)

	dist := distuv.LogNormal{Mu: 5.5, Sigma: 0.8, Src: rng}
	for i := 0; i < extra; i++ {
		length := int(dist.Rand())
		out = append(out, Protein{
			Accession: fmt.Sprintf("Q%05d", i),
			Gene:      fmt.Sprintf("GENE%d", i),
			Length:    min(max(length, minProteinLength), maxProteinLength),
			Name:      fmt.Sprintf("Hypothetical protein %d", i),
		})
	}
	return out
}

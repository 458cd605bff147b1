package generators

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// PhenotypeParams configures an additive quantitative trait.
type PhenotypeParams struct {
	CausalLoci   int
	EffectSD     float64
	Baseline     float64
	GroupOffsets map[string]float64
	NoiseSD      float64
	Min, Max     float64
}

// Phenotype holds the causal architecture and one value per sample.
type Phenotype struct {
	Loci    []int
	Effects []float64
	Values  []float64
}

// SimulatePhenotype picks CausalLoci distinct markers with N(0, EffectSD)
// effects and scores each sample as
//
//	Baseline + Σ genotype×effect + GroupOffsets[population] + N(0, NoiseSD)
//
// clamped to [Min, Max]. Populations missing from GroupOffsets get 0.
func SimulatePhenotype(rng *rand.Rand, m *GenotypeMatrix, p PhenotypeParams) (*Phenotype, error) {
	if m == nil || m.Samples() == 0 {
		return nil, fmt.Errorf("empty genotype matrix")
	}
	if p.CausalLoci <= 0 || p.CausalLoci > m.Markers() {
		return nil, fmt.Errorf("cannot pick %d causal loci from %d markers", p.CausalLoci, m.Markers())
	}
	if p.Min > p.Max {
		return nil, fmt.Errorf("phenotype range [%g, %g] is empty", p.Min, p.Max)
	}

	loci := rng.Perm(m.Markers())[:p.CausalLoci]
	effectDist := distuv.Normal{Mu: 0, Sigma: p.EffectSD, Src: rng}
	effects := make([]float64, len(loci))
	for i := range effects {
		effects[i] = effectDist.Rand()
	}

	noise := distuv.Normal{Mu: 0, Sigma: p.NoiseSD, Src: rng}
	values := make([]float64, m.Samples())
	for i, row := range m.Genotypes {
		genetic := 0.0
		for k, locus := range loci {
			genetic += float64(row[locus]) * effects[k]
		}
		v := p.Baseline + genetic + p.GroupOffsets[m.PopulationOf(i)]
		if p.NoiseSD > 0 {
			v += noise.Rand()
		}
		values[i] = clamp(v, p.Min, p.Max)
	}
	return &Phenotype{Loci: loci, Effects: effects, Values: values}, nil
}

// CorrelatedCount returns max(floor, int(value×slope + N(0, sd))).
func CorrelatedCount(rng *rand.Rand, value, slope, sd float64, floor int) int {
	v := value * slope
	if sd > 0 {
		v += distuv.Normal{Mu: 0, Sigma: sd, Src: rng}.Rand()
	}
	return max(floor, int(v))
}

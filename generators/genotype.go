package generators

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	minFrequency = 0.001
	maxFrequency = 0.999

	// Beta shapes at or below this are degenerate; the ancestral frequency is kept.
	minBetaShape = 0.01
)

// Population is a named subpopulation of diploid samples.
type Population struct {
	Name string
	Size int
}

// GenotypeParams configures SimulateGenotypes.
type GenotypeParams struct {
	Populations []Population
	Markers     int
	Fst         float64
}

// GenotypeMatrix is a samples × markers matrix coded 0/1/2 (count of the
// alternate allele). Samples are ordered by population, in input order.
type GenotypeMatrix struct {
	Populations []string
	SampleGroup []int
	Ancestral   []float64
	Frequencies [][]float64
	Genotypes   [][]uint8
}

// Samples returns the number of rows.
func (m *GenotypeMatrix) Samples() int { return len(m.Genotypes) }

// Markers returns the number of columns.
func (m *GenotypeMatrix) Markers() int { return len(m.Ancestral) }

// PopulationOf returns the population name of sample i.
func (m *GenotypeMatrix) PopulationOf(i int) string {
	return m.Populations[m.SampleGroup[i]]
}

func (p GenotypeParams) validate() error {
	if len(p.Populations) == 0 {
		return fmt.Errorf("at least one population is required")
	}
	for _, pop := range p.Populations {
		if pop.Size <= 0 {
			return fmt.Errorf("population %q has size %d", pop.Name, pop.Size)
		}
	}
	if p.Markers <= 0 {
		return fmt.Errorf("marker count must be positive, got %d", p.Markers)
	}
	if p.Fst <= 0 || p.Fst >= 1 {
		return fmt.Errorf("fst must be in (0, 1), got %g", p.Fst)
	}
	return nil
}

// SimulateGenotypes draws ancestral allele frequencies from Beta(0.5, 0.5),
// drifts them per population with the Balding–Nichols model and samples each
// genotype under Hardy–Weinberg proportions.
func SimulateGenotypes(rng *rand.Rand, p GenotypeParams) (*GenotypeMatrix, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	ancestralDist := distuv.Beta{Alpha: 0.5, Beta: 0.5, Src: rng}
	ancestral := make([]float64, p.Markers)
	for j := range ancestral {
		ancestral[j] = ancestralDist.Rand()
	}

	m := &GenotypeMatrix{
		Populations: make([]string, len(p.Populations)),
		Ancestral:   ancestral,
		Frequencies: make([][]float64, len(p.Populations)),
	}
	for k, pop := range p.Populations {
		m.Populations[k] = pop.Name
		freqs := make([]float64, p.Markers)
		for j, af := range ancestral {
			freqs[j] = BaldingNichols(rng, af, p.Fst)
		}
		m.Frequencies[k] = freqs
	}

	for k, pop := range p.Populations {
		for i := 0; i < pop.Size; i++ {
			row := make([]uint8, p.Markers)
			for j := range row {
				row[j] = HardyWeinberg(rng.Float64(), m.Frequencies[k][j])
			}
			m.SampleGroup = append(m.SampleGroup, k)
			m.Genotypes = append(m.Genotypes, row)
		}
	}
	return m, nil
}

// BaldingNichols draws a population allele frequency from
// Beta(af(1-F)/F, (1-af)(1-F)/F), clamped to [0.001, 0.999].
func BaldingNichols(rng *rand.Rand, af, fst float64) float64 {
	a := af * (1 - fst) / fst
	b := (1 - af) * (1 - fst) / fst
	freq := af
	if a > minBetaShape && b > minBetaShape {
		freq = distuv.Beta{Alpha: a, Beta: b, Src: rng}.Rand()
	}
	return clamp(freq, minFrequency, maxFrequency)
}

// HardyWeinberg maps a uniform draw r to a genotype for alternate-allele
// frequency p: 0 with probability (1-p)², 1 with 2p(1-p), otherwise 2.
func HardyWeinberg(r, p float64) uint8 {
	q := 1 - p
	switch {
	case r < q*q:
		return 0
	case r < q*q+2*p*q:
		return 1
	default:
		return 2
	}
}

// SamplePositions returns n distinct sorted positions in [lo, hi).
func SamplePositions(rng *rand.Rand, n, lo, hi int) ([]int, error) {
	if n < 0 || hi-lo < n {
		return nil, fmt.Errorf("cannot draw %d distinct positions from [%d, %d)", n, lo, hi)
	}
	seen := make(map[int]struct{}, n)
	out := make([]int, 0, n)
	for len(out) < n {
		pos := lo + rng.IntN(hi-lo)
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		out = append(out, pos)
	}
	slices.Sort(out)
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

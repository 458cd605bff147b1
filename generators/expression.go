package generators

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ExpressionParams configures SimulateCounts. Genes [0, Up) are induced in
// treated samples, [Up, Up+Down) are repressed and the remaining genes below
// DifferentiallyExpressed get a random log2 fold change of ±U(0.5, 2).
type ExpressionParams struct {
	Genes                   int
	LibraryFactors          []float64
	Treated                 []bool
	Up, Down                int
	DifferentiallyExpressed int
	BaseMu, BaseSigma       float64
}

func (p ExpressionParams) validate() error {
	if p.Genes <= 0 {
		return fmt.Errorf("gene count must be positive, got %d", p.Genes)
	}
	if len(p.LibraryFactors) == 0 || len(p.LibraryFactors) != len(p.Treated) {
		return fmt.Errorf("need one library factor and treatment flag per sample, got %d and %d",
			len(p.LibraryFactors), len(p.Treated))
	}
	if p.Up < 0 || p.Down < 0 || p.Up+p.Down > p.Genes {
		return fmt.Errorf("up (%d) and down (%d) genes exceed %d genes", p.Up, p.Down, p.Genes)
	}
	return nil
}

// SimulateCounts returns a genes × samples matrix of non-negative counts.
func SimulateCounts(rng *rand.Rand, p ExpressionParams) ([][]int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	baseDist := distuv.LogNormal{Mu: p.BaseMu, Sigma: p.BaseSigma, Src: rng}
	base := make([]float64, p.Genes)
	for i := range base {
		base[i] = math.Max(1, math.Floor(baseDist.Rand()))
	}

	up := distuv.Uniform{Min: 2, Max: 5, Src: rng}
	down := distuv.Uniform{Min: 0.15, Max: 0.45, Src: rng}
	lfc := distuv.Uniform{Min: 0.5, Max: 2, Src: rng}

	counts := make([][]int, p.Genes)
	for i := range counts {
		row := make([]int, len(p.LibraryFactors))
		for j, factor := range p.LibraryFactors {
			mean := base[i] * factor
			if p.Treated[j] {
				switch {
				case i < p.Up:
					mean *= up.Rand()
				case i < p.Up+p.Down:
					mean *= down.Rand()
				case i < p.DifferentiallyExpressed:
					sign := 1.0
					if rng.IntN(2) == 0 {
						sign = -1
					}
					mean *= math.Pow(2, sign*lfc.Rand())
				}
			}
			row[j] = NegativeBinomialCount(rng, mean)
		}
		counts[i] = row
	}
	return counts, nil
}

// NegativeBinomialCount draws an overdispersed count with the given mean as a
// Gamma(r, mean/r) variate, where dispersion = 0.1 + 1/√(mean+1) and
// r = max(0.1, 1/dispersion). When the Gamma parameters are unusable the
// draw falls back to N(mean, √mean).
func NegativeBinomialCount(rng *rand.Rand, mean float64) int {
	if !(mean > 0) || math.IsInf(mean, 0) {
		return 0
	}
	dispersion := 0.1 + 1/math.Sqrt(mean+1)
	r := math.Max(0.1, 1/dispersion)
	v := overdispersed(rng, mean, r, mean/r)
	if !(v > 0) {
		return 0
	}
	return int(v)
}

// overdispersed draws Gamma(shape, scale), or N(mean, √mean) when shape or
// scale is not a finite positive number.
func overdispersed(rng *rand.Rand, mean, shape, scale float64) float64 {
	if validPositive(shape) && validPositive(scale) {
		return distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: rng}.Rand()
	}
	return mean + distuv.Normal{Mu: 0, Sigma: math.Sqrt(mean), Src: rng}.Rand()
}

func validPositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

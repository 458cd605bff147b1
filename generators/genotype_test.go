package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var humanPops = []Population{{"AFR", 34}, {"EUR", 33}, {"EAS", 33}}

func TestSimulateGenotypes_ShapeAndDomain(t *testing.T) {
	m, err := SimulateGenotypes(NewRand(42), GenotypeParams{Populations: humanPops, Markers: 500, Fst: 0.12})
	require.NoError(t, err)

	assert.Equal(t, 100, m.Samples())
	assert.Equal(t, 500, m.Markers())
	assert.Equal(t, "AFR", m.PopulationOf(0))
	assert.Equal(t, "EUR", m.PopulationOf(34))
	assert.Equal(t, "EAS", m.PopulationOf(99))

	for _, row := range m.Genotypes {
		require.Len(t, row, 500)
		for _, g := range row {
			assert.LessOrEqual(t, g, uint8(2))
		}
	}
	for _, freqs := range m.Frequencies {
		for _, f := range freqs {
			assert.GreaterOrEqual(t, f, 0.001)
			assert.LessOrEqual(t, f, 0.999)
		}
	}
}

func TestSimulateGenotypes_Deterministic(t *testing.T) {
	p := GenotypeParams{Populations: humanPops, Markers: 50, Fst: 0.12}
	a, err := SimulateGenotypes(NewRand(42), p)
	require.NoError(t, err)
	b, err := SimulateGenotypes(NewRand(42), p)
	require.NoError(t, err)
	assert.Equal(t, a.Genotypes, b.Genotypes)

	c, err := SimulateGenotypes(NewRand(43), p)
	require.NoError(t, err)
	assert.NotEqual(t, a.Genotypes, c.Genotypes)
}

func TestSimulateGenotypes_InvalidParams(t *testing.T) {
	rng := NewRand(1)
	tests := []struct {
		name string
		p    GenotypeParams
	}{
		{"no populations", GenotypeParams{Markers: 10, Fst: 0.1}},
		{"empty population", GenotypeParams{Populations: []Population{{"X", 0}}, Markers: 10, Fst: 0.1}},
		{"no markers", GenotypeParams{Populations: humanPops, Fst: 0.1}},
		{"fst zero", GenotypeParams{Populations: humanPops, Markers: 10}},
		{"fst one", GenotypeParams{Populations: humanPops, Markers: 10, Fst: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulateGenotypes(rng, tt.p)
			assert.Error(t, err)
		})
	}
}

func TestBaldingNichols_DegenerateKeepsAncestral(t *testing.T) {
	// a = 0.0012 * 0.88 / 0.12 < 0.01, so no Beta draw happens.
	assert.Equal(t, 0.0012, BaldingNichols(NewRand(1), 0.0012, 0.12))
	assert.Equal(t, 0.001, BaldingNichols(NewRand(1), 0.0001, 0.12))
	assert.Equal(t, 0.999, BaldingNichols(NewRand(1), 0.99999, 0.12))
}

func TestHardyWeinberg(t *testing.T) {
	// p = 0.5: thresholds at 0.25 and 0.75.
	assert.Equal(t, uint8(0), HardyWeinberg(0.1, 0.5))
	assert.Equal(t, uint8(1), HardyWeinberg(0.25, 0.5))
	assert.Equal(t, uint8(1), HardyWeinberg(0.7, 0.5))
	assert.Equal(t, uint8(2), HardyWeinberg(0.75, 0.5))
	assert.Equal(t, uint8(0), HardyWeinberg(0.99, 0))
	assert.Equal(t, uint8(2), HardyWeinberg(0.0, 1))
}

func TestSamplePositions(t *testing.T) {
	pos, err := SamplePositions(NewRand(42), 500, 16000000, 51000000)
	require.NoError(t, err)
	require.Len(t, pos, 500)
	for i, p := range pos {
		assert.GreaterOrEqual(t, p, 16000000)
		assert.Less(t, p, 51000000)
		if i > 0 {
			assert.Greater(t, p, pos[i-1])
		}
	}

	all, err := SamplePositions(NewRand(1), 5, 10, 15)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12, 13, 14}, all)

	_, err = SamplePositions(NewRand(1), 6, 10, 15)
	assert.Error(t, err)
}

// BenchmarkSimulateGenotypes measures the Arabidopsis-sized panel.
func BenchmarkSimulateGenotypes(b *testing.B) {
	p := GenotypeParams{
		Populations: []Population{{"W", 60}, {"C", 50}, {"M", 40}, {"A", 30}, {"N", 20}},
		Markers:     1000,
		Fst:         0.15,
	}
	rng := NewRand(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SimulateGenotypes(rng, p); err != nil {
			b.Fatal(err)
		}
	}
}

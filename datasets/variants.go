package datasets

import (
	"context"
	"fmt"

	"github.com/bionotebook/seeddata/generators"
)

var (
	humanPopulations = []generators.Population{{Name: "AFR", Size: 34}, {Name: "EUR", Size: 33}, {Name: "EAS", Size: 33}}
	superpopulations = map[string]string{"AFR": "African", "EUR": "European", "EAS": "East Asian"}
)

const (
	chr22Markers = 500
	chr22Start   = 16000000
	chr22End     = 51000000
	humanFst     = 0.12
)

var genotypeCodes = [3]string{"0", "1", "2"}

func produceVariants(ctx context.Context, e *Env) {
	geno := e.path("nb02", genotypeFile)
	pops := e.path("nb02", populationFile)
	e.Mat.EnsureBundle(ctx, []string{geno, pops}, "1000 Genomes chr22 subset (population-stratified)",
		func(ctx context.Context) (map[string][]byte, error) {
			rng := e.rng()
			positions, err := generators.SamplePositions(rng, chr22Markers, chr22Start, chr22End)
			if err != nil {
				return nil, err
			}
			m, err := generators.SimulateGenotypes(rng, generators.GenotypeParams{
				Populations: humanPopulations,
				Markers:     chr22Markers,
				Fst:         humanFst,
			})
			if err != nil {
				return nil, err
			}

			ids := sampleIDs(m)
			markers := make([]string, len(positions))
			for i, pos := range positions {
				markers[i] = fmt.Sprintf("chr22_%d", pos)
			}
			genoCSV, err := genotypeTable("sample_id", ids, markers, m)
			if err != nil {
				return nil, err
			}

			labels := newTable("sample_id", "population", "superpopulation")
			for i, id := range ids {
				pop := m.PopulationOf(i)
				labels.row(id, pop, superpopulations[pop])
			}
			popCSV, err := labels.bytes()
			if err != nil {
				return nil, err
			}

			e.detail("%d samples x %d SNPs", m.Samples(), m.Markers())
			return map[string][]byte{geno: genoCSV, pops: popCSV}, nil
		})
}

// sampleIDs numbers samples within their population: AFR000, AFR001, ...
func sampleIDs(m *generators.GenotypeMatrix) []string {
	next := make([]int, len(m.Populations))
	ids := make([]string, m.Samples())
	for i, g := range m.SampleGroup {
		ids[i] = fmt.Sprintf("%s%03d", m.Populations[g], next[g])
		next[g]++
	}
	return ids
}

func genotypeTable(idColumn string, ids, markers []string, m *generators.GenotypeMatrix) ([]byte, error) {
	t := newTable(append([]string{idColumn}, markers...)...)
	fields := make([]string, 1+m.Markers())
	for i, row := range m.Genotypes {
		fields[0] = ids[i]
		for j, g := range row {
			fields[j+1] = genotypeCodes[g]
		}
		t.row(fields...)
	}
	return t.bytes()
}

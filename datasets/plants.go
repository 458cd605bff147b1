package datasets

import (
	"context"
	"fmt"

	"github.com/bionotebook/seeddata/generators"
)

var (
	arabidopsisGroups = []generators.Population{
		{Name: "Western Europe", Size: 60},
		{Name: "Central Europe", Size: 50},
		{Name: "Mediterranean", Size: 40},
		{Name: "Central Asia", Size: 30},
		{Name: "North America", Size: 20},
	}
	latitudeOffsets = map[string]float64{
		"Western Europe": 2.0,
		"Central Europe": 0.0,
		"Mediterranean":  -3.0,
		"Central Asia":   1.0,
		"North America":  1.5,
	}
	chromosomeLengths = []int{30000000, 20000000, 23000000, 18500000, 27000000}
)

const (
	arabidopsisSNPs = 1000
	firstPosition   = 1000
	plantFst        = 0.15
	floweringQTLs   = 8
)

func producePlants(ctx context.Context, e *Env) {
	e.Mat.Ensure(ctx, e.path("nb08", cropsFile), "generating", "Crop genome statistics", func(ctx context.Context) ([]byte, error) {
		data, err := cropsTable(e.Tables.Crops)
		if err == nil {
			e.detail("%d crop species", len(e.Tables.Crops))
		}
		return data, err
	})

	snps := e.path("nb08", snpsFile)
	pheno := e.path("nb08", phenotypesFile)
	e.Mat.EnsureBundle(ctx, []string{snps, pheno}, "Arabidopsis 1001 Genomes-like GWAS data",
		func(ctx context.Context) (map[string][]byte, error) {
			return arabidopsisGWAS(e, snps, pheno)
		})
}

func cropsTable(crops []Crop) ([]byte, error) {
	t := newTable("species", "common_name", "genome_size_mb", "ploidy",
		"gene_count", "te_percent", "chromosome_n", "category")
	for _, c := range crops {
		t.row(c.Species, c.CommonName, itoa(c.GenomeSizeMb), itoa(c.Ploidy),
			itoa(c.GeneCount), itoa(c.TEPercent), itoa(c.ChromosomeN), c.Category)
	}
	return t.bytes()
}

func arabidopsisGWAS(e *Env, snpsPath, phenoPath string) (map[string][]byte, error) {
	rng := e.rng()

	perChrom := arabidopsisSNPs / len(chromosomeLengths)
	markers := make([]string, 0, arabidopsisSNPs)
	for c, length := range chromosomeLengths {
		positions, err := generators.SamplePositions(rng, perChrom, firstPosition, length)
		if err != nil {
			return nil, err
		}
		for _, pos := range positions {
			markers = append(markers, fmt.Sprintf("chr%d_%d", c+1, pos))
		}
	}

	m, err := generators.SimulateGenotypes(rng, generators.GenotypeParams{
		Populations: arabidopsisGroups,
		Markers:     len(markers),
		Fst:         plantFst,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, m.Samples())
	for i := range ids {
		ids[i] = fmt.Sprintf("AT%04d", i+1)
	}
	snpCSV, err := genotypeTable("accession_id", ids, markers, m)
	if err != nil {
		return nil, err
	}

	ph, err := generators.SimulatePhenotype(rng, m, generators.PhenotypeParams{
		CausalLoci:   floweringQTLs,
		EffectSD:     2,
		Baseline:     25,
		GroupOffsets: latitudeOffsets,
		NoiseSD:      3,
		Min:          10,
		Max:          60,
	})
	if err != nil {
		return nil, err
	}

	t := newTable("accession_id", "geographic_group", "flowering_time_days", "rosette_leaf_number")
	for i, ft := range ph.Values {
		leaves := generators.CorrelatedCount(rng, ft, 0.4, 1.5, 4)
		t.row(ids[i], m.PopulationOf(i), fmt.Sprintf("%.1f", ft), itoa(leaves))
	}
	phenoCSV, err := t.bytes()
	if err != nil {
		return nil, err
	}

	e.detail("%d accessions x %d SNPs", m.Samples(), m.Markers())
	e.detail("%d flowering time QTLs", len(ph.Loci))
	return map[string][]byte{snpsPath: snpCSV, phenoPath: phenoCSV}, nil
}

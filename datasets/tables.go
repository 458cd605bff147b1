package datasets

import (
	"encoding/json"
	"fmt"

	"github.com/bionotebook/seeddata/embed_data"
	"github.com/bionotebook/seeddata/generators"
)

// Drug is one row of the approved-drugs table. Biologics have no SMILES and
// no computed descriptors.
type Drug struct {
	Name     string   `json:"name"`
	Smiles   *string  `json:"smiles"`
	MW       float64  `json:"mw"`
	LogP     *float64 `json:"logp"`
	HBD      *int     `json:"hbd"`
	HBA      *int     `json:"hba"`
	Category string   `json:"category"`
}

// Crop is one row of the crop genome statistics table.
type Crop struct {
	Species      string `json:"species"`
	CommonName   string `json:"common_name"`
	GenomeSizeMb int    `json:"genome_size_mb"`
	Ploidy       int    `json:"ploidy"`
	GeneCount    int    `json:"gene_count"`
	TEPercent    int    `json:"te_percent"`
	ChromosomeN  int    `json:"chromosome_n"`
	Category     string `json:"category"`
}

// AirwaySample is one sequencing run of the dexamethasone study design.
type AirwaySample struct {
	SampleID  string `json:"sample_id"`
	CellLine  string `json:"cell_line"`
	Treatment string `json:"treatment"`
	Condition string `json:"condition"`
}

// Treated reports whether the sample belongs to the dexamethasone arm.
func (s AirwaySample) Treated() bool { return s.Condition == "trt" }

// AirwayDesign lists the samples and marker genes of the expression dataset.
type AirwayDesign struct {
	Samples        []AirwaySample `json:"samples"`
	LibraryFactors []float64      `json:"library_factors"`
	DexUp          []string       `json:"dex_up"`
	DexDown        []string       `json:"dex_down"`
	RealGenes      []string       `json:"real_genes"`
}

// Source kinds of a RemoteSource.
const (
	SourceEntrez  = "entrez"
	SourceUniProt = "uniprot"
	SourceRCSB    = "rcsb"
	SourceURL     = "url"
)

// RemoteSource is a file retrieved verbatim from a public repository. For
// SourceURL, ID is a path on the 10x Genomics host.
type RemoteSource struct {
	Notebook string `json:"notebook"`
	File     string `json:"file"`
	Source   string `json:"source"`
	DB       string `json:"db,omitempty"`
	ID       string `json:"id"`
	RetType  string `json:"rettype,omitempty"`
	Label    string `json:"label"`
}

// Tables holds every static record used by the producers.
type Tables struct {
	Drugs             []Drug
	Crops             []Crop
	Airway            AirwayDesign
	ProteomeReference []generators.Protein
	Remote            []RemoteSource
}

// LoadTables decodes the embedded data tables.
func LoadTables() (*Tables, error) {
	t := &Tables{}
	decode := []struct {
		name string
		data []byte
		into any
	}{
		{"approved_drugs", embed_data.ApprovedDrugs, &t.Drugs},
		{"crop_genome_stats", embed_data.CropGenomeStats, &t.Crops},
		{"airway", embed_data.Airway, &t.Airway},
		{"proteome_reference", embed_data.ProteomeReference, &t.ProteomeReference},
		{"remote_sources", embed_data.RemoteSources, &t.Remote},
	}
	for _, d := range decode {
		if err := json.Unmarshal(d.data, d.into); err != nil {
			return nil, fmt.Errorf("failed to decode %s table: %w", d.name, err)
		}
	}
	if len(t.Airway.Samples) != len(t.Airway.LibraryFactors) {
		return nil, fmt.Errorf("airway table has %d samples but %d library factors",
			len(t.Airway.Samples), len(t.Airway.LibraryFactors))
	}
	return t, nil
}

// RemoteFor returns the remote sources of one notebook in table order.
func (t *Tables) RemoteFor(notebook string) []RemoteSource {
	var out []RemoteSource
	for _, r := range t.Remote {
		if r.Notebook == notebook {
			out = append(out, r)
		}
	}
	return out
}

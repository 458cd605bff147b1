package datasets

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/bionotebook/seeddata/generators"
	"github.com/bionotebook/seeddata/materializer"
)

const (
	humanTaxon        = 9606
	proteomePageSize  = 500
	proteomeSynthetic = 492
)

var proteomeHeader = []string{"accession", "gene", "length", "protein_name"}

func produceSequences(ctx context.Context, e *Env) {
	e.fetchRemote(ctx, "nb01")
	e.Mat.Ensure(ctx, e.path("nb01", proteomeFile), "UniProt", "Human reviewed proteome (lengths)", e.proteome())
}

// proteome fetches the reviewed human proteome and, when that fails,
// synthesizes a representative table instead of leaving the file missing.
func (e *Env) proteome() materializer.Producer {
	return func(ctx context.Context) ([]byte, error) {
		s := materializer.Strategy{
			Primary: func(ctx context.Context) ([]byte, error) {
				tsv, err := e.Fetcher.Proteome(ctx, humanTaxon, proteomePageSize)
				if err != nil {
					return nil, err
				}
				data, rows, err := ReshapeProteomeTSV(tsv)
				if err != nil {
					return nil, err
				}
				e.detail("%d proteins", rows)
				return data, nil
			},
			Fallback: func(ctx context.Context) ([]byte, error) {
				return proteomeFallback(e.rng(), e.Tables.ProteomeReference)
			},
			OnFallback: func(err error) {
				fmt.Fprintln(e.Out, lipgloss.Red.Render(fmt.Sprintf("  [ERROR] %v", err)))
				fmt.Fprintln(e.Out, lipgloss.Yellow.Render("  [fallback] Generating representative human proteome lengths..."))
				e.Logger.Warnw("proteome fetch failed, writing synthetic table", "error", err)
			},
		}
		a := s.Resolve(ctx)
		if !a.OK() {
			return nil, a.Err
		}
		e.Logger.Debugw("proteome resolved", "origin", a.Origin)
		if a.UsedFallback() {
			e.Mat.RecordFallback()
		}
		return a.Data, nil
	}
}

// ReshapeProteomeTSV converts a UniProt TSV export (header row first) into an
// accession,gene,length,protein_name CSV. Rows with fewer than 3 fields are
// dropped; a missing protein name becomes an empty field. It returns the CSV
// and the number of input data lines.
func ReshapeProteomeTSV(tsv []byte) ([]byte, int, error) {
	lines := bytes.Split(bytes.TrimSpace(tsv), []byte("\n"))
	t := newTable(proteomeHeader...)
	for _, line := range lines[1:] {
		parts := bytes.Split(line, []byte("\t"))
		if len(parts) < 3 {
			continue
		}
		name := ""
		if len(parts) > 3 {
			name = string(parts[3])
		}
		t.row(string(parts[0]), string(parts[1]), string(parts[2]), name)
	}
	data, err := t.bytes()
	return data, len(lines) - 1, err
}

func proteomeFallback(rng *rand.Rand, reference []generators.Protein) ([]byte, error) {
	t := newTable(proteomeHeader...)
	for _, p := range generators.SimulateProteome(rng, reference, proteomeSynthetic) {
		t.row(p.Accession, p.Gene, itoa(p.Length), p.Name)
	}
	return t.bytes()
}

package datasets

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"

	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/bionotebook/seeddata/fetcher/contracts"
	"github.com/bionotebook/seeddata/generators"
	"github.com/bionotebook/seeddata/materializer"
	"go.uber.org/zap"
)

// Env is what every producer works against.
type Env struct {
	Root     string
	Seed     uint64
	TenXBase string
	Fetcher  contracts.IFetcher
	Tables   *Tables
	Mat      *materializer.Materializer
	Out      io.Writer
	Logger   *zap.SugaredLogger
}

func (e *Env) path(notebook, file string) string {
	return filepath.Join(e.Root, notebook, file)
}

// rng returns a fresh generator so each dataset depends only on the seed.
func (e *Env) rng() *rand.Rand {
	return generators.NewRand(e.Seed)
}

func (e *Env) detail(format string, args ...any) {
	fmt.Fprintln(e.Out, lipgloss.Gray.Render("           -> "+fmt.Sprintf(format, args...)))
}

func remoteTag(source string) string {
	switch source {
	case SourceEntrez:
		return "NCBI"
	default:
		return "downloading"
	}
}

// fetchRemote materializes every remote file of a notebook in table order.
func (e *Env) fetchRemote(ctx context.Context, notebook string) {
	for _, src := range e.Tables.RemoteFor(notebook) {
		e.Mat.Ensure(ctx, e.path(notebook, src.File), remoteTag(src.Source), src.Label, func(ctx context.Context) ([]byte, error) {
			return e.fetch(ctx, src)
		})
	}
}

func (e *Env) fetch(ctx context.Context, src RemoteSource) ([]byte, error) {
	switch src.Source {
	case SourceEntrez:
		return e.Fetcher.Entrez(ctx, src.DB, src.ID, src.RetType)
	case SourceUniProt:
		return e.Fetcher.ProteinFASTA(ctx, src.ID)
	case SourceRCSB:
		return e.Fetcher.Structure(ctx, src.ID)
	case SourceURL:
		return e.Fetcher.Download(ctx, e.TenXBase+src.ID)
	default:
		return nil, fmt.Errorf("unknown source kind %q for %s", src.Source, src.File)
	}
}

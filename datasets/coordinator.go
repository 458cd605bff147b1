package datasets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/bionotebook/seeddata/fetcher/contracts"
	"github.com/bionotebook/seeddata/materializer"
	"go.uber.org/zap"
)

// DefaultTenXBase is the 10x Genomics download host.
const DefaultTenXBase = "https://cf.10xgenomics.com"

var rule = strings.Repeat("=", 60)

// Options configures a Coordinator. Tables defaults to the embedded tables.
type Options struct {
	Root     string
	Seed     uint64
	TenXBase string
	Fetcher  contracts.IFetcher
	Tables   *Tables
	Out      io.Writer
	Logger   *zap.SugaredLogger
}

// Coordinator runs the notebook producers in catalog order.
type Coordinator struct {
	env       *Env
	notebooks []Notebook
}

// UnknownNotebookError is returned by Select for an id missing from the catalog.
type UnknownNotebookError struct {
	ID string
}

func (e *UnknownNotebookError) Error() string {
	return fmt.Sprintf("unknown notebook %q", e.ID)
}

// NewCoordinator initializes a new Coordinator.
func NewCoordinator(opts Options) (*Coordinator, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("a fetcher is required")
	}
	if opts.Root == "" {
		return nil, errors.New("a data directory is required")
	}
	if opts.Tables == nil {
		t, err := LoadTables()
		if err != nil {
			return nil, err
		}
		opts.Tables = t
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.TenXBase == "" {
		opts.TenXBase = DefaultTenXBase
	}

	env := &Env{
		Root:     opts.Root,
		Seed:     opts.Seed,
		TenXBase: strings.TrimRight(opts.TenXBase, "/"),
		Fetcher:  opts.Fetcher,
		Tables:   opts.Tables,
		Mat:      materializer.New(opts.Out, opts.Logger),
		Out:      opts.Out,
		Logger:   opts.Logger,
	}
	return &Coordinator{env: env, notebooks: Catalog(opts.Tables)}, nil
}

// Notebooks returns the catalog in run order.
func (c *Coordinator) Notebooks() []Notebook {
	return c.notebooks
}

// Select returns the notebooks named by ids in catalog order, or all of them
// when ids is empty.
func (c *Coordinator) Select(ids []string) ([]Notebook, error) {
	if len(ids) == 0 {
		return c.notebooks, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if !c.known(id) {
			return nil, &UnknownNotebookError{ID: id}
		}
		want[id] = true
	}
	var out []Notebook
	for _, nb := range c.notebooks {
		if want[nb.ID] {
			out = append(out, nb)
		}
	}
	return out, nil
}

func (c *Coordinator) known(id string) bool {
	for _, nb := range c.notebooks {
		if nb.ID == id {
			return true
		}
	}
	return false
}

// Run produces the selected notebooks one after another. Artifact failures are
// reported and counted but never stop the run; only an unknown notebook id or
// a cancelled context returns an error.
func (c *Coordinator) Run(ctx context.Context, ids ...string) (materializer.Snapshot, error) {
	selected, err := c.Select(ids)
	if err != nil {
		return materializer.Snapshot{}, err
	}

	out := c.env.Out
	fmt.Fprintln(out, lipgloss.BlueSky.Render(rule))
	fmt.Fprintln(out, lipgloss.BlueSky.Render("Bioinformatics Notebook Data Downloader"))
	fmt.Fprintln(out, lipgloss.BlueSky.Render(rule))

	for _, nb := range selected {
		if err := ctx.Err(); err != nil {
			c.env.Logger.Warnw("run interrupted", "next", nb.ID)
			return c.env.Mat.Stats(), err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, lipgloss.Info.Render(fmt.Sprintf("=== %s: %s ===", strings.ToUpper(nb.ID), nb.Title)))
		if nb.Notice != "" {
			fmt.Fprintln(out, lipgloss.Gray.Render("  [skip] "+nb.Notice))
			continue
		}
		c.env.Logger.Debugw("producing notebook data", "notebook", nb.ID, "files", len(nb.Files))
		nb.produce(ctx, c.env)
	}

	stats := c.env.Mat.Stats()
	fmt.Fprintln(out)
	fmt.Fprintln(out, lipgloss.BlueSky.Render(rule))
	fmt.Fprintln(out, lipgloss.BlueSky.Render("Data download complete!"))
	fmt.Fprintln(out, lipgloss.BlueSky.Render(rule))
	c.env.Logger.Infow("run finished",
		"written", stats.Written, "skipped", stats.Skipped, "failed", stats.Failed,
		"bytes", stats.BytesWritten, "elapsed", stats.Elapsed)
	return stats, nil
}

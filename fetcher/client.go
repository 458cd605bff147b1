package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bionotebook/seeddata/fetcher/contracts"
)

const (
	defaultUserAgent     = "BioNotebook/1.0"
	defaultTimeout       = 60 * time.Second
	defaultStreamTimeout = 120 * time.Second
	defaultEntrezDelay   = 500 * time.Millisecond

	defaultEntrezBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	defaultUniProtBase = "https://rest.uniprot.org"
	defaultRCSBBase    = "https://files.rcsb.org"
)

// ErrStatus is wrapped by every HTTPError.
var ErrStatus = errors.New("unexpected response status")

// HTTPError reports a non-2xx response.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

func (e *HTTPError) Unwrap() error { return ErrStatus }

// Config configures a Client. Zero values fall back to the public endpoints
// and default timings; a negative EntrezDelay disables the pause.
type Config struct {
	UserAgent     string
	Timeout       time.Duration
	StreamTimeout time.Duration
	EntrezDelay   time.Duration
	EntrezBase    string
	UniProtBase   string
	RCSBBase      string
	HTTPClient    *http.Client
}

// Client implements contracts.IFetcher over plain HTTP GET requests.
type Client struct {
	http          *http.Client
	userAgent     string
	timeout       time.Duration
	streamTimeout time.Duration
	entrezDelay   time.Duration
	entrezBase    string
	uniprotBase   string
	rcsbBase      string
	sleep         func(ctx context.Context, d time.Duration)
}

// NewClient initializes a new Client.
func NewClient(config Config) contracts.IFetcher {
	return newClient(config)
}

func newClient(config Config) *Client {
	c := &Client{
		http:          config.HTTPClient,
		userAgent:     orDefault(config.UserAgent, defaultUserAgent),
		timeout:       config.Timeout,
		streamTimeout: config.StreamTimeout,
		entrezDelay:   config.EntrezDelay,
		entrezBase:    strings.TrimRight(orDefault(config.EntrezBase, defaultEntrezBase), "/"),
		uniprotBase:   strings.TrimRight(orDefault(config.UniProtBase, defaultUniProtBase), "/"),
		rcsbBase:      strings.TrimRight(orDefault(config.RCSBBase, defaultRCSBBase), "/"),
		sleep:         sleepContext,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.streamTimeout <= 0 {
		c.streamTimeout = defaultStreamTimeout
	}
	if c.entrezDelay == 0 {
		c.entrezDelay = defaultEntrezDelay
	}
	return c
}

// Download fetches an arbitrary URL and returns the response body.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, c.timeout)
}

// Entrez fetches a record from the NCBI efetch endpoint and then pauses for
// the configured delay to stay within the NCBI request-rate policy.
func (c *Client) Entrez(ctx context.Context, db, accession, rettype string) ([]byte, error) {
	q := url.Values{}
	q.Set("db", db)
	q.Set("id", accession)
	q.Set("rettype", rettype)
	q.Set("retmode", "text")

	data, err := c.get(ctx, c.entrezBase+"/efetch.fcgi?"+q.Encode(), c.timeout)
	if err != nil {
		return nil, err
	}
	if c.entrezDelay > 0 {
		c.sleep(ctx, c.entrezDelay)
	}
	return data, nil
}

// Structure fetches a PDB-format coordinate file.
func (c *Client) Structure(ctx context.Context, pdbID string) ([]byte, error) {
	if pdbID == "" {
		return nil, fmt.Errorf("empty PDB identifier")
	}
	return c.Download(ctx, fmt.Sprintf("%s/download/%s.pdb", c.rcsbBase, url.PathEscape(pdbID)))
}

// ProteinFASTA fetches a single UniProtKB entry in FASTA format.
func (c *Client) ProteinFASTA(ctx context.Context, accession string) ([]byte, error) {
	if accession == "" {
		return nil, fmt.Errorf("empty UniProt accession")
	}
	return c.Download(ctx, fmt.Sprintf("%s/uniprotkb/%s.fasta", c.uniprotBase, url.PathEscape(accession)))
}

// Proteome streams the reviewed proteome of an organism as TSV with the
// accession, gene_primary, length and protein_name columns.
func (c *Client) Proteome(ctx context.Context, organismID int, size int) ([]byte, error) {
	u := fmt.Sprintf("%s/uniprotkb/stream?query=organism_id:%d+AND+reviewed:true&fields=accession,gene_primary,length,protein_name&format=tsv&size=%d",
		c.uniprotBase, organismID, size)
	return c.get(ctx, u, c.streamTimeout)
}

func (c *Client) get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &HTTPError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", rawURL, err)
	}
	return data, nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

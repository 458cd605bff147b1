package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := newClient(Config{
		EntrezBase:  srv.URL + "/entrez/eutils",
		UniProtBase: srv.URL,
		RCSBBase:    srv.URL,
	})
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestClient_EntrezBuildsQueryAndPauses(t *testing.T) {
	var gotPath, gotUA string
	var gotQuery map[string][]string
	c, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(">NM_007294.4 BRCA1\nACGT\n"))
	})

	data, err := c.Entrez(context.Background(), "nucleotide", "NM_007294.4", "fasta")
	require.NoError(t, err)

	assert.Equal(t, ">NM_007294.4 BRCA1\nACGT\n", string(data))
	assert.Equal(t, "/entrez/eutils/efetch.fcgi", gotPath)
	assert.Equal(t, "nucleotide", gotQuery["db"][0])
	assert.Equal(t, "NM_007294.4", gotQuery["id"][0])
	assert.Equal(t, "fasta", gotQuery["rettype"][0])
	assert.Equal(t, "text", gotQuery["retmode"][0])
	assert.Equal(t, "BioNotebook/1.0", gotUA)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, *slept)
}

func TestClient_EntrezFailureDoesNotPause(t *testing.T) {
	c, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	})

	_, err := c.Entrez(context.Background(), "nucleotide", "U00096.3", "gb")
	require.Error(t, err)
	assert.Empty(t, *slept)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestClient_StructureAndProteinURLs(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte("ok"))
	})

	_, err := c.Structure(context.Background(), "1CRN")
	require.NoError(t, err)
	_, err = c.ProteinFASTA(context.Background(), "P69905")
	require.NoError(t, err)

	assert.Equal(t, []string{"/download/1CRN.pdb", "/uniprotkb/P69905.fasta"}, paths)

	_, err = c.Structure(context.Background(), "")
	assert.Error(t, err)
	_, err = c.ProteinFASTA(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_ProteomeQuery(t *testing.T) {
	var rawQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("Entry\tGene Names (primary)\tLength\tProtein names\n"))
	})

	_, err := c.Proteome(context.Background(), 9606, 500)
	require.NoError(t, err)
	assert.Contains(t, rawQuery, "query=organism_id:9606+AND+reviewed:true")
	assert.Contains(t, rawQuery, "fields=accession,gene_primary,length,protein_name")
	assert.Contains(t, rawQuery, "format=tsv")
	assert.Contains(t, rawQuery, "size=500")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newClient(Config{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Download(context.Background(), srv.URL+"/slow")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Defaults(t *testing.T) {
	c := newClient(Config{})
	assert.Equal(t, "BioNotebook/1.0", c.userAgent)
	assert.Equal(t, 60*time.Second, c.timeout)
	assert.Equal(t, 120*time.Second, c.streamTimeout)
	assert.Equal(t, 500*time.Millisecond, c.entrezDelay)
	assert.Equal(t, "https://files.rcsb.org", c.rcsbBase)
}

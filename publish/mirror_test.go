package publish

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeBucket is an in-memory S3 endpoint handling HEAD and PUT on path-style
// URLs (/bucket/key).
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	puts    int
	failPut bool
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	empty := func(code int, h http.Header) *http.Response {
		return &http.Response{StatusCode: code, Body: io.NopCloser(bytes.NewReader(nil)), Header: h, Request: req}
	}

	switch req.Method {
	case http.MethodHead:
		if body, ok := f.objects[key]; ok {
			return empty(http.StatusOK, http.Header{"Content-Length": {strconv.Itoa(len(body))}}), nil
		}
		return empty(http.StatusNotFound, http.Header{}), nil
	case http.MethodPut:
		if f.failPut {
			return empty(http.StatusForbidden, http.Header{}), nil
		}
		body, _ := io.ReadAll(req.Body)
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			body = decodeAWSChunked(body)
		}
		f.puts++
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		return empty(http.StatusOK, http.Header{"Etag": {`"etag"`}}), nil
	}
	return empty(http.StatusNotImplemented, http.Header{}), nil
}

func decodeAWSChunked(b []byte) []byte {
	var out []byte
	for {
		i := bytes.Index(b, []byte("\r\n"))
		if i < 0 {
			return out
		}
		sizeField := strings.SplitN(string(b[:i]), ";", 2)[0]
		size, err := strconv.ParseInt(sizeField, 16, 64)
		if err != nil || size == 0 {
			return out
		}
		b = b[i+2:]
		out = append(out, b[:size]...)
		b = b[size+2:]
	}
}

func newTestMirror(t *testing.T, bucket *fakeBucket, prefix string) (*Mirror, *bytes.Buffer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.ErrorLevel)
	var out bytes.Buffer
	m, err := New(context.Background(), Config{
		Bucket:          "teaching-data",
		Endpoint:        "https://mock.s3.local",
		Prefix:          prefix,
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: bucket},
	}, &out, zap.New(core).Sugar())
	require.NoError(t, err)
	return m, &out, logs
}

func writeTree(t *testing.T, root string, files map[string]string) []string {
	t.Helper()
	var paths []string
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		paths = append(paths, p)
	}
	return paths
}

func TestMirror_UploadsThenSkips(t *testing.T) {
	root := t.TempDir()
	paths := writeTree(t, root, map[string]string{
		"nb02/1kg_populations.csv": "sample_id,population,superpopulation\r\nAFR000,AFR,African\r\n",
		"nb04/1crn.pdb":            "HEADER    PLANT PROTEIN\n",
	})
	paths = append(paths, filepath.Join(root, "nb05", "airway_counts.csv"))

	bucket := newFakeBucket()
	m, out, _ := newTestMirror(t, bucket, "/course-2026/")

	results := m.Publish(context.Background(), root, paths)
	require.Len(t, results, 2, "missing local files are ignored")
	s := Summarize(results)
	assert.Equal(t, 2, s.Uploaded)
	assert.Equal(t, 0, s.Failed)

	assert.Equal(t, "sample_id,population,superpopulation\r\nAFR000,AFR,African\r\n",
		string(bucket.objects["course-2026/nb02/1kg_populations.csv"]))
	assert.Equal(t, "text/csv", bucket.types["course-2026/nb02/1kg_populations.csv"])
	assert.Equal(t, "text/plain", bucket.types["course-2026/nb04/1crn.pdb"])
	assert.Contains(t, out.String(), "[upload] s3://teaching-data/course-2026/nb04/1crn.pdb")

	results = m.Publish(context.Background(), root, paths)
	s = Summarize(results)
	assert.Equal(t, 0, s.Uploaded)
	assert.Equal(t, 2, s.Existing)
	assert.Equal(t, 2, bucket.puts)
	assert.Contains(t, out.String(), "already exists")
}

func TestMirror_PutFailureIsReported(t *testing.T) {
	root := t.TempDir()
	paths := writeTree(t, root, map[string]string{"nb08/crop_genome_stats.csv": "species\r\n"})

	bucket := newFakeBucket()
	bucket.failPut = true
	m, out, logs := newTestMirror(t, bucket, "")

	results := m.Publish(context.Background(), root, paths)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Equal(t, "nb08/crop_genome_stats.csv", results[0].Key)
	assert.Equal(t, 1, Summarize(results).Failed)
	assert.Contains(t, out.String(), "[ERROR]")
	assert.Equal(t, 1, logs.Len())
}

func TestMirror_Key(t *testing.T) {
	m, _, _ := newTestMirror(t, newFakeBucket(), "data")
	key, err := m.Key("/srv/data", "/srv/data/nb01/puc19.gb")
	require.NoError(t, err)
	assert.Equal(t, "data/nb01/puc19.gb", key)

	_, err = m.Key("/srv/data", "/etc/passwd")
	assert.Error(t, err)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil, nil)
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/gzip", contentType("pbmc3k_filtered_gene_bc_matrices.tar.gz"))
	assert.Equal(t, "text/plain", contentType("brca1_mrna.fasta"))
	assert.Equal(t, "application/octet-stream", contentType("blob.unknownext"))
}

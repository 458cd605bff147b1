package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bionotebook/seeddata/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFetch_BuiltInNotebooksOnly(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "fetch", "nb06", "nb07", "--data_dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "=== NB06: Clinical Informatics ===")
	assert.Contains(t, out, "=== NB07: Biomedical Image Analysis ===")
	assert.Contains(t, out, "Data download complete!")
	assert.NotContains(t, out, "NB01")
}

func TestFetch_UnknownNotebook(t *testing.T) {
	_, err := execute(t, "fetch", "nb42", "--data_dir", t.TempDir())
	assert.ErrorContains(t, err, `unknown notebook "nb42"`)
}

func TestStatus_ReportsPresentAndMissing(t *testing.T) {
	dir := t.TempDir()
	pdb := filepath.Join(dir, "nb04", "1crn.pdb")
	require.NoError(t, os.MkdirAll(filepath.Dir(pdb), 0755))
	require.NoError(t, os.WriteFile(pdb, []byte("HEADER    PLANT PROTEIN\n"), 0644))

	out, err := execute(t, "status", "--data_dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1crn.pdb")
	assert.Contains(t, out, "built-in")
	assert.Contains(t, out, "1 of 17 files present")
}

func TestPublish_RequiresBucket(t *testing.T) {
	t.Setenv("SEEDDATA_S3_BUCKET", "")
	_, err := execute(t, "publish", "--force", "--data_dir", t.TempDir())
	assert.ErrorContains(t, err, "no bucket configured")
}

func TestDigestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("gene_id\r\n"), 0644))

	a, err := digestFile(path)
	require.NoError(t, err)
	assert.Len(t, a, 16)

	b, err := digestFile(path)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = digestFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "seeddata version 1.0.0")
	require.NoError(t, rootCmd.Flags().Set("version", "false"))
}

func TestMirrorConfig_CarriesCredentials(t *testing.T) {
	got := mirrorConfig(config.S3Config{
		Bucket:          "teaching-data",
		Region:          "eu-west-1",
		Endpoint:        "http://minio.local:9000",
		Prefix:          "course-2026",
		PathStyle:       true,
		AccessKeyID:     "AKIDTEACHING",
		SecretAccessKey: "classroom-secret",
	})
	assert.Equal(t, "teaching-data", got.Bucket)
	assert.Equal(t, "eu-west-1", got.Region)
	assert.Equal(t, "http://minio.local:9000", got.Endpoint)
	assert.Equal(t, "course-2026", got.Prefix)
	assert.True(t, got.PathStyle)
	assert.Equal(t, "AKIDTEACHING", got.AccessKeyID)
	assert.Equal(t, "classroom-secret", got.SecretAccessKey)
}

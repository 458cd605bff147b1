package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/bionotebook/seeddata/materializer"
	"go.uber.org/zap"
)

// Config holds the bucket coordinates. Endpoint and PathStyle target
// S3-compatible stores such as MinIO; empty credentials fall back to the
// default AWS credential chain.
type Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	Prefix          string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	HTTPClient      *http.Client
}

// Mirror uploads the data tree to a bucket, one object per artifact. Objects
// that already exist are left alone, mirroring the local write-once policy.
type Mirror struct {
	client *s3.Client
	bucket string
	prefix string
	out    io.Writer
	logger *zap.SugaredLogger
}

// Result describes what happened to one artifact.
type Result struct {
	Path     string
	Key      string
	Uploaded bool
	Bytes    int64
	Err      error
}

// New creates a Mirror from cfg.
func New(ctx context.Context, cfg Config, out io.Writer, logger *zap.SugaredLogger) (*Mirror, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})

	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Mirror{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		out:    out,
		logger: logger,
	}, nil
}

// Key maps a file under root to its object key: <prefix>/<notebook>/<file>.
func (m *Mirror) Key(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", file, root)
	}
	return path.Join(m.prefix, filepath.ToSlash(rel)), nil
}

// Publish uploads every present file in paths. Missing local files are
// ignored; per-object failures are reported in the results and logged.
func (m *Mirror) Publish(ctx context.Context, root string, paths []string) []Result {
	var results []Result
	for _, p := range paths {
		if !materializer.Present(p) {
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Path: p, Err: err})
			break
		}
		results = append(results, m.publishOne(ctx, root, p))
	}
	return results
}

func (m *Mirror) publishOne(ctx context.Context, root, file string) Result {
	key, err := m.Key(root, file)
	if err != nil {
		return m.fail(Result{Path: file}, err)
	}
	res := Result{Path: file, Key: key}

	exists, err := m.exists(ctx, key)
	if err != nil {
		return m.fail(res, err)
	}
	if exists {
		fmt.Fprintln(m.out, lipgloss.Gray.Render(fmt.Sprintf("  [skip] s3://%s/%s already exists", m.bucket, key)))
		return res
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return m.fail(res, fmt.Errorf("failed to read %s: %w", filepath.Base(file), err))
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(file)),
	}
	if _, err := m.client.PutObject(ctx, input); err != nil {
		return m.fail(res, fmt.Errorf("failed to upload %s: %w", key, err))
	}
	res.Uploaded = true
	res.Bytes = int64(len(data))
	fmt.Fprintln(m.out, lipgloss.Green.Render(fmt.Sprintf("  [upload] s3://%s/%s (%d bytes)", m.bucket, key, len(data))))
	return res
}

func (m *Mirror) exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(m.bucket), Key: aws.String(key)})
	if err == nil {
		return true, nil
	}
	var status interface{ HTTPStatusCode() int }
	if errors.As(err, &status) && status.HTTPStatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("failed to check %s: %w", key, err)
}

func (m *Mirror) fail(res Result, err error) Result {
	res.Err = err
	fmt.Fprintln(m.out, lipgloss.Red.Render(fmt.Sprintf("  [ERROR] %v", err)))
	m.logger.Errorw("object not published", "path", res.Path, "key", res.Key, "error", err)
	return res
}

func contentType(file string) string {
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".csv":
		return "text/csv"
	case ".fasta", ".gb", ".pdb":
		return "text/plain"
	case ".gz":
		return "application/gzip"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}

// Summary counts uploaded, already present and failed objects.
type Summary struct {
	Uploaded int
	Existing int
	Failed   int
	Bytes    int64
}

// Summarize folds results into a Summary.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Uploaded:
			s.Uploaded++
			s.Bytes += r.Bytes
		default:
			s.Existing++
		}
	}
	return s
}

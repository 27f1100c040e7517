package source

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

// createGzipFile writes contents as a gzipped file.
func createGzipFile(t *testing.T, filename, contents string) string {
	filePath := filepath.Join(t.TempDir(), filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return filePath
}

func TestFileLoader_Load_Plain(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "inventory.csv")
	require.NoError(t, os.WriteFile(filePath, []byte("a,b\n"), 0o644))

	rc, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), filePath)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", readAll(t, rc))
}

func TestFileLoader_Load_Gzip(t *testing.T) {
	filePath := createGzipFile(t, "inventory.csv.gz", "compressed,data\n")

	rc, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), filePath)
	require.NoError(t, err)
	assert.Equal(t, "compressed,data\n", readAll(t, rc))
}

func TestFileLoader_Load_CorruptGzip(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "inventory.csv.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("not gzip"), 0o644))

	_, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), filePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileLoader_Load_Missing(t *testing.T) {
	_, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileLoader_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLoader(zerolog.Nop()).Load(ctx, "whatever.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, name string) (io.ReadCloser, error)
}

func (m *mockLoader) Load(ctx context.Context, name string) (io.ReadCloser, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, name)
	}
	return nil, errors.New("not implemented")
}

func body(s string) io.ReadCloser { return io.NopCloser(strings.NewReader(s)) }

func missing(name string) (io.ReadCloser, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func TestFallbackLoader_LocalWins(t *testing.T) {
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
			return body("local"), nil
		},
	}
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
			t.Error("S3 loader should not be called when the local file exists")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(fileLoader, s3Loader, "inventory/", true, zerolog.Nop())

	rc, err := fallback.Load(context.Background(), "data/warehouse.csv")
	require.NoError(t, err)
	assert.Equal(t, "local", readAll(t, rc))
}

func TestFallbackLoader_MissingLocalSeedsFromS3(t *testing.T) {
	fileLoader := &mockLoader{loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
		return missing(name)
	}}
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
			assert.Equal(t, "inventory/warehouse.csv", name, "S3 key should be prefix plus base name")
			return body("remote"), nil
		},
	}

	fallback := NewFallbackLoader(fileLoader, s3Loader, "inventory/", true, zerolog.Nop())

	rc, err := fallback.Load(context.Background(), "data/warehouse.csv")
	require.NoError(t, err)
	assert.Equal(t, "remote", readAll(t, rc))
}

func TestFallbackLoader_LocalReadErrorIsNotMasked(t *testing.T) {
	fileLoader := &mockLoader{loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	}}
	s3Loader := &mockLoader{loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
		t.Error("S3 loader should only be used for a missing local file")
		return nil, errors.New("should not be called")
	}}

	fallback := NewFallbackLoader(fileLoader, s3Loader, "", true, zerolog.Nop())

	_, err := fallback.Load(context.Background(), "warehouse.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestFallbackLoader_S3Disabled(t *testing.T) {
	fileLoader := &mockLoader{loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
		return missing(name)
	}}
	s3Loader := &mockLoader{loadFunc: func(ctx context.Context, name string) (io.ReadCloser, error) {
		t.Error("S3 loader should not be called when S3 is disabled")
		return nil, errors.New("should not be called")
	}}

	tests := []struct {
		name     string
		s3Loader Loader
		enabled  bool
	}{
		{name: "disabled", s3Loader: s3Loader, enabled: false},
		{name: "nil loader", s3Loader: nil, enabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := NewFallbackLoader(fileLoader, tt.s3Loader, "inventory/", tt.enabled, zerolog.Nop())

			_, err := fallback.Load(context.Background(), "warehouse.csv")
			assert.ErrorIs(t, err, fs.ErrNotExist)
		})
	}
}

// mockObjectGetter stands in for the S3 client.
type mockObjectGetter struct {
	getObject func(ctx context.Context, params *s3.GetObjectInput) (*s3.GetObjectOutput, error)
}

func (m *mockObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.getObject(ctx, params)
}

func TestS3Loader_Load(t *testing.T) {
	client := &mockObjectGetter{
		getObject: func(ctx context.Context, params *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "inventory-bucket", *params.Bucket)
			assert.Equal(t, "inventory/warehouse.csv", *params.Key)
			return &s3.GetObjectOutput{Body: body("remote,data\n")}, nil
		},
	}

	loader := NewS3LoaderWithClient(client, "inventory-bucket", zerolog.Nop())

	rc, err := loader.Load(context.Background(), "inventory/warehouse.csv")
	require.NoError(t, err)
	assert.Equal(t, "remote,data\n", readAll(t, rc))
}

func TestS3Loader_NoSuchKey(t *testing.T) {
	client := &mockObjectGetter{
		getObject: func(ctx context.Context, params *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			return nil, &types.NoSuchKey{}
		},
	}

	_, err := NewS3LoaderWithClient(client, "bucket", zerolog.Nop()).Load(context.Background(), "missing.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestS3Loader_ClientError(t *testing.T) {
	client := &mockObjectGetter{
		getObject: func(ctx context.Context, params *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, err := NewS3LoaderWithClient(client, "bucket", zerolog.Nop()).Load(context.Background(), "inv.csv")
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "bucket=bucket")
}

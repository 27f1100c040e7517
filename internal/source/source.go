// Package source opens the backing inventory file from local disk or S3.
package source

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
)

// Loader defines the interface for opening a backing file.
type Loader interface {
	// Load opens the named backing file for reading. Names ending in ".gz"
	// are transparently decompressed. A missing file yields an error that
	// matches fs.ErrNotExist.
	Load(ctx context.Context, name string) (io.ReadCloser, error)
}

// gzipReadCloser closes both the decompressor and the underlying stream.
type gzipReadCloser struct {
	*gzip.Reader
	underlying io.Closer
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.underlying.Close(); err != nil {
		return err
	}
	return gzErr
}

// decompress wraps rc in a gzip reader when name carries a .gz suffix.
func decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	if !strings.HasSuffix(name, ".gz") {
		return rc, nil
	}

	gz, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
	}
	return &gzipReadCloser{Reader: gz, underlying: rc}, nil
}

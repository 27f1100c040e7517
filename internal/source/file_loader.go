package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new local file loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "file-loader").Logger(),
	}
}

// Load opens the file at path.
func (l *fileLoader) Load(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug().Str("file", path).Msg("inventory file does not exist")
		} else {
			l.logger.Error().Err(err).Str("file", path).Msg("failed to open inventory file")
		}
		return nil, fmt.Errorf("failed to open inventory file %s: %w", path, err)
	}

	l.logger.Debug().Str("file", path).Msg("opened inventory file")
	return decompress(path, file)
}

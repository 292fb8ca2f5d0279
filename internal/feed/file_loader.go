package feed

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"little-lemon/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for a menu document on the local file system.
type fileLoader struct {
	path         string
	imageBaseURL string
	logger       zerolog.Logger
}

// NewFileLoader creates a loader for the menu document at path.
// Files ending in .gz are decompressed.
func NewFileLoader(path, imageBaseURL string, logger zerolog.Logger) Loader {
	return &fileLoader{
		path:         path,
		imageBaseURL: imageBaseURL,
		logger:       logger.With().Str("component", "file-feed-loader").Logger(),
	}
}

func (l *fileLoader) Name() string {
	return "file"
}

// Load reads and maps the menu document.
func (l *fileLoader) Load(ctx context.Context) ([]model.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", l.path).Msg("loading menu feed file")

	file, err := os.Open(l.path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", l.path).Msg("failed to open menu feed file")
		return nil, fmt.Errorf("failed to open menu feed file %s: %w", l.path, err)
	}
	defer file.Close()

	items, err := decodeMaybeGzip(file, l.path, l.imageBaseURL)
	if err != nil {
		l.logger.Error().Err(err).Str("file", l.path).Msg("failed to read menu feed file")
		return nil, err
	}

	l.logger.Info().
		Str("file", l.path).
		Int("items", len(items)).
		Msg("menu feed file loaded successfully")

	return items, nil
}

// decodeMaybeGzip decodes r, decompressing it first when name ends in .gz.
func decodeMaybeGzip(r io.Reader, name, imageBaseURL string) ([]model.MenuItem, error) {
	if !strings.HasSuffix(name, ".gz") {
		return Decode(r, imageBaseURL)
	}

	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
	}
	defer gzipReader.Close()

	return Decode(gzipReader, imageBaseURL)
}

package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped code files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based promo code loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promo-loader").Logger(),
	}
}

// Load reads a gzipped code file and returns a CodeSet. The file contains
// one promo code per line.
func (l *fileLoader) Load(ctx context.Context, path string) (CodeSet, error) {
	l.logger.Info().Str("file", path).Msg("loading promo code file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open promo code file")
		return nil, fmt.Errorf("failed to open promo code file %s: %w", path, err)
	}
	defer file.Close()

	set, err := readCodes(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read promo code file")
		return nil, fmt.Errorf("failed to read promo code file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", set.Size()).
		Msg("promo code file loaded successfully")

	return set, nil
}

// readCodes decompresses and scans a code stream into a set. Shared by the
// file and S3 loaders.
func readCodes(ctx context.Context, r io.Reader) (CodeSet, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	set := NewMapCodeSet(1024).(*mapCodeSet)

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineCount := 0
	for scanner.Scan() {
		// Check context cancellation periodically
		if lineCount%100_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			set.Add(line)
			lineCount++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning promo codes: %w", err)
	}

	return set, nil
}

package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"promo-service/internal/model"

	"github.com/rs/zerolog"
)

// Loader defines the interface for loading promo seed files.
type Loader interface {
	// Load reads a seed file and returns its promo code records. Files
	// whose name ends in .gz are transparently gunzipped.
	Load(ctx context.Context, path string) ([]model.PromoCode, error)
}

// fileLoader implements Loader for seed files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a JSON seed file containing an array of promo code records.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.PromoCode, error) {
	l.logger.Info().Str("file", path).Msg("loading promo seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	promos, err := decodeSeed(file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode seed file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("promos_loaded", len(promos)).
		Msg("promo seed file loaded")

	return promos, nil
}

// decodeSeed parses a seed stream, gunzipping first when the name ends
// in .gz.
func decodeSeed(r io.Reader, name string) ([]model.PromoCode, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var promos []model.PromoCode
	if err := json.NewDecoder(r).Decode(&promos); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", name, err)
	}

	return promos, nil
}

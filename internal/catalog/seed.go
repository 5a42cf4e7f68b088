package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// seedDocument is the YAML layout of a seed file.
type seedDocument struct {
	Movies []Movie `yaml:"movies"`
}

// LoadSeedFile reads and parses a YAML seed file.
func LoadSeedFile(path string) ([]Movie, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML. Every movie needs a title and titles must be
// unique.
func ParseSeed(data []byte) ([]Movie, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	seen := make(map[string]bool, len(doc.Movies))
	for i, m := range doc.Movies {
		if m.Title == "" {
			return nil, fmt.Errorf("seed movie %d: %w", i, ErrInvalidMovie)
		}
		if seen[m.Title] {
			return nil, fmt.Errorf("seed movie %q: %w", m.Title, ErrMovieExists)
		}
		seen[m.Title] = true
	}
	return doc.Movies, nil
}

// Seed inserts movies when the catalog is empty and returns how many were
// added. A populated catalog is left untouched.
func Seed(ctx context.Context, repo Repository, movies []Movie, logger *slog.Logger) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking movie count: %w", err)
	}

	if count > 0 {
		logger.Info("catalog populated, skipping seed", "movies", count)
		return 0, nil
	}

	added := 0
	for i := range movies {
		m := movies[i]
		if err := repo.Create(ctx, &m); err != nil {
			if errors.Is(err, ErrMovieExists) {
				continue
			}
			return added, fmt.Errorf("seeding %q: %w", m.Title, err)
		}
		added++
	}

	logger.Info("catalog seeded", "movies", added)
	return added, nil
}

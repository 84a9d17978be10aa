package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileRepository exports and imports cached anime as JSON or YAML files
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

// isYAML reports whether path names a YAML file; everything else is JSON
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Import reads anime from a file
func (r *FileRepository) Import(ctx context.Context, path string) ([]domain.Anime, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	a := []domain.Anime{}
	if isYAML(path) {
		err = yaml.Unmarshal(body, &a)
	} else {
		err = json.Unmarshal(body, &a)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(a)).Msg("imported anime data")
	return a, nil
}

// Export writes anime to a file, creating parent directories as needed
func (r *FileRepository) Export(ctx context.Context, path string, anime []domain.Anime) error {
	if anime == nil {
		anime = []domain.Anime{}
	}

	var (
		b   []byte
		err error
	)
	if isYAML(path) {
		b, err = yaml.Marshal(anime)
	} else {
		b, err = json.MarshalIndent(anime, "", "   ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal anime data: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(anime)).Msg("exported anime data")
	return nil
}

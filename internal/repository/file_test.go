package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

func sample() []domain.Anime {
	return []domain.Anime{
		{
			ID:           16498,
			Titles:       map[string]string{"en": "Attack on Titan"},
			Format:       domain.FormatTV,
			SeasonPeriod: domain.SeasonSpring,
			SeasonYear:   2013,
			Genres:       []string{"Action", "Drama"},
		},
		{ID: 1575, Titles: map[string]string{"en": "Code Geass"}},
	}
}

func TestFileRepository_ExportImport(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(zerolog.Nop())

	for _, name := range []string{"anime.json", "anime.yaml", "nested/dir/anime.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := repo.Export(ctx, path, sample()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := repo.Import(ctx, path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Expected 2 anime, got %d", len(got))
			}
			if got[0].Title() != "Attack on Titan" || got[0].SeasonPeriod != domain.SeasonSpring || len(got[0].Genres) != 2 {
				t.Fatalf("unexpected anime: %+v", got[0])
			}
		})
	}
}

func TestFileRepository_ExportFormat(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(zerolog.Nop())

	path := filepath.Join(dir, "anime.yaml")
	if err := repo.Export(context.Background(), path, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := os.ReadFile(path)
	if strings.HasPrefix(strings.TrimSpace(string(b)), "[") {
		t.Fatalf("Expected YAML output, got %s", b)
	}
}

func TestFileRepository_ImportErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewFileRepository(zerolog.Nop())

	if _, err := repo.Import(ctx, filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("Expected error for missing file")
	}
	if _, err := repo.Import(ctx, dir); err == nil {
		t.Fatal("Expected error for directory")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := repo.Import(ctx, bad); err == nil {
		t.Fatal("Expected error for corrupt file")
	}
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
)

// Compile-time check to ensure FileSource implements CatalogSource
var _ interfaces.CatalogSource = (*FileSource)(nil)

// FileSource reads a JSON array of stores from disk, for local development
// and seeding.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the given JSON file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: filepath.Clean(path)}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) FetchStores(ctx context.Context) ([]entities.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable(s.Name(), err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, Unavailable(s.Name(), fmt.Errorf("failed to read %s: %w", s.path, err))
	}

	var stores []entities.Store
	if err := json.Unmarshal(raw, &stores); err != nil {
		return nil, Unavailable(s.Name(), fmt.Errorf("failed to decode %s: %w", s.path, err))
	}

	return stores, nil
}

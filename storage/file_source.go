package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aeo-analytics/models"
)

// FileSource reads tables from local CSV or XLSX files, one file per kind.
type FileSource struct {
	paths map[string]string
}

// NewFileSource maps each table kind to its file. An empty path leaves the
// kind unconfigured.
func NewFileSource(rankingPath, productDetailPath, citationPath string) *FileSource {
	return &FileSource{paths: map[string]string{
		models.TableRanking:       rankingPath,
		models.TableProductDetail: productDetailPath,
		models.TableCitation:      citationPath,
	}}
}

// ReadTable implements TableSource.
func (s *FileSource) ReadTable(ctx context.Context, kind string) (*models.Table, error) {
	path := s.paths[kind]
	if path == "" {
		return nil, fmt.Errorf("%s: %w", kind, ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s at %q: %w", kind, path, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: stat %q: %w", kind, path, err)
	}
	return ReadPath(kind, path)
}

// Describe implements TableSource.
func (s *FileSource) Describe(kind string) string {
	return s.paths[kind]
}

// Paths returns the configured, non-empty file paths.
func (s *FileSource) Paths() []string {
	var out []string
	for _, kind := range []string{models.TableRanking, models.TableProductDetail, models.TableCitation} {
		if p := s.paths[kind]; p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ReadPath reads a table file, choosing the format by extension.
func ReadPath(kind, path string) (*models.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(kind, path)
	case ".csv":
		return ReadCSV(kind, path)
	default:
		return nil, fmt.Errorf("storage: unsupported file type %q for %s", ext, path)
	}
}

// WritePath writes a table file, choosing the format by extension.
func WritePath(ctx context.Context, path string, t *models.Table) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("xlsx: create output dir: %w", err)
		}
		return WriteXLSX(path, t)
	case ".csv":
		w, err := NewCSVWriter(path)
		if err != nil {
			return err
		}
		if err := w.WriteTable(ctx, t); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	default:
		return fmt.Errorf("storage: unsupported file type %q for %s", ext, path)
	}
}

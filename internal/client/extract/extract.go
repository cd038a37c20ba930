// Package extract turns import files into product candidates for bulk import.
package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// ErrUnsupported is returned for files no extractor understands.
var ErrUnsupported = errors.New("unsupported file type")

// Extractor reads candidates from r.
type Extractor interface {
	Extract(r io.Reader) ([]models.Product, error)
}

// ForFile picks an extractor by file extension.
func ForFile(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		e := CSVExtractor{}
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			e.Comma = '\t'
		}
		return e, nil
	case ".json":
		return JSONExtractor{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

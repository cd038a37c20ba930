package extract

import (
	"io"
	"strings"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// JSONExtractor reads a JSON array of product-like objects. Entries without
// a name are skipped and missing descriptions are filled in.
type JSONExtractor struct{}

func (JSONExtractor) Extract(r io.Reader) ([]models.Product, error) {
	items, err := models.DecodeExport(r)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(items))
	for _, p := range items {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		out = append(out, p.Normalize())
	}
	return out, nil
}

package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

var (
	nameHints        = []string{"product", "name", "title"}
	descriptionHints = []string{"description", "desc", "details"}
	imageHints       = []string{"image", "img", "picture", "url"}
)

// CSVExtractor reads a table whose first row holds the column headers.
// Columns are matched by header keywords; when no name column is found the
// first column is the name and the second the description.
type CSVExtractor struct {
	// Comma is the field delimiter, ',' when zero.
	Comma rune
}

func (e CSVExtractor) Extract(r io.Reader) ([]models.Product, error) {
	cr := csv.NewReader(r)
	if e.Comma != 0 {
		cr.Comma = e.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("parse csv: line %d: %w", pe.Line, pe.Err)
		}
		return nil, fmt.Errorf("read csv: %w", err)
	}

	out := []models.Product{}
	if len(rows) < 2 {
		return out, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	nameCol := findColumn(headers, nameHints)
	descCol := findColumn(headers, descriptionHints)
	imageCol := findColumn(headers, imageHints)

	if nameCol < 0 {
		for _, row := range rows[1:] {
			name := cell(row, 0)
			if name == "" {
				continue
			}
			desc := models.DefaultDescription
			if len(row) > 1 {
				desc = cell(row, 1)
			}
			out = append(out, models.Product{Name: name, Description: desc})
		}
		return out, nil
	}

	for _, row := range rows[1:] {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		desc := cell(row, descCol)
		if desc == "" {
			desc = models.DefaultDescription
		}
		out = append(out, models.Product{Name: name, Description: desc, Image: cell(row, imageCol)})
	}
	return out, nil
}

func findColumn(headers, hints []string) int {
	for i, h := range headers {
		for _, hint := range hints {
			if strings.Contains(h, hint) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidFormat is returned when an import file is not a JSON array.
	ErrInvalidFormat = errors.New("invalid file format: data is not an array")
	// ErrMalformed is returned when an import file is not valid JSON.
	ErrMalformed = errors.New("malformed JSON")
)

// Snapshot is a full copy of the catalog exchanged during sync.
// Timestamp is epoch milliseconds and is only used as a logical clock.
type Snapshot struct {
	Products  []Product `json:"products"`
	Timestamp int64     `json:"timestamp"`
}

// NewerThan reports whether the snapshot was taken strictly after since.
func (s *Snapshot) NewerThan(since int64) bool {
	return s != nil && s.Timestamp > since
}

// EncodeExport renders products as the bare, indented JSON array used for
// backups.
func EncodeExport(products []Product) ([]byte, error) {
	if products == nil {
		products = []Product{}
	}
	b, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return b, nil
}

// DecodeExport parses a backup file. The top level value must be an array.
func DecodeExport(r io.Reader) ([]Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, ErrMalformed
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidFormat
	}

	var products []Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

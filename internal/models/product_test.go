package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"sequential int", `{"id": 7}`, "7"},
		{"timestamp", `{"id": 1700000000000}`, "1700000000000"},
		{"timestamp plus random", `{"id": 1700000000000.4213}`, "1700000000000.4213"},
		{"string", `{"id": "0190c3a2-7d1e-7abc-8def-0123456789ab"}`, "0190c3a2-7d1e-7abc-8def-0123456789ab"},
		{"null", `{"id": null}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.Equal(t, tt.want, p.ID)
		})
	}
}

func TestID_UnmarshalRejectsGarbage(t *testing.T) {
	var p Product
	require.Error(t, json.Unmarshal([]byte(`{"id": true}`), &p))
}

func TestStamp_KeepsExistingValues(t *testing.T) {
	p := Product{ID: "42", CreatedAt: 5}.Stamp()
	assert.Equal(t, ID("42"), p.ID)
	assert.Equal(t, int64(5), p.CreatedAt)

	fresh := Product{Name: "x"}.Stamp()
	assert.NotEmpty(t, fresh.ID)
	assert.NotZero(t, fresh.CreatedAt)
}

func TestNewID_Unique(t *testing.T) {
	seen := map[ID]struct{}{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNormalize_FillsDefaultDescription(t *testing.T) {
	p := Product{Name: "  Widget ", Description: "   "}.Normalize()
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, DefaultDescription, p.Description)
}

func TestMatches(t *testing.T) {
	p := Product{Name: "Taq Polymerase", Description: "Thermostable enzyme"}
	assert.True(t, p.Matches(""))
	assert.True(t, p.Matches("taq"))
	assert.True(t, p.Matches("ENZYME"))
	assert.False(t, p.Matches("buffer"))
}

func TestSortForDisplay_NewestFirstLegacyLast(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "legacy"},
		{ID: "b", Name: "old", CreatedAt: 100},
		{ID: "a", Name: "new", CreatedAt: 200},
		{ID: "2", Name: "legacy2"},
	}
	SortForDisplay(products)

	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"new", "old", "legacy2", "legacy"}, names)
}

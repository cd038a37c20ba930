package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDescription is shown for products that were created without one.
const DefaultDescription = "No description available"

// ID identifies a product. New identifiers are UUIDv7 strings; identifiers
// carried over from older snapshots may be plain numbers and are kept in
// their exact decimal form.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// NewID returns a fresh time-ordered identifier.
func NewID() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Product is a single catalog record.
type Product struct {
	// ID is unique within a record store and is the merge key during sync.
	ID ID `json:"id,omitempty"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is free text.
	Description string `json:"description"`

	// Image is an optional data URI or remote URL.
	Image string `json:"image,omitempty"`

	// CreatedAt is the creation time in epoch milliseconds, set once.
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// Stamp assigns an identifier and creation time when they are missing.
func (p Product) Stamp() Product {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = NowMillis()
	}
	return p
}

// Normalize trims the display fields and fills in the default description.
func (p Product) Normalize() Product {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	return p
}

// Matches reports whether term occurs in the name or description, ignoring case.
// An empty term matches everything.
func (p Product) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// SortForDisplay orders products newest first. Products without a creation
// time go last; ties are broken by identifier, descending.
func SortForDisplay(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID > b.ID
	})
}

// IDSet returns the set of identifiers present in products.
func IDSet(products []Product) map[ID]struct{} {
	set := make(map[ID]struct{}, len(products))
	for _, p := range products {
		set[p.ID] = struct{}{}
	}
	return set
}

// Package store provides the person record storage interface and its SQLite,
// PostgreSQL and in-memory implementations.
package store

import (
	"context"
	"fmt"

	"github.com/rcliao/person-registry/internal/model"
)

// Order selects the listing order by registration time.
type Order string

const (
	OrderNewest Order = "newest"
	OrderOldest Order = "oldest"
)

// ParseOrder accepts "", "newest", "desc", "oldest" and "asc".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "newest", "desc":
		return OrderNewest, nil
	case "oldest", "asc":
		return OrderOldest, nil
	}
	return "", fmt.Errorf("invalid order %q (use newest or oldest)", s)
}

// ListParams holds parameters for listing records.
type ListParams struct {
	Query  string // case-insensitive substring of national ID, first or last names
	City   string
	Gender string
	Order  Order
	Limit  int // 0 means no limit
}

// Stats holds registry statistics.
type Stats struct {
	DBPath      string         `json:"db_path,omitempty"`
	DBSizeBytes int64          `json:"db_size_bytes,omitempty"`
	Total       int            `json:"total"`
	ByCity      map[string]int `json:"by_city"`
	ByGender    map[string]int `json:"by_gender"`
}

// Store defines the person record storage interface.
type Store interface {
	// List returns a snapshot of the records matching p.
	List(ctx context.Context, p ListParams) ([]model.Person, error)

	// Get returns the record with the given id, or model.ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Person, error)

	// FindByNationalID returns the record owning nationalID, or model.ErrNotFound.
	FindByNationalID(ctx context.Context, nationalID string) (*model.Person, error)

	// Create inserts a record and returns it with its generated id and registration time.
	// Fails with model.ErrDuplicateKey if the national ID is taken.
	Create(ctx context.Context, in model.PersonInput) (*model.Person, error)

	// Update replaces every mutable field of the record.
	// Fails with model.ErrNotFound or model.ErrDuplicateKey.
	Update(ctx context.Context, id int64, in model.PersonInput) (*model.Person, error)

	// Delete removes the record permanently, or fails with model.ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Stats returns record counts.
	Stats(ctx context.Context) (*Stats, error)

	// Close closes the store.
	Close() error
}

func newStats() *Stats {
	return &Stats{ByCity: map[string]int{}, ByGender: map[string]int{}}
}

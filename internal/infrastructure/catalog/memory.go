package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/supplierlens/backend/internal/domain"
)

// DefaultLimit caps catalog matches when the caller passes no limit
const DefaultLimit = 20

// MemoryStore is a thread-safe in-memory listing catalog
type MemoryStore struct {
	data  map[string]domain.CatalogListing
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory catalog
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]domain.CatalogListing),
	}
}

// seedListing is the on-disk shape of a seeded catalog entry
type seedListing struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	SupplierURL  string    `json:"supplier_url"`
	ImageURL     string    `json:"image_url"`
	SupplierName string    `json:"supplier_name"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoadMemoryStore builds a catalog from a JSON array of listings on disk
func LoadMemoryStore(path string) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog seed: %w", err)
	}
	defer f.Close()

	store := NewMemoryStore()
	if err := store.Load(f); err != nil {
		return nil, fmt.Errorf("loading catalog seed %s: %w", path, err)
	}
	return store, nil
}

// Load decodes a JSON array of listings and stores each one
func (s *MemoryStore) Load(r io.Reader) error {
	listings, err := ReadSeed(r)
	if err != nil {
		return err
	}
	s.Put(listings...)
	return nil
}

// ReadSeed decodes a JSON array of catalog listings
func ReadSeed(r io.Reader) ([]domain.CatalogListing, error) {
	var seeds []seedListing
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, err
	}

	listings := make([]domain.CatalogListing, 0, len(seeds))
	for _, sl := range seeds {
		listings = append(listings, domain.CatalogListing(sl))
	}
	return listings, nil
}

// Put stores listings, replacing any with the same ID.
// Listings without an ID are keyed by their supplier URL.
func (s *MemoryStore) Put(listings ...domain.CatalogListing) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, l := range listings {
		key := l.ID
		if key == "" {
			key = l.SupplierURL
		}
		if key == "" {
			continue
		}
		l.ID = key
		s.data[key] = l
	}
}

// Delete removes a listing from the catalog
func (s *MemoryStore) Delete(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, id)
}

// SearchListings returns listings whose title or description contains text,
// ignoring case, most recently updated first
func (s *MemoryStore) SearchListings(ctx context.Context, text string, limit int) ([]domain.CatalogListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mutex.RLock()
	var matches []domain.CatalogListing
	for _, l := range s.data {
		if strings.Contains(strings.ToLower(l.Title), needle) ||
			strings.Contains(strings.ToLower(l.Description), needle) {
			matches = append(matches, l)
		}
	}
	s.mutex.RUnlock()

	slices.SortFunc(matches, func(a, b domain.CatalogListing) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Size returns the current number of listings in the catalog
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Clear removes all listings
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string]domain.CatalogListing)
}

// Close is a no-op; it lets every store share the same lifecycle
func (s *MemoryStore) Close() error {
	return nil
}

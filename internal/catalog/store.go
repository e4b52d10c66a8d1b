// Package catalog holds the in-memory item and client registries a
// generation run resolves names against.
package catalog

import (
	"errors"
	"fmt"

	"github.com/jkeller/invoicegen/internal/billing"
	"go.uber.org/zap"
)

// Lookup errors. Batch reconciliation wraps these with the name that missed.
var (
	ErrItemNotFound   = errors.New("item not found in catalog")
	ErrClientNotFound = errors.New("client not found in catalog")
)

// Store holds the catalogs for one generation run. Registration is
// append-only and ordered; lookup is by name, first registration wins when
// names collide.
type Store struct {
	items   []*billing.Item
	clients []*billing.Client
	logger  *zap.Logger
}

// NewStore creates an empty store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// AddItem registers a catalog item. A duplicate name is allowed but shadowed
// on lookup, so it is logged.
func (s *Store) AddItem(item *billing.Item) {
	if existing, err := s.FindItem(item.Name); err == nil {
		s.logger.Warn("Duplicate item name registered; lookups return the first",
			zap.String("name", item.Name),
			zap.String("shadowed_price", item.Price.String()),
			zap.String("active_price", existing.Price.String()))
	}
	s.items = append(s.items, item)
}

// AddClient registers a client.
func (s *Store) AddClient(client *billing.Client) {
	if _, err := s.FindClient(client.Name); err == nil {
		s.logger.Warn("Duplicate client name registered; lookups return the first",
			zap.String("name", client.Name))
	}
	s.clients = append(s.clients, client)
}

// FindItem returns the first registered item with the given name.
func (s *Store) FindItem(name string) (*billing.Item, error) {
	for _, item := range s.items {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// FindClient returns the first registered client with the given name.
func (s *Store) FindClient(name string) (*billing.Client, error) {
	for _, client := range s.clients {
		if client.Name == name {
			return client, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrClientNotFound, name)
}

// Items returns the registered items in insertion order.
func (s *Store) Items() []*billing.Item {
	return s.items
}

// Clients returns the registered clients in insertion order.
func (s *Store) Clients() []*billing.Client {
	return s.clients
}

// Reset clears both registries so the store can serve an independent run.
func (s *Store) Reset() {
	s.items = nil
	s.clients = nil
}

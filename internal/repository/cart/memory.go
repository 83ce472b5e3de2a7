package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"weetzen-shop/internal/domain"
)

// memoryStore keeps guest carts, keyed by a server-issued guest id. It plays
// the role of the browser's device-local storage: lines carry a denormalized
// product snapshot and survive only as long as the process.
type memoryStore struct {
	mu    sync.RWMutex
	carts map[string]map[string]domain.CartItem
}

func NewMemory() Store {
	return &memoryStore{carts: make(map[string]map[string]domain.CartItem)}
}

func (s *memoryStore) Load(_ context.Context, ownerID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[ownerID]
	items := make([]domain.CartItem, 0, len(lines))
	for _, it := range lines {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func (s *memoryStore) Get(_ context.Context, ownerID, productID string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.carts[ownerID][productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (s *memoryStore) Upsert(_ context.Context, ownerID, productID string, quantity int, snapshot domain.ProductSnapshot) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.carts[ownerID]
	if !ok {
		lines = make(map[string]domain.CartItem)
		s.carts[ownerID] = lines
	}

	it, ok := lines[productID]
	if !ok {
		it = domain.CartItem{
			ID:        fmt.Sprintf("guest-%s-%d", productID, time.Now().UnixNano()),
			ProductID: productID,
			Product:   snapshot,
			CreatedAt: time.Now().UTC(),
		}
	}
	it.Quantity = quantity
	lines[productID] = it
	return &it, nil
}

func (s *memoryStore) Remove(_ context.Context, ownerID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.carts[ownerID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := lines[productID]; !ok {
		return domain.ErrNotFound
	}
	delete(lines, productID)
	return nil
}

func (s *memoryStore) Clear(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, ownerID)
	return nil
}

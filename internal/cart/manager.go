package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/cartstore"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// Manager owns the in-memory cart state. All mutation goes through
// Dispatch, which runs the reducer under a single lock and writes the
// result through to the persisted store, so partial writes cannot be
// observed.
type Manager struct {
	mu     sync.Mutex
	items  []domain.LineItem
	store  cartstore.Store
	logger *zap.Logger
}

func NewManager(store cartstore.Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Restore loads the persisted cart into memory. A missing or malformed
// stored value comes back from the store as an empty collection, so
// restore never fails on corrupt state.
func (m *Manager) Restore(ctx context.Context) error {
	items, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = Apply(m.items, Initialize{Items: items})
	m.logger.Info("cart restored", zap.Int("items", len(m.items)))
	return nil
}

// Dispatch applies one action and persists the resulting collection.
// The mutation is kept even when the persistence write fails; the
// error is returned so callers can surface it.
func (m *Manager) Dispatch(ctx context.Context, action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = Apply(m.items, action)

	if err := m.store.Save(ctx, m.items); err != nil {
		m.logger.Error("cart persistence failed", zap.Error(err))
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (m *Manager) Add(ctx context.Context, product domain.Product, quantity int) error {
	return m.Dispatch(ctx, Add{Item: product.ToLineItem(quantity), Quantity: quantity})
}

func (m *Manager) Remove(ctx context.Context, productID int64) error {
	return m.Dispatch(ctx, Remove{ProductID: productID})
}

func (m *Manager) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	return m.Dispatch(ctx, SetQuantity{ProductID: productID, Quantity: quantity})
}

func (m *Manager) Clear(ctx context.Context) error {
	return m.Dispatch(ctx, Clear{})
}

// Snapshot returns a copy of the current cart. Mutating the returned
// value does not affect the manager's state.
func (m *Manager) Snapshot() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.LineItem, len(m.items))
	copy(items, m.items)
	return domain.Cart{Items: items}
}

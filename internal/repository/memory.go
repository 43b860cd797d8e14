package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

// In-memory repository implementations used by tests and local experiments.
// They mirror the error behavior of the pgx repositories.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("user not found")
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("no user is registered with this email")
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.ID] = u
	return nil
}

func (r *MemoryUserRepository) UpdateRefreshToken(_ context.Context, userID string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return apierror.NotFound("user not found")
	}
	u.RefreshToken = token
	u.UpdatedAt = time.Now().UTC()
	r.users[userID] = u
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return apierror.NotFound("user not found")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.users[userID] = u
	return nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, userID string, patch model.UserPatch) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return model.User{}, apierror.NotFound("user not found")
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[userID] = u
	return u, nil
}

type MemoryStoreRepository struct {
	mu     sync.RWMutex
	stores map[string]model.Store
}

func NewMemoryStoreRepository() *MemoryStoreRepository {
	return &MemoryStoreRepository{stores: map[string]model.Store{}}
}

func (r *MemoryStoreRepository) FindByID(_ context.Context, id string) (model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[id]
	if !ok {
		return model.Store{}, apierror.NotFound("store not found")
	}
	return s, nil
}

func (r *MemoryStoreRepository) FindActiveByPublicID(_ context.Context, publicID int64) (model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.stores {
		if s.PublicID == publicID && s.IsActive {
			return s, nil
		}
	}
	return model.Store{}, apierror.NotFound("no store found")
}

func (r *MemoryStoreRepository) ListByOwner(_ context.Context, ownerID string) ([]model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stores := make([]model.Store, 0)
	for _, s := range r.stores {
		if s.OwnerID == ownerID {
			stores = append(stores, s)
		}
	}
	return stores, nil
}

func (r *MemoryStoreRepository) Create(_ context.Context, s model.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stores[s.ID] = s
	return nil
}

func (r *MemoryStoreRepository) UpdateFields(_ context.Context, storeID string, patch model.StorePatch) (model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[storeID]
	if !ok {
		return model.Store{}, apierror.NotFound("store not found")
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Address != nil {
		s.Address = *patch.Address
	}
	if patch.Contact != nil {
		s.Contact = *patch.Contact
	}
	s.UpdatedAt = time.Now().UTC()
	r.stores[storeID] = s
	return s, nil
}

func (r *MemoryStoreRepository) UpdateCoverImage(_ context.Context, storeID string, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[storeID]
	if !ok {
		return apierror.NotFound("store not found")
	}
	s.CoverImage = url
	s.UpdatedAt = time.Now().UTC()
	r.stores[storeID] = s
	return nil
}

func (r *MemoryStoreRepository) SetActive(_ context.Context, storeID string, active bool) (model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[storeID]
	if !ok {
		return model.Store{}, apierror.NotFound("store not found")
	}
	s.IsActive = active
	s.UpdatedAt = time.Now().UTC()
	r.stores[storeID] = s
	return s, nil
}

type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]model.Item
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{items: map[string]model.Item{}}
}

func (r *MemoryItemRepository) FindByID(_ context.Context, id string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.items[id]
	if !ok {
		return model.Item{}, apierror.NotFound("item not found")
	}
	return i, nil
}

func (r *MemoryItemRepository) ListByStore(_ context.Context, storeID string) ([]model.Item, error) {
	return r.list(storeID, false), nil
}

func (r *MemoryItemRepository) ListAvailableByStore(_ context.Context, storeID string) ([]model.Item, error) {
	return r.list(storeID, true), nil
}

func (r *MemoryItemRepository) list(storeID string, availableOnly bool) []model.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0)
	for _, i := range r.items {
		if i.StoreID != storeID {
			continue
		}
		if availableOnly && !i.IsAvailable {
			continue
		}
		items = append(items, i)
	}
	return items
}

func (r *MemoryItemRepository) Create(_ context.Context, i model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[i.ID] = i
	return nil
}

func (r *MemoryItemRepository) UpdateFields(_ context.Context, itemID string, patch model.ItemPatch) (model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.items[itemID]
	if !ok {
		return model.Item{}, apierror.NotFound("item not found")
	}
	if patch.Name != nil {
		i.Name = *patch.Name
	}
	if patch.Description != nil {
		i.Description = *patch.Description
	}
	if patch.PriceCents != nil {
		i.PriceCents = *patch.PriceCents
	}
	if patch.IsAvailable != nil {
		i.IsAvailable = *patch.IsAvailable
	}
	i.UpdatedAt = time.Now().UTC()
	r.items[itemID] = i
	return i, nil
}

func (r *MemoryItemRepository) UpdateImageURL(_ context.Context, itemID string, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.items[itemID]
	if !ok {
		return apierror.NotFound("item not found")
	}
	i.ImageURL = url
	i.UpdatedAt = time.Now().UTC()
	r.items[itemID] = i
	return nil
}

func (r *MemoryItemRepository) Delete(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return apierror.NotFound("item not found")
	}
	delete(r.items, itemID)
	return nil
}

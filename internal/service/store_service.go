package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront-api/internal/imagehost"
	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

// StoreRepo is the persistence surface StoreService needs.
type StoreRepo interface {
	FindByID(ctx context.Context, id string) (model.Store, error)
	FindActiveByPublicID(ctx context.Context, publicID int64) (model.Store, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Store, error)
	Create(ctx context.Context, s model.Store) error
	UpdateFields(ctx context.Context, storeID string, patch model.StorePatch) (model.Store, error)
	UpdateCoverImage(ctx context.Context, storeID string, url string) error
	SetActive(ctx context.Context, storeID string, active bool) (model.Store, error)
}

// ItemRepo is the persistence surface for catalog items.
type ItemRepo interface {
	FindByID(ctx context.Context, id string) (model.Item, error)
	ListByStore(ctx context.Context, storeID string) ([]model.Item, error)
	ListAvailableByStore(ctx context.Context, storeID string) ([]model.Item, error)
	Create(ctx context.Context, i model.Item) error
	UpdateFields(ctx context.Context, itemID string, patch model.ItemPatch) (model.Item, error)
	UpdateImageURL(ctx context.Context, itemID string, url string) error
	Delete(ctx context.Context, itemID string) error
}

// ViewCache caches rendered storefront views keyed by the public store id.
// Every write that can change a view must go through Invalidate; a nil cache
// disables caching.
type ViewCache interface {
	Get(ctx context.Context, publicID int64) (model.StorefrontView, bool)
	Set(ctx context.Context, view model.StorefrontView)
	Invalidate(ctx context.Context, publicID int64)
}

type StoreService struct {
	stores     StoreRepo
	items      ItemRepo
	images     imagehost.Host
	storefront ViewCache
}

func NewStoreService(stores StoreRepo, items ItemRepo, images imagehost.Host, storefront ViewCache) *StoreService {
	return &StoreService{stores: stores, items: items, images: images, storefront: storefront}
}

// Create opens a new store for ownerID. The public id is timestamp-derived
// and distinct from the storage id; the owner reference never changes after
// this point.
func (s *StoreService) Create(ctx context.Context, ownerID string, req model.CreateStoreRequest) (model.Store, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	contact := strings.TrimSpace(req.Contact)

	if name == "" || address == "" || contact == "" {
		return model.Store{}, apierror.BadRequest("name, address and contact are required")
	}

	now := time.Now().UTC()
	store := model.Store{
		ID:        uuid.NewString(),
		PublicID:  now.UnixMilli(),
		Name:      name,
		Address:   address,
		Contact:   contact,
		IsActive:  true,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.stores.Create(ctx, store); err != nil {
		return model.Store{}, err
	}

	return store, nil
}

func (s *StoreService) ListByOwner(ctx context.Context, ownerID string) ([]model.Store, error) {
	return s.stores.ListByOwner(ctx, ownerID)
}

// Update applies the allow-listed patch to an already-resolved store.
func (s *StoreService) Update(ctx context.Context, store model.Store, patch model.StorePatch) (model.Store, error) {
	if patch.Empty() {
		return model.Store{}, apierror.BadRequest("nothing to update")
	}

	updated, err := s.stores.UpdateFields(ctx, store.ID, patch)
	if err != nil {
		return model.Store{}, err
	}

	s.invalidateView(ctx, store.PublicID)
	return updated, nil
}

// ReplaceCover swaps the store's cover image. The old image is deleted
// before the new one is uploaded to avoid double storage; if the upload then
// fails the store briefly has no cover, which is accepted.
func (s *StoreService) ReplaceCover(ctx context.Context, store model.Store, file imagehost.File) (model.Store, error) {
	if s.images == nil {
		return model.Store{}, apierror.Internal("image hosting is not configured")
	}

	if store.CoverImage != "" {
		if err := s.images.Delete(ctx, store.CoverImage); err != nil {
			return model.Store{}, apierror.Internal("failed to delete previous cover image")
		}
		if err := s.stores.UpdateCoverImage(ctx, store.ID, ""); err != nil {
			return model.Store{}, err
		}
	}

	url, err := s.images.Upload(ctx, file)
	if err != nil {
		return model.Store{}, apierror.Internal("failed to upload cover image")
	}

	if err := s.stores.UpdateCoverImage(ctx, store.ID, url); err != nil {
		return model.Store{}, err
	}

	store.CoverImage = url
	s.invalidateView(ctx, store.PublicID)
	return store, nil
}

// Close marks an open store closed. Closing twice is an input error.
func (s *StoreService) Close(ctx context.Context, store model.Store) (model.Store, error) {
	if !store.IsActive {
		return model.Store{}, apierror.BadRequest("store is already closed")
	}

	closed, err := s.stores.SetActive(ctx, store.ID, false)
	if err != nil {
		return model.Store{}, err
	}

	s.invalidateView(ctx, store.PublicID)
	return closed, nil
}

// Reopen is the symmetric edge: reopening an active store is an input error.
func (s *StoreService) Reopen(ctx context.Context, store model.Store) (model.Store, error) {
	if store.IsActive {
		return model.Store{}, apierror.BadRequest("store is already active")
	}

	reopened, err := s.stores.SetActive(ctx, store.ID, true)
	if err != nil {
		return model.Store{}, err
	}

	s.invalidateView(ctx, store.PublicID)
	return reopened, nil
}

// View is the public storefront read: an active store resolved by its
// numeric public id together with its available items, owner stripped.
// Served from cache when possible.
func (s *StoreService) View(ctx context.Context, publicID int64) (model.StorefrontView, error) {
	if s.storefront != nil {
		if view, ok := s.storefront.Get(ctx, publicID); ok {
			return view, nil
		}
	}

	store, err := s.stores.FindActiveByPublicID(ctx, publicID)
	if err != nil {
		return model.StorefrontView{}, err
	}

	items, err := s.items.ListAvailableByStore(ctx, store.ID)
	if err != nil {
		return model.StorefrontView{}, err
	}

	view := model.StorefrontView{
		Store: store.Public(),
		Items: make([]model.PublicItem, 0, len(items)),
	}
	for _, item := range items {
		view.Items = append(view.Items, item.Public())
	}

	if s.storefront != nil {
		s.storefront.Set(ctx, view)
	}
	return view, nil
}

func (s *StoreService) invalidateView(ctx context.Context, publicID int64) {
	if s.storefront != nil {
		s.storefront.Invalidate(ctx, publicID)
	}
}

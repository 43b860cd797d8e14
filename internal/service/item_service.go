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

// ItemService owns the catalog of a store. The cached storefront view embeds
// the item list, so every item write invalidates it.
type ItemService struct {
	items      ItemRepo
	images     imagehost.Host
	storefront ViewCache
}

func NewItemService(items ItemRepo, images imagehost.Host, storefront ViewCache) *ItemService {
	return &ItemService{items: items, images: images, storefront: storefront}
}

func (s *ItemService) ListByStore(ctx context.Context, storeID string) ([]model.Item, error) {
	return s.items.ListByStore(ctx, storeID)
}

func (s *ItemService) Create(ctx context.Context, store model.Store, req model.CreateItemRequest) (model.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Item{}, apierror.BadRequest("item name is required")
	}
	if req.PriceCents < 0 {
		return model.Item{}, apierror.BadRequest("price cannot be negative")
	}

	now := time.Now().UTC()
	item := model.Item{
		ID:          uuid.NewString(),
		StoreID:     store.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		PriceCents:  req.PriceCents,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return model.Item{}, err
	}

	s.invalidateView(ctx, store.PublicID)
	return item, nil
}

// Update patches an item after confirming it belongs to the resolved store;
// an item id from another store reads as not found.
func (s *ItemService) Update(ctx context.Context, store model.Store, itemID string, patch model.ItemPatch) (model.Item, error) {
	if patch.Empty() {
		return model.Item{}, apierror.BadRequest("nothing to update")
	}
	if patch.PriceCents != nil && *patch.PriceCents < 0 {
		return model.Item{}, apierror.BadRequest("price cannot be negative")
	}

	if _, err := s.resolve(ctx, store.ID, itemID); err != nil {
		return model.Item{}, err
	}

	updated, err := s.items.UpdateFields(ctx, itemID, patch)
	if err != nil {
		return model.Item{}, err
	}

	s.invalidateView(ctx, store.PublicID)
	return updated, nil
}

func (s *ItemService) Delete(ctx context.Context, store model.Store, itemID string) error {
	if _, err := s.resolve(ctx, store.ID, itemID); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}

	s.invalidateView(ctx, store.PublicID)
	return nil
}

// ReplaceImage swaps the item image through the image host. Like the store
// cover, the old object is deleted before the new one is uploaded; a failed
// upload leaves the item briefly without an image, which is accepted.
func (s *ItemService) ReplaceImage(ctx context.Context, store model.Store, itemID string, file imagehost.File) (model.Item, error) {
	if s.images == nil {
		return model.Item{}, apierror.Internal("image hosting is not configured")
	}

	item, err := s.resolve(ctx, store.ID, itemID)
	if err != nil {
		return model.Item{}, err
	}

	if item.ImageURL != "" {
		if err := s.images.Delete(ctx, item.ImageURL); err != nil {
			return model.Item{}, apierror.Internal("failed to delete previous item image")
		}
		if err := s.items.UpdateImageURL(ctx, itemID, ""); err != nil {
			return model.Item{}, err
		}
	}

	url, err := s.images.Upload(ctx, file)
	if err != nil {
		return model.Item{}, apierror.Internal("failed to upload item image")
	}

	if err := s.items.UpdateImageURL(ctx, itemID, url); err != nil {
		return model.Item{}, err
	}

	item.ImageURL = url
	s.invalidateView(ctx, store.PublicID)
	return item, nil
}

func (s *ItemService) resolve(ctx context.Context, storeID string, itemID string) (model.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return model.Item{}, err
	}
	if item.StoreID != storeID {
		return model.Item{}, apierror.NotFound("item not found")
	}
	return item, nil
}

func (s *ItemService) invalidateView(ctx context.Context, publicID int64) {
	if s.storefront != nil {
		s.storefront.Invalidate(ctx, publicID)
	}
}

package model

import "time"

// Item is a catalog entry belonging to exactly one store.
type Item struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"storeId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PublicItem is the storefront projection of an available item.
type PublicItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PriceCents  int64  `json:"priceCents"`
}

func (i Item) Public() PublicItem {
	return PublicItem{
		Name:        i.Name,
		Description: i.Description,
		ImageURL:    i.ImageURL,
		PriceCents:  i.PriceCents,
	}
}

// ItemPatch is the allow-list of item fields patchable through the update
// endpoint.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	IsAvailable *bool   `json:"isAvailable"`
}

func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PriceCents == nil && p.IsAvailable == nil
}

package model

import "time"

// Store is the persisted store record. PublicID is the numeric identifier
// exposed on the storefront, distinct from the storage-layer ID. OwnerID is
// immutable after creation.
type Store struct {
	ID         string    `json:"id"`
	PublicID   int64     `json:"storeId"`
	Name       string    `json:"name"`
	CoverImage string    `json:"coverImage,omitempty"`
	Address    string    `json:"address"`
	Contact    string    `json:"contact"`
	IsActive   bool      `json:"isActive"`
	OwnerID    string    `json:"owner"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PublicStore is the owner-stripped projection returned to callers who are
// not necessarily the owner (refresh response, storefront view).
type PublicStore struct {
	ID         string    `json:"id"`
	PublicID   int64     `json:"storeId"`
	Name       string    `json:"name"`
	CoverImage string    `json:"coverImage,omitempty"`
	Address    string    `json:"address"`
	Contact    string    `json:"contact"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s Store) Public() PublicStore {
	return PublicStore{
		ID:         s.ID,
		PublicID:   s.PublicID,
		Name:       s.Name,
		CoverImage: s.CoverImage,
		Address:    s.Address,
		Contact:    s.Contact,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
	}
}

// StorePatch is the allow-list of store fields patchable through the update
// endpoint. Owner, active flag and the public id are never patchable; the
// cover image goes through the dedicated upload path.
type StorePatch struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Contact *string `json:"contact"`
}

func (p StorePatch) Empty() bool {
	return p.Name == nil && p.Address == nil && p.Contact == nil
}

// StorefrontView is the public browse payload: an active store and its
// currently available items.
type StorefrontView struct {
	Store PublicStore  `json:"store"`
	Items []PublicItem `json:"items"`
}

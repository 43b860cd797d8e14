package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/model"
	"storefront-api/pkg/apierror"
)

type StoreRepository struct {
	pool *pgxpool.Pool
}

func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

const storeColumns = `id, public_id, name, cover_image, address, contact, is_active, owner_id, created_at, updated_at`

func scanStore(row pgx.Row) (model.Store, error) {
	var s model.Store
	err := row.Scan(&s.ID, &s.PublicID, &s.Name, &s.CoverImage, &s.Address, &s.Contact,
		&s.IsActive, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (model.Store, error) {
	s, err := scanStore(r.pool.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Store{}, apierror.NotFound("store not found")
	}
	if err != nil {
		return model.Store{}, fmt.Errorf("find store by id: %w", err)
	}
	return s, nil
}

// FindActiveByPublicID resolves the public storefront identifier. Inactive
// stores are invisible on this path.
func (r *StoreRepository) FindActiveByPublicID(ctx context.Context, publicID int64) (model.Store, error) {
	s, err := scanStore(r.pool.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE public_id = $1 AND is_active`, publicID))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Store{}, apierror.NotFound("no store found")
	}
	if err != nil {
		return model.Store{}, fmt.Errorf("find store by public id: %w", err)
	}
	return s, nil
}

func (r *StoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Store, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list stores by owner: %w", err)
	}
	defer rows.Close()

	stores := make([]model.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *StoreRepository) Create(ctx context.Context, s model.Store) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO stores (id, public_id, name, cover_image, address, contact, is_active, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.PublicID, s.Name, s.CoverImage, s.Address, s.Contact, s.IsActive, s.OwnerID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

// UpdateFields applies the allow-listed patch and returns the updated store.
// Owner, active flag and public id are not reachable from here.
func (r *StoreRepository) UpdateFields(ctx context.Context, storeID string, patch model.StorePatch) (model.Store, error) {
	s, err := scanStore(r.pool.QueryRow(ctx,
		`UPDATE stores
		 SET name = COALESCE($2, name),
		     address = COALESCE($3, address),
		     contact = COALESCE($4, contact),
		     updated_at = $5
		 WHERE id = $1
		 RETURNING `+storeColumns,
		storeID, patch.Name, patch.Address, patch.Contact, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Store{}, apierror.NotFound("store not found")
	}
	if err != nil {
		return model.Store{}, fmt.Errorf("update store: %w", err)
	}
	return s, nil
}

func (r *StoreRepository) UpdateCoverImage(ctx context.Context, storeID string, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE stores SET cover_image = $2, updated_at = $3 WHERE id = $1`,
		storeID, url, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update cover image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("store not found")
	}
	return nil
}

func (r *StoreRepository) SetActive(ctx context.Context, storeID string, active bool) (model.Store, error) {
	s, err := scanStore(r.pool.QueryRow(ctx,
		`UPDATE stores SET is_active = $2, updated_at = $3 WHERE id = $1 RETURNING `+storeColumns,
		storeID, active, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Store{}, apierror.NotFound("store not found")
	}
	if err != nil {
		return model.Store{}, fmt.Errorf("set store active: %w", err)
	}
	return s, nil
}

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

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

const itemColumns = `id, store_id, name, description, image_url, price_cents, is_available, created_at, updated_at`

func scanItem(row pgx.Row) (model.Item, error) {
	var i model.Item
	err := row.Scan(&i.ID, &i.StoreID, &i.Name, &i.Description, &i.ImageURL, &i.PriceCents,
		&i.IsAvailable, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (model.Item, error) {
	i, err := scanItem(r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Item{}, apierror.NotFound("item not found")
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("find item by id: %w", err)
	}
	return i, nil
}

func (r *ItemRepository) ListByStore(ctx context.Context, storeID string) ([]model.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE store_id = $1 ORDER BY created_at`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *ItemRepository) ListAvailableByStore(ctx context.Context, storeID string) ([]model.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE store_id = $1 AND is_available ORDER BY created_at`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list available items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]model.Item, error) {
	items := make([]model.Item, 0)
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *ItemRepository) Create(ctx context.Context, i model.Item) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO items (id, store_id, name, description, image_url, price_cents, is_available, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		i.ID, i.StoreID, i.Name, i.Description, i.ImageURL, i.PriceCents, i.IsAvailable, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *ItemRepository) UpdateFields(ctx context.Context, itemID string, patch model.ItemPatch) (model.Item, error) {
	i, err := scanItem(r.pool.QueryRow(ctx,
		`UPDATE items
		 SET name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     price_cents = COALESCE($4, price_cents),
		     is_available = COALESCE($5, is_available),
		     updated_at = $6
		 WHERE id = $1
		 RETURNING `+itemColumns,
		itemID, patch.Name, patch.Description, patch.PriceCents, patch.IsAvailable, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Item{}, apierror.NotFound("item not found")
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", err)
	}
	return i, nil
}

func (r *ItemRepository) UpdateImageURL(ctx context.Context, itemID string, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET image_url = $2, updated_at = $3 WHERE id = $1`,
		itemID, url, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update item image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("item not found")
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, itemID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("item not found")
	}
	return nil
}

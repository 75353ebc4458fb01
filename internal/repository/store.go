package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oticahub/lens-engine/internal/domain"
)

// Get single store
func (r *Repository) GetStoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	store := &domain.Store{}

	err := r.pool.QueryRow(ctx,
		`SELECT id::text, name, slug, created_at
		 FROM stores WHERE id = $1`,
		storeID,
	).Scan(&store.ID, &store.Name, &store.Slug, &store.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("query store id=%s: %w", storeID, err)
	}

	return store, nil
}

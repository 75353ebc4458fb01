package repository

import (
	"context"
	"fmt"

	"github.com/oticahub/lens-engine/internal/domain"
)

// EyewearCategories are the catalog categories that carry frame geometry.
var EyewearCategories = []string{"oculos_grau", "oculos_sol", "armacao"}

// Get active eyewear products of a store in catalog order
func (r *Repository) GetEyewearProducts(ctx context.Context, storeID string, limit int) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id::text, p.store_id::text, p.name, p.category, p.price::float8,
		        COALESCE(p.specs, '{}'::jsonb), p.created_at
		FROM products p
		WHERE p.store_id = $1
		  AND p.is_active
		  AND p.category = ANY($2)
		ORDER BY p.created_at, p.id
		LIMIT $3`,
		storeID, EyewearCategories, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query eyewear products for store %s: %w", storeID, err)
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		var blob map[string]any
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Category, &p.Price, &blob, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Specs = FrameSpecsFromBlob(blob)
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over products: %w", err)
	}
	return items, nil
}

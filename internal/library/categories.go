package library

import (
	"context"
	"fmt"

	"mangashelf/pkg/models"
)

// Categories are user-scoped shelves for grouping library items. Grouping
// itself happens client-side; the server only stores and lists them.

func (r *Repo) CreateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, sort_order)
		VALUES (?, ?, ?)
	`, cat.UserID, cat.Name, cat.Order)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	cat.ID = id
	return &cat, nil
}

func (r *Repo) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, sort_order
		FROM categories
		WHERE user_id = ?
		ORDER BY sort_order, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]models.Category, 0, 8)
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Order); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mangashelf/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Add puts a manga into a user's library. The operation is an idempotent
// upsert keyed on (user_id, manga_id): when the pair already exists the
// stored row is returned unchanged and the requested category is ignored.
// The UNIQUE constraint makes concurrent adds collapse to a single row.
func (r *Repo) Add(ctx context.Context, item models.LibraryItem) (*models.LibraryItem, error) {
	var categoryID sql.NullInt64
	if item.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *item.CategoryID, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO library_items (user_id, manga_id, category_id, unread_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, manga_id) DO NOTHING
	`, item.UserID, item.MangaID, categoryID, item.UnreadCount)
	if err != nil {
		return nil, fmt.Errorf("upsert library item: %w", err)
	}

	saved, err := r.get(ctx, item.UserID, item.MangaID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("library item missing after upsert")
	}
	return saved, nil
}

// Remove deletes by primary key, scoped to the owning user. A foreign id
// is reported as not-found rather than deleted.
func (r *Repo) Remove(ctx context.Context, userID string, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM library_items
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete library item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// List returns the user's library, each item joined with its manga, in
// insertion order.
func (r *Repo) List(ctx context.Context, userID string) ([]models.LibraryItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT li.id, li.user_id, li.manga_id, li.category_id, li.unread_count, li.created_at,
		       m.id, m.title, m.description, m.cover_url, m.author, m.artist,
		       m.status, m.genres, m.source, m.rating, m.created_at
		FROM library_items li
		JOIN manga m ON m.id = li.manga_id
		WHERE li.user_id = ?
		ORDER BY li.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	defer rows.Close()

	out := make([]models.LibraryItem, 0, 16)
	for rows.Next() {
		var (
			it          models.LibraryItem
			categoryID  sql.NullInt64
			m           models.Manga
			description sql.NullString
			author      sql.NullString
			artist      sql.NullString
			status      sql.NullString
			genresJSON  sql.NullString
			rating      sql.NullString
		)

		if err := rows.Scan(
			&it.ID, &it.UserID, &it.MangaID, &categoryID, &it.UnreadCount, &it.CreatedAt,
			&m.ID, &m.Title, &description, &m.CoverURL, &author, &artist,
			&status, &genresJSON, &m.Source, &rating, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan library row: %w", err)
		}

		if categoryID.Valid {
			v := categoryID.Int64
			it.CategoryID = &v
		}
		m.Description = description.String
		m.Author = author.String
		m.Artist = artist.String
		m.Status = status.String
		m.Rating = rating.String
		m.Genres = []string{}
		if genresJSON.Valid {
			_ = json.Unmarshal([]byte(genresJSON.String), &m.Genres)
		}
		it.Manga = &m
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) get(ctx context.Context, userID string, mangaID int64) (*models.LibraryItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, manga_id, category_id, unread_count, created_at
		FROM library_items
		WHERE user_id = ? AND manga_id = ?
	`, userID, mangaID)

	var it models.LibraryItem
	var categoryID sql.NullInt64
	if err := row.Scan(&it.ID, &it.UserID, &it.MangaID, &categoryID, &it.UnreadCount, &it.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get library item: %w", err)
	}
	if categoryID.Valid {
		v := categoryID.Int64
		it.CategoryID = &v
	}
	return &it, nil
}

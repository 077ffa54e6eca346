package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mangashelf/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Record stores a user's reading position. The row is keyed on
// (user_id, manga_id, chapter_id): a repeat read of the same chapter
// updates last_page and read_at in place. Last write wins — a smaller
// last_page overwrites a larger one.
func (r *Repo) Record(ctx context.Context, entry models.HistoryEntry) (*models.HistoryEntry, error) {
	if entry.ReadAt.IsZero() {
		entry.ReadAt = time.Now().UTC()
	}
	if entry.LastPage <= 0 {
		entry.LastPage = 1
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO history (user_id, manga_id, chapter_id, last_page, read_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, manga_id, chapter_id) DO UPDATE SET
			last_page = excluded.last_page,
			read_at = excluded.read_at
	`, entry.UserID, entry.MangaID, entry.ChapterID, entry.LastPage, entry.ReadAt)
	if err != nil {
		return nil, fmt.Errorf("upsert history: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, manga_id, chapter_id, last_page, read_at
		FROM history
		WHERE user_id = ? AND manga_id = ? AND chapter_id = ?
	`, entry.UserID, entry.MangaID, entry.ChapterID)

	var saved models.HistoryEntry
	if err := row.Scan(&saved.ID, &saved.UserID, &saved.MangaID, &saved.ChapterID, &saved.LastPage, &saved.ReadAt); err != nil {
		return nil, fmt.Errorf("get history entry: %w", err)
	}
	return &saved, nil
}

// List returns the user's reading history, most recently read first, each
// entry joined with its manga and chapter. Equal timestamps fall back to
// id order, newest insert first.
func (r *Repo) List(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT h.id, h.user_id, h.manga_id, h.chapter_id, h.last_page, h.read_at,
		       m.id, m.title, m.description, m.cover_url, m.author, m.artist,
		       m.status, m.genres, m.source, m.rating, m.created_at,
		       c.id, c.manga_id, c.title, c.chapter_number, c.volume,
		       c.publish_date, c.url, c.page_count, c.created_at
		FROM history h
		JOIN manga m ON m.id = h.manga_id
		JOIN chapters c ON c.id = h.chapter_id
		WHERE h.user_id = ?
		ORDER BY h.read_at DESC, h.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoryEntry, 0, 16)
	for rows.Next() {
		var (
			entry       models.HistoryEntry
			m           models.Manga
			description sql.NullString
			author      sql.NullString
			artist      sql.NullString
			status      sql.NullString
			genresJSON  sql.NullString
			rating      sql.NullString
			ch          models.Chapter
			chTitle     sql.NullString
			chVolume    sql.NullString
			chPublish   sql.NullTime
			chURL       sql.NullString
		)

		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.MangaID, &entry.ChapterID, &entry.LastPage, &entry.ReadAt,
			&m.ID, &m.Title, &description, &m.CoverURL, &author, &artist,
			&status, &genresJSON, &m.Source, &rating, &m.CreatedAt,
			&ch.ID, &ch.MangaID, &chTitle, &ch.ChapterNumber, &chVolume,
			&chPublish, &chURL, &ch.PageCount, &ch.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
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

		ch.Title = chTitle.String
		ch.Volume = chVolume.String
		ch.URL = chURL.String
		if chPublish.Valid {
			t := chPublish.Time
			ch.PublishDate = &t
		}

		entry.Manga = &m
		entry.Chapter = &ch
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

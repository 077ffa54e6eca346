package manga

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mangashelf/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

// ListQuery filters the catalog list. All filters are optional and
// case-insensitive; an empty query returns the full catalog.
type ListQuery struct {
	Search string // keyword search in title/author
	Genre  string // any-match against the stored genre list
	Source string // exact match on origin label
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const mangaColumns = `id, title, description, cover_url, author, artist, status, genres, source, rating, created_at`

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Manga, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+mangaColumns+`
		FROM manga
		WHERE id = ?
	`, id)

	m, err := scanManga(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get manga: %w", err)
	}
	return m, nil
}

// GetWithChapters returns a manga and its chapters. Chapters come back in
// chapter_number descending TEXT order; the client derives next/previous
// navigation from this exact order, so it must not be re-sorted.
func (r *Repo) GetWithChapters(ctx context.Context, id int64) (*models.MangaWithChapters, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, manga_id, title, chapter_number, volume, publish_date, url, page_count, created_at
		FROM chapters
		WHERE manga_id = ?
		ORDER BY chapter_number DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	out := &models.MangaWithChapters{Manga: *m, Chapters: make([]models.Chapter, 0, 8)}
	for rows.Next() {
		var (
			ch          models.Chapter
			title       sql.NullString
			volume      sql.NullString
			publishDate sql.NullTime
			url         sql.NullString
		)
		if err := rows.Scan(
			&ch.ID, &ch.MangaID, &title, &ch.ChapterNumber, &volume,
			&publishDate, &url, &ch.PageCount, &ch.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		ch.Title = title.String
		ch.Volume = volume.String
		ch.URL = url.String
		if publishDate.Valid {
			t := publishDate.Time
			ch.PublishDate = &t
		}
		out.Chapters = append(out.Chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// List returns catalog entries, newest-created first (id descending).
func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Manga, error) {
	sqlStr, args := buildListSQL(q)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Manga, 0, 16)
	for rows.Next() {
		m, err := scanManga(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) CreateManga(ctx context.Context, m models.Manga) (*models.Manga, error) {
	genresJSON, err := json.Marshal(m.Genres)
	if err != nil {
		return nil, fmt.Errorf("marshal genres: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO manga (title, description, cover_url, author, artist, status, genres, source, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.Title, m.Description, m.CoverURL, m.Author, m.Artist, m.Status, string(genresJSON), m.Source, m.Rating)
	if err != nil {
		return nil, fmt.Errorf("insert manga: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) CreateChapter(ctx context.Context, ch models.Chapter) (*models.Chapter, error) {
	var publishDate sql.NullTime
	if ch.PublishDate != nil {
		publishDate = sql.NullTime{Time: *ch.PublishDate, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO chapters (manga_id, title, chapter_number, volume, publish_date, url, page_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ch.MangaID, ch.Title, ch.ChapterNumber, ch.Volume, publishDate, ch.URL, ch.PageCount)
	if err != nil {
		return nil, fmt.Errorf("insert chapter: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, `
		SELECT id, manga_id, title, chapter_number, volume, publish_date, url, page_count, created_at
		FROM chapters
		WHERE id = ?
	`, id)

	var (
		out    models.Chapter
		title  sql.NullString
		volume sql.NullString
		pub    sql.NullTime
		url    sql.NullString
	)
	if err := row.Scan(&out.ID, &out.MangaID, &title, &out.ChapterNumber, &volume, &pub, &url, &out.PageCount, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan chapter: %w", err)
	}
	out.Title = title.String
	out.Volume = volume.String
	out.URL = url.String
	if pub.Valid {
		t := pub.Time
		out.PublishDate = &t
	}
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManga(row rowScanner) (*models.Manga, error) {
	var (
		m           models.Manga
		description sql.NullString
		author      sql.NullString
		artist      sql.NullString
		status      sql.NullString
		genresJSON  sql.NullString
		rating      sql.NullString
		createdAt   time.Time
	)

	if err := row.Scan(
		&m.ID, &m.Title, &description, &m.CoverURL, &author, &artist,
		&status, &genresJSON, &m.Source, &rating, &createdAt,
	); err != nil {
		return nil, err
	}

	m.Description = description.String
	m.Author = author.String
	m.Artist = artist.String
	m.Status = status.String
	m.Rating = rating.String
	m.CreatedAt = createdAt

	m.Genres = []string{}
	if genresJSON.Valid {
		_ = json.Unmarshal([]byte(genresJSON.String), &m.Genres)
	}
	return &m, nil
}

func buildListSQL(q ListQuery) (string, []any) {
	var where []string
	var args []any

	if s := strings.TrimSpace(q.Search); s != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)")
		kw := "%" + strings.ToLower(s) + "%"
		args = append(args, kw, kw)
	}

	// any-match genre filter against the stored JSON text
	if g := strings.TrimSpace(q.Genre); g != "" {
		where = append(where, "LOWER(genres) LIKE ?")
		args = append(args, "%"+strings.ToLower(g)+"%")
	}

	if s := strings.TrimSpace(q.Source); s != "" {
		where = append(where, "LOWER(source) = ?")
		args = append(args, strings.ToLower(s))
	}

	sqlStr := `SELECT ` + mangaColumns + ` FROM manga`
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	sqlStr += " ORDER BY id DESC"

	return sqlStr, args
}

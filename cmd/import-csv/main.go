package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"mangashelf/pkg/database"
	"mangashelf/pkg/utils"
)

// Imports catalog rows from CSV. Rows carry explicit ids so repeated runs
// upsert instead of duplicating; genres are semicolon-separated in the
// CSV and stored as a JSON array.
func main() {
	var (
		mangaIn    = flag.String("manga", "data/manga.csv", "input CSV path for manga")
		chaptersIn = flag.String("chapters", "data/chapters.csv", "input CSV path for chapters")
	)
	flag.Parse()

	utils.LoadEnvFile()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importManga(ctx, db, *mangaIn); err != nil {
		log.Fatalf("import manga failed: %v", err)
	}
	if err := importChapters(ctx, db, *chaptersIn); err != nil {
		log.Fatalf("import chapters failed: %v", err)
	}

	log.Printf("imported manga from %s and chapters from %s", *mangaIn, *chaptersIn)
}

func importManga(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO manga (id, title, description, cover_url, author, artist, status, genres, source, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  description = excluded.description,
		  cover_url = excluded.cover_url,
		  author = excluded.author,
		  artist = excluded.artist,
		  status = excluded.status,
		  genres = excluded.genres,
		  source = excluded.source,
		  rating = excluded.rating
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		id := valueAt(header, row, "id")
		title := valueAt(header, row, "title")
		coverURL := valueAt(header, row, "cover_url")
		source := valueAt(header, row, "source")
		if id == "" || title == "" || coverURL == "" || source == "" {
			continue
		}

		genresJSON, err := genresToJSON(valueAt(header, row, "genres"))
		if err != nil {
			return fmt.Errorf("encode genres for %s: %w", id, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			id,
			title,
			nullString(valueAt(header, row, "description")),
			coverURL,
			nullString(valueAt(header, row, "author")),
			nullString(valueAt(header, row, "artist")),
			nullString(valueAt(header, row, "status")),
			genresJSON,
			source,
			nullString(valueAt(header, row, "rating")),
		); err != nil {
			return err
		}
	}

	return nil
}

func importChapters(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO chapters (id, manga_id, title, chapter_number, volume, publish_date, url, page_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			manga_id = excluded.manga_id,
			title = excluded.title,
			chapter_number = excluded.chapter_number,
			volume = excluded.volume,
			publish_date = excluded.publish_date,
			url = excluded.url,
			page_count = excluded.page_count
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		id := valueAt(header, row, "id")
		mangaID := valueAt(header, row, "manga_id")
		chapterNumber := valueAt(header, row, "chapter_number")
		if id == "" || mangaID == "" || chapterNumber == "" {
			continue
		}

		pageCount, err := parseNullInt(valueAt(header, row, "page_count"))
		if err != nil {
			return fmt.Errorf("parse page_count for %s: %w", id, err)
		}

		publishDate, err := parseTime(valueAt(header, row, "publish_date"))
		if err != nil {
			return fmt.Errorf("parse publish_date for %s: %w", id, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			id,
			mangaID,
			nullString(valueAt(header, row, "title")),
			chapterNumber,
			nullString(valueAt(header, row, "volume")),
			publishDate,
			nullString(valueAt(header, row, "url")),
			pageCount,
		); err != nil {
			return err
		}
	}

	return nil
}

func genresToJSON(raw string) (string, error) {
	genres := []string{}
	for _, g := range strings.Split(raw, ";") {
		g = strings.TrimSpace(g)
		if g != "" {
			genres = append(genres, g)
		}
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNullInt(raw string) (sql.NullInt64, error) {
	if raw == "" {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func parseTime(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}

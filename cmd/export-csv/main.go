package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mangashelf/pkg/database"
	"mangashelf/pkg/utils"
)

// Exports the catalog to CSV in the same column layout import-csv reads,
// so a catalog can be moved between instances with an export/import pair.
func main() {
	var (
		mangaOut    = flag.String("manga", "data/manga.csv", "output CSV path for manga")
		chaptersOut = flag.String("chapters", "data/chapters.csv", "output CSV path for chapters")
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

	if err := exportManga(ctx, db, *mangaOut); err != nil {
		log.Fatalf("export manga failed: %v", err)
	}
	if err := exportChapters(ctx, db, *chaptersOut); err != nil {
		log.Fatalf("export chapters failed: %v", err)
	}

	log.Printf("exported manga to %s and chapters to %s", *mangaOut, *chaptersOut)
}

func exportManga(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "title", "description", "cover_url", "author", "artist", "status", "genres", "source", "rating"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, title, description, cover_url, author, artist, status, genres, source, rating
        FROM manga
        ORDER BY id
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          int64
			title       string
			description sql.NullString
			coverURL    string
			author      sql.NullString
			artist      sql.NullString
			status      sql.NullString
			genresJSON  sql.NullString
			source      string
			rating      sql.NullString
		)

		if err := rows.Scan(&id, &title, &description, &coverURL, &author, &artist, &status, &genresJSON, &source, &rating); err != nil {
			return err
		}

		if err := w.Write([]string{
			strconv.FormatInt(id, 10),
			title,
			description.String,
			coverURL,
			author.String,
			artist.String,
			status.String,
			genresToCSV(genresJSON.String),
			source,
			rating.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportChapters(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "manga_id", "title", "chapter_number", "volume", "publish_date", "url", "page_count"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, manga_id, title, chapter_number, volume, publish_date, url, page_count
        FROM chapters
        ORDER BY manga_id, id
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id            int64
			mangaID       int64
			title         sql.NullString
			chapterNumber string
			volume        sql.NullString
			publishDate   sql.NullTime
			url           sql.NullString
			pageCount     int
		)

		if err := rows.Scan(&id, &mangaID, &title, &chapterNumber, &volume, &publishDate, &url, &pageCount); err != nil {
			return err
		}

		published := ""
		if publishDate.Valid {
			published = publishDate.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			strconv.FormatInt(id, 10),
			strconv.FormatInt(mangaID, 10),
			title.String,
			chapterNumber,
			volume.String,
			published,
			url.String,
			strconv.Itoa(pageCount),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// genresToCSV converts the stored JSON array back to the semicolon form
// the importer expects.
func genresToCSV(raw string) string {
	if raw == "" {
		return ""
	}
	var genres []string
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return ""
	}
	return strings.Join(genres, ";")
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type seedManga struct {
	Title       string
	Description string
	CoverURL    string
	Author      string
	Artist      string
	Status      string
	Genres      []string
	Source      string
	Rating      string
	Chapters    []seedChapter
}

type seedChapter struct {
	Number string
	Title  string
}

var seedCatalog = []seedManga{
	{
		Title:       "Solo Leveling",
		Description: "Ten years ago, the Gate that connected the real world with the monster world opened...",
		CoverURL:    "https://upload.wikimedia.org/wikipedia/en/9/9c/Solo_Leveling_Webtoon_cover.png",
		Author:      "Chu-Gong",
		Artist:      "Jang Sung-Rak",
		Status:      "Completed",
		Genres:      []string{"Action", "Adventure", "Fantasy"},
		Source:      "Local",
		Rating:      "9.8",
		Chapters: []seedChapter{
			{Number: "1", Title: "Chapter 1"},
			{Number: "2", Title: "Chapter 2"},
		},
	},
	{
		Title:       "One Piece",
		Description: "Gol D. Roger was known as the 'Pirate King', the strongest and most infamous being to have sailed the Grand Line...",
		CoverURL:    "https://upload.wikimedia.org/wikipedia/en/9/90/One_Piece%2C_Volume_61_Cover_%28Japanese%29.jpg",
		Author:      "Eiichiro Oda",
		Artist:      "Eiichiro Oda",
		Status:      "Ongoing",
		Genres:      []string{"Action", "Adventure", "Comedy"},
		Source:      "Local",
		Rating:      "9.5",
		Chapters: []seedChapter{
			{Number: "1000", Title: "Chapter 1000"},
		},
	},
	{
		Title:       "Berserk",
		Description: "Guts, known as the Black Swordsman, seeks sanctuary from the demonic forces...",
		CoverURL:    "https://upload.wikimedia.org/wikipedia/en/4/45/Berserk_vol01.jpg",
		Author:      "Kentaro Miura",
		Artist:      "Kentaro Miura",
		Status:      "Hiatus",
		Genres:      []string{"Action", "Dark Fantasy", "Seinen"},
		Source:      "Local",
		Rating:      "9.9",
		Chapters: []seedChapter{
			{Number: "1", Title: "The Black Swordsman"},
		},
	},
}

// Seed populates the catalog with a starter set of series when the manga
// table is empty. It is invoked once at process startup, after Migrate,
// and is a no-op on every later run. Returns the number of series inserted.
func Seed(ctx context.Context, db *sql.DB) (int, error) {
	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM manga`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("count manga: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	mangaStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO manga (title, description, cover_url, author, artist, status, genres, source, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert manga: %w", err)
	}
	defer mangaStmt.Close()

	chapterStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chapters (manga_id, chapter_number, title, url)
		VALUES (?, ?, ?, 'dummy')
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert chapter: %w", err)
	}
	defer chapterStmt.Close()

	inserted := 0
	for _, m := range seedCatalog {
		genresJSON, err := json.Marshal(m.Genres)
		if err != nil {
			return 0, fmt.Errorf("marshal genres for %s: %w", m.Title, err)
		}

		res, err := mangaStmt.ExecContext(ctx,
			m.Title, m.Description, m.CoverURL, m.Author, m.Artist,
			m.Status, string(genresJSON), m.Source, m.Rating,
		)
		if err != nil {
			return 0, fmt.Errorf("insert manga %s: %w", m.Title, err)
		}

		mangaID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("last insert id for %s: %w", m.Title, err)
		}

		for _, c := range m.Chapters {
			if _, err := chapterStmt.ExecContext(ctx, mangaID, c.Number, c.Title); err != nil {
				return 0, fmt.Errorf("insert chapter %s of %s: %w", c.Number, m.Title, err)
			}
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

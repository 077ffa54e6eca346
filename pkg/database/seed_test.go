package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSeed_FillsEmptyCatalog(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	inserted, err := Seed(context.Background(), db)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if inserted != 3 {
		t.Errorf("expected 3 series inserted, got %d", inserted)
	}

	var mangaCount, chapterCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM manga`).Scan(&mangaCount); err != nil {
		t.Fatalf("count manga: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM chapters`).Scan(&chapterCount); err != nil {
		t.Fatalf("count chapters: %v", err)
	}
	if mangaCount != 3 {
		t.Errorf("expected 3 manga, got %d", mangaCount)
	}
	if chapterCount != 4 {
		t.Errorf("expected 4 chapters, got %d", chapterCount)
	}
}

func TestSeed_NoOpWhenCatalogHasRows(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := Seed(context.Background(), db); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	inserted, err := Seed(context.Background(), db)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second seed should be a no-op, inserted %d", inserted)
	}

	var mangaCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM manga`).Scan(&mangaCount); err != nil {
		t.Fatalf("count manga: %v", err)
	}
	if mangaCount != 3 {
		t.Errorf("expected catalog unchanged at 3 manga, got %d", mangaCount)
	}
}

package manga

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"mangashelf/pkg/models"
)

func newCatalogRouter(repo *Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group("/api/manga"))
	return router
}

func TestGetEndpoint_NotFound(t *testing.T) {
	router := newCatalogRouter(NewRepo(newTestDB(t)))

	for _, path := range []string{"/api/manga/999", "/api/manga/abc"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", path, err)
		}
		if body["message"] != "Manga not found" {
			t.Errorf("%s: unexpected message %q", path, body["message"])
		}
	}
}

func TestListEndpoint_ReturnsArray(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	router := newCatalogRouter(repo)

	mustCreateManga(t, repo, models.Manga{Title: "Solo Leveling", Source: "Local"})
	mustCreateManga(t, repo, models.Manga{Title: "Berserk", Source: "Mangadex"})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/manga", nil)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var items []models.Manga
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("expected a bare array body: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 manga, got %d", len(items))
	}
	if items[0].Title != "Berserk" {
		t.Errorf("expected newest first, got %q", items[0].Title)
	}
}

func TestListEndpoint_AppliesFilters(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	router := newCatalogRouter(repo)

	mustCreateManga(t, repo, models.Manga{Title: "Solo Leveling", Source: "Local"})
	mustCreateManga(t, repo, models.Manga{Title: "Berserk", Source: "Mangadex"})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/manga?search=berserk&page=3", nil)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var items []models.Manga
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Berserk" {
		t.Errorf("expected only Berserk, got %+v", items)
	}
}

func TestGetEndpoint_IncludesChapters(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	router := newCatalogRouter(repo)

	m := mustCreateManga(t, repo, models.Manga{Title: "Solo Leveling"})
	mustCreateChapter(t, repo, m.ID, "1", "Chapter 1")
	mustCreateChapter(t, repo, m.ID, "2", "Chapter 2")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/manga/"+strconv.FormatInt(m.ID, 10), nil)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got models.MangaWithChapters
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != m.ID || len(got.Chapters) != 2 {
		t.Errorf("unexpected response: id=%d chapters=%d", got.ID, len(got.Chapters))
	}
}

package library

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/auth"
	"mangashelf/pkg/models"
)

func newTestRouter(t *testing.T, db *sql.DB) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "mangashelf-test",
		Duration: time.Hour,
	}
	token, _, err := tokens.Sign(&auth.User{ID: "u1", Username: "tester", Email: "tester@example.com"})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	router := gin.New()
	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware(tokens))
	NewHandler(NewRepo(db), nil).RegisterRoutes(protected)

	return router, token
}

func TestUnauthenticated_NoStorageAccess(t *testing.T) {
	// A nil DB would panic on any query; reaching storage fails the test.
	router, _ := newTestRouter(t, nil)

	for _, req := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/library"},
		{http.MethodPost, "/api/library"},
		{http.MethodDelete, "/api/library/1"},
		{http.MethodGet, "/api/categories"},
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(req.method, req.path, nil)
		router.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", req.method, req.path, w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("%s %s: expected empty body, got %q", req.method, req.path, w.Body.String())
		}
	}
}

func TestAdd_Validation(t *testing.T) {
	// Validation short-circuits before storage; nil DB proves it.
	router, token := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing mangaId", `{}`},
		{"zero mangaId", `{"mangaId": 0}`},
		{"negative unreadCount", `{"mangaId": 1, "unreadCount": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/library", strings.NewReader(tt.body))
			r.Header.Set("Authorization", "Bearer "+token)
			r.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestLibraryEndpoints_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	router, token := newTestRouter(t, db)

	insertUser(t, db, "u1")
	mangaID := insertManga(t, db, "Solo Leveling")

	// add
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/library",
		strings.NewReader(`{"mangaId": `+strconv.FormatInt(mangaID, 10)+`}`))
	r.Header.Set("Authorization", "Bearer "+token)
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var item models.LibraryItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	if item.UserID != "u1" || item.MangaID != mangaID || item.UnreadCount != 0 {
		t.Fatalf("unexpected item: %+v", item)
	}

	// list includes the joined manga
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/library", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var items []models.LibraryItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(items) != 1 || items[0].Manga == nil || items[0].Manga.Title != "Solo Leveling" {
		t.Fatalf("unexpected list: %+v", items)
	}

	// remove
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/api/library/"+strconv.FormatInt(item.ID, 10), nil)
	r.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("remove: expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("remove: expected empty body, got %q", w.Body.String())
	}

	// removing again is not found
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/api/library/"+strconv.FormatInt(item.ID, 10), nil)
	r.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", w.Code)
	}
}

package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
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

func TestHistory_Unauthenticated(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestRecord_Validation(t *testing.T) {
	router, token := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "nope"},
		{"missing mangaId", `{"chapterId": 1, "lastPage": 1}`},
		{"missing chapterId", `{"mangaId": 1, "lastPage": 1}`},
		{"negative lastPage", `{"mangaId": 1, "chapterId": 1, "lastPage": -2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/history", strings.NewReader(tt.body))
			r.Header.Set("Authorization", "Bearer "+token)
			r.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestRecordEndpoint_Upserts(t *testing.T) {
	db := newTestDB(t)
	router, token := newTestRouter(t, db)

	insertUser(t, db, "u1")
	mangaID := insertManga(t, db, "Berserk")
	chapterID := insertChapter(t, db, mangaID, "1")

	post := func(lastPage int) models.HistoryEntry {
		t.Helper()
		body := fmt.Sprintf(`{"mangaId": %d, "chapterId": %d, "lastPage": %d}`, mangaID, chapterID, lastPage)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/history", strings.NewReader(body))
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
		var entry models.HistoryEntry
		if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return entry
	}

	first := post(3)
	second := post(1)

	if first.ID != second.ID {
		t.Errorf("repeat post created a new row: id %d vs %d", second.ID, first.ID)
	}
	if second.LastPage != 1 {
		t.Errorf("expected lastPage 1, got %d", second.LastPage)
	}

	// list reflects the single upserted row, newest first
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var items []models.HistoryEntry
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(items))
	}
	if items[0].Chapter == nil || items[0].Chapter.ChapterNumber != "1" {
		t.Errorf("expected joined chapter, got %+v", items[0].Chapter)
	}
}

package history

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/auth"
	"mangashelf/internal/events"
	"mangashelf/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *events.Hub
}

func NewHandler(repo *Repo, hub *events.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.list)
	rg.POST("/history", h.record)
}

type recordReq struct {
	MangaID   int64 `json:"mangaId"`
	ChapterID int64 `json:"chapterId"`
	LastPage  int   `json:"lastPage"`
}

func (h *Handler) record(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req recordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	if req.MangaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "mangaId required", "field": "mangaId"})
		return
	}
	if req.ChapterID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "chapterId required", "field": "chapterId"})
		return
	}
	if req.LastPage < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "lastPage must be >= 0", "field": "lastPage"})
		return
	}

	entry := models.HistoryEntry{
		UserID:    claims.UserID,
		MangaID:   req.MangaID,
		ChapterID: req.ChapterID,
		LastPage:  req.LastPage,
		ReadAt:    time.Now().UTC(),
	}

	saved, err := h.Repo.Record(c.Request.Context(), entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "save failed"})
		return
	}

	if h.Hub != nil {
		ev := events.HistoryEvent{
			Type:      events.TypeHistoryUpdate,
			UserID:    claims.UserID,
			MangaID:   saved.MangaID,
			ChapterID: saved.ChapterID,
			LastPage:  saved.LastPage,
			At:        time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	items, err := h.Repo.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "list failed"})
		return
	}

	c.JSON(http.StatusOK, items)
}

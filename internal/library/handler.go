package library

import (
	"net/http"
	"strconv"
	"strings"
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
	rg.GET("/library", h.list)
	rg.POST("/library", h.add)
	rg.DELETE("/library/:id", h.remove)
	rg.GET("/categories", h.listCategories)
	rg.POST("/categories", h.createCategory)
}

type addReq struct {
	MangaID     int64  `json:"mangaId"`
	CategoryID  *int64 `json:"categoryId"`
	UnreadCount int    `json:"unreadCount"`
}

func (h *Handler) add(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	if req.MangaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "mangaId required", "field": "mangaId"})
		return
	}
	if req.UnreadCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unreadCount must be >= 0", "field": "unreadCount"})
		return
	}
	if req.CategoryID != nil && *req.CategoryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "categoryId must be > 0", "field": "categoryId"})
		return
	}

	item := models.LibraryItem{
		UserID:      claims.UserID,
		MangaID:     req.MangaID,
		CategoryID:  req.CategoryID,
		UnreadCount: req.UnreadCount,
	}

	saved, err := h.Repo.Add(c.Request.Context(), item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "save failed"})
		return
	}

	if h.Hub != nil {
		ev := events.LibraryEvent{
			Type:        events.TypeLibraryUpdate,
			UserID:      claims.UserID,
			ItemID:      saved.ID,
			MangaID:     saved.MangaID,
			UnreadCount: saved.UnreadCount,
			At:          time.Now().UTC(),
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

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}

	ok, err := h.Repo.Remove(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}

	if h.Hub != nil {
		ev := events.LibraryEvent{
			Type:   events.TypeLibraryDelete,
			UserID: claims.UserID,
			ItemID: id,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.Status(http.StatusNoContent)
}

type categoryReq struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

func (h *Handler) createCategory(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name required", "field": "name"})
		return
	}
	if req.Order < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "order must be >= 0", "field": "order"})
		return
	}

	cat, err := h.Repo.CreateCategory(c.Request.Context(), models.Category{
		UserID: claims.UserID,
		Name:   req.Name,
		Order:  req.Order,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "save failed"})
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *Handler) listCategories(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	cats, err := h.Repo.ListCategories(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "list failed"})
		return
	}

	c.JSON(http.StatusOK, cats)
}

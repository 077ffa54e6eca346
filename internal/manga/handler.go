package manga

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"mangashelf/pkg/models"
)

type Handler struct {
	Repo  *Repo
	cache *cache.Cache
}

func NewHandler(repo *Repo) *Handler {
	// catalog rows only change via seed/import, a short TTL is plenty
	return &Handler{
		Repo:  repo,
		cache: cache.New(time.Minute, 5*time.Minute),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /api/manga
	rg.GET("/:id", h.getByID) // GET /api/manga/:id
}

func (h *Handler) list(c *gin.Context) {
	// "page" is accepted for client compatibility but pagination is not
	// implemented; the catalog is returned whole.
	q := ListQuery{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
		Source: c.Query("source"),
	}

	key := fmt.Sprintf("manga:list:%s|%s|%s", q.Search, q.Genre, q.Source)
	if v, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, v.([]models.Manga))
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "list failed"})
		return
	}

	h.cache.Set(key, items, cache.DefaultExpiration)
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Manga not found"})
		return
	}

	key := "manga:detail:" + c.Param("id")
	if v, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, v.(*models.MangaWithChapters))
		return
	}

	m, err := h.Repo.GetWithChapters(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "get failed"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Manga not found"})
		return
	}

	h.cache.Set(key, m, cache.DefaultExpiration)
	c.JSON(http.StatusOK, m)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annazecevic/comics-service/dto"
	"github.com/annazecevic/comics-service/logger"
	"github.com/annazecevic/comics-service/service"
	"github.com/gin-gonic/gin"
)

type ComicHandler struct {
	svc service.ComicService
	env service.EnvPresence
}

func NewComicHandler(svc service.ComicService, env service.EnvPresence) *ComicHandler {
	return &ComicHandler{svc: svc, env: env}
}

func (h *ComicHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/test", h.Diagnostics)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/hello", h.Hello)

	comics := api.Group("/comics")
	{
		comics.GET("", h.ListComics)
		comics.POST("", h.CreateComic)
		comics.GET("/:comic_id", h.GetComic)
	}
}

// GET /
func (h *ComicHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Hello from the Comics API backend!"})
}

// GET /api/hello
func (h *ComicHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Hello from the backend API!"})
}

// GET /api/comics?q=&genre=&limit=
func (h *ComicHandler) ListComics(c *gin.Context) {
	rawLimit, present := c.GetQuery("limit")
	limit, err := parseLimit(rawLimit, present)
	if err != nil {
		logger.Warn(logger.EventValidationFailure, "Invalid list limit", logger.Fields(
			"ip", c.ClientIP(),
			"limit", rawLimit,
		))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := dto.ListComicsQuery{
		Q:     c.Query("q"),
		Genre: c.Query("genre"),
		Limit: limit,
	}

	comics, err := h.svc.ListComics(c.Request.Context(), q)
	if err != nil {
		logger.Error(logger.EventDBError, "Listing comics failed", logger.Fields("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comics"})
		return
	}
	c.JSON(http.StatusOK, comics)
}

// POST /api/comics
func (h *ComicHandler) CreateComic(c *gin.Context) {
	var req dto.CreateComicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(logger.EventValidationFailure, "Invalid comic payload", logger.Fields(
			"ip", c.ClientIP(),
			"error", err.Error(),
		))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.svc.CreateComic(c.Request.Context(), req.ToComic())
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not available"})
			return
		}
		logger.Error(logger.EventDBError, "Creating comic failed", logger.Fields("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comic"})
		return
	}
	c.JSON(http.StatusOK, dto.CreateComicResponse{ID: id})
}

// GET /api/comics/:comic_id
func (h *ComicHandler) GetComic(c *gin.Context) {
	id := c.Param("comic_id")

	comic, err := h.svc.GetComic(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidComicID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrComicNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error(logger.EventDBError, "Fetching comic failed", logger.Fields(
				"comic_id", id,
				"error", err.Error(),
			))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comic"})
		}
		return
	}
	c.JSON(http.StatusOK, comic)
}

// GET /test
func (h *ComicHandler) Diagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Diagnostics(c.Request.Context(), h.env))
}

// parseLimit applies the default only when limit is absent; "?limit=" is an error.
func parseLimit(raw string, present bool) (int, error) {
	if !present {
		return dto.DefaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	if n < dto.MinListLimit || n > dto.MaxListLimit {
		return 0, fmt.Errorf("limit must be between %d and %d", dto.MinListLimit, dto.MaxListLimit)
	}
	return n, nil
}

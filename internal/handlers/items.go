// Package handlers exposes the feed workflow over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/jonesrussell/north-cloud/content-feed/internal/service"
)

const notFoundMessage = "Content feed item not found"

// FeedService is the workflow the handlers drive.
type FeedService interface {
	List(ctx context.Context) ([]models.ContentItem, error)
	Get(ctx context.Context, id int64) (*models.ContentItem, error)
	Create(ctx context.Context, in service.ItemInput) (*models.ContentItem, error)
	Edit(ctx context.Context, id int64, in service.ItemInput) (*models.ContentItem, error)
	Delete(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) (*models.ContentItem, error)
	Refresh(ctx context.Context, id int64) (service.RefreshResult, error)
	Preview(ctx context.Context, contentType, rawURL string) (models.Metadata, error)
	Widget(ctx context.Context) ([]models.WidgetItem, error)
}

// ItemHandler serves the admin item endpoints.
type ItemHandler struct {
	svc    FeedService
	logger infralogger.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(svc FeedService, log infralogger.Logger) *ItemHandler {
	return &ItemHandler{svc: svc, logger: log}
}

// List returns every item in display order.
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to list content feed items", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// Get returns one item.
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Failed to get content feed item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Create validates, enriches and stores a new item.
func (h *ItemHandler) Create(c *gin.Context) {
	var in service.ItemInput
	if !h.bind(c, &in) {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, "Failed to create content feed item", err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update replaces type, url and optionally active/position, re-resolving metadata.
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var in service.ItemInput
	if !h.bind(c, &in) {
		return
	}

	item, err := h.svc.Edit(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, "Failed to update content feed item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete removes an item.
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, "Failed to delete content feed item", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Toggle flips the active flag.
func (h *ItemHandler) Toggle(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.svc.Toggle(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Failed to toggle content feed item", err)
		return
	}

	message := "Content feed item deactivated"
	if item.Active {
		message = "Content feed item activated"
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "message": message})
}

// Refresh re-resolves an item's metadata.
func (h *ItemHandler) Refresh(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.Refresh(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Failed to refresh metadata", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ItemHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return 0, false
	}
	return id, true
}

func (h *ItemHandler) bind(c *gin.Context, in *service.ItemInput) bool {
	return bindJSON(c, h.logger, in)
}

func bindJSON(c *gin.Context, log infralogger.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.Debug("Invalid request body", infralogger.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return false
	}
	return true
}

func (h *ItemHandler) respondError(c *gin.Context, msg string, err error) {
	respondError(c, h.logger, msg, err)
}

// respondError maps workflow errors onto status codes.
func respondError(c *gin.Context, log infralogger.Logger, msg string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Errors})
	case errors.Is(err, service.ErrItemNotFound):
		log.Debug(notFoundMessage, infralogger.String("id", c.Param("id")))
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	default:
		infralogger.FromContext(c.Request.Context()).Error(msg, infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

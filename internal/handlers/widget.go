package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
)

// WidgetHandler serves the storefront.
type WidgetHandler struct {
	svc    FeedService
	logger infralogger.Logger
}

// NewWidgetHandler creates a WidgetHandler.
func NewWidgetHandler(svc FeedService, log infralogger.Logger) *WidgetHandler {
	return &WidgetHandler{svc: svc, logger: log}
}

// Get returns active items in display order.
func (h *WidgetHandler) Get(c *gin.Context) {
	items, err := h.svc.Widget(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to load widget", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
)

type previewRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// MetadataHandler lets admin forms preview enrichment before saving.
type MetadataHandler struct {
	svc    FeedService
	logger infralogger.Logger
}

// NewMetadataHandler creates a MetadataHandler.
func NewMetadataHandler(svc FeedService, log infralogger.Logger) *MetadataHandler {
	return &MetadataHandler{svc: svc, logger: log}
}

// Preview resolves metadata for {type, url} without storing anything.
func (h *MetadataHandler) Preview(c *gin.Context) {
	var req previewRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	md, err := h.svc.Preview(c.Request.Context(), req.Type, req.URL)
	if err != nil {
		respondError(c, h.logger, "Failed to resolve metadata", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metadata": md,
		"resolved": !md.IsEmpty(),
	})
}

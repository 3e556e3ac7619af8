package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Query returns audit entries, newest first, with optional filters.
func (h *AuditHandler) Query(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	filters := services.AuditFilters{
		Action:       models.AuditAction(c.Query("action")),
		ResourceType: c.Query("resource_type"),
		ActorEmail:   c.Query("actor_email"),
		Limit:        limit,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		filters.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		filters.To = t
	}

	entries, err := h.audit.Query(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Stats returns the derived aggregate view of the trail.
func (h *AuditHandler) Stats(c *gin.Context) {
	stats, err := h.audit.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute audit stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

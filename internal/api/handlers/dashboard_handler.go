package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type DashboardHandler struct {
	chemicals   *services.ChemicalService
	experiments *services.ExperimentService
}

func NewDashboardHandler(chemicals *services.ChemicalService, experiments *services.ExperimentService) *DashboardHandler {
	return &DashboardHandler{chemicals: chemicals, experiments: experiments}
}

// Stats aggregates the dashboard counts and highlight lists in one response.
func (h *DashboardHandler) Stats(c *gin.Context) {
	totalChemicals, err := h.chemicals.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	totalExperiments, err := h.experiments.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	lowStock, err := h.chemicals.LowStock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	expiring, err := h.chemicals.ExpiringSoon()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	recentChemicals, _ := h.chemicals.CountCreatedSince(weekAgo)
	recentExperiments, _ := h.experiments.CountCreatedSince(weekAgo)

	uuid, _, _ := actor(c)
	userRecent, err := h.experiments.RecentByUser(uuid, 5)
	if err != nil {
		userRecent = []models.Experiment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_chemicals":         totalChemicals,
		"total_experiments":       totalExperiments,
		"low_stock_count":         len(lowStock),
		"expiring_soon_count":     len(expiring),
		"recent_chemicals":        recentChemicals,
		"recent_experiments":      recentExperiments,
		"low_stock_chemicals":     top5(lowStock),
		"expiring_chemicals":      top5(expiring),
		"user_recent_experiments": userRecent,
	})
}

func top5(chems []models.Chemical) []models.Chemical {
	if len(chems) > 5 {
		return chems[:5]
	}
	return chems
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type ExperimentHandler struct {
	experiments *services.ExperimentService
	audit       *services.AuditService
}

func NewExperimentHandler(experiments *services.ExperimentService, audit *services.AuditService) *ExperimentHandler {
	return &ExperimentHandler{experiments: experiments, audit: audit}
}

func (h *ExperimentHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	filters := services.ExperimentFilters{
		Search:    c.Query("search"),
		CreatedBy: c.Query("created_by"),
		Offset:    offset,
		Limit:     limit,
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from"})
			return
		}
		filters.From = t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to"})
			return
		}
		filters.To = t
	}

	exps, err := h.experiments.List(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch experiments"})
		return
	}
	c.JSON(http.StatusOK, exps)
}

func (h *ExperimentHandler) Create(c *gin.Context) {
	var in services.ExperimentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uuid, email, _ := actor(c)
	exp, err := h.experiments.Create(uuid, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create experiment"})
		return
	}

	h.audit.Record(uuid, email, models.AuditActionCreate, models.AuditResourceExperiment, exp.UUID, exp.Title,
		map[string]interface{}{"date": exp.Date},
		"Created experiment "+exp.Title)

	c.JSON(http.StatusCreated, exp)
}

func (h *ExperimentHandler) Get(c *gin.Context) {
	exp, err := h.experiments.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrExperimentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch experiment"})
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ExperimentHandler) Update(c *gin.Context) {
	var patch services.ExperimentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uuid, email, role := actor(c)
	exp, err := h.experiments.Update(uuid, role, c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExperimentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotExperimentOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update experiment"})
		}
		return
	}

	h.audit.Record(uuid, email, models.AuditActionUpdate, models.AuditResourceExperiment, exp.UUID, exp.Title,
		nil, "Updated experiment "+exp.Title)

	c.JSON(http.StatusOK, exp)
}

func (h *ExperimentHandler) Delete(c *gin.Context) {
	exp, err := h.experiments.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrExperimentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch experiment"})
		return
	}

	uuid, email, role := actor(c)
	if err := h.experiments.Delete(uuid, role, exp.UUID); err != nil {
		if errors.Is(err, services.ErrNotExperimentOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete experiment"})
		return
	}

	h.audit.Record(uuid, email, models.AuditActionDelete, models.AuditResourceExperiment, exp.UUID, exp.Title,
		nil, "Deleted experiment "+exp.Title)

	c.JSON(http.StatusOK, gin.H{"message": "Experiment deleted successfully"})
}

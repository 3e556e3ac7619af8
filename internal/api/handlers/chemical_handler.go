package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type ChemicalHandler struct {
	chemicals *services.ChemicalService
	audit     *services.AuditService
}

func NewChemicalHandler(chemicals *services.ChemicalService, audit *services.AuditService) *ChemicalHandler {
	return &ChemicalHandler{chemicals: chemicals, audit: audit}
}

func (h *ChemicalHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	chems, err := h.chemicals.List(services.ChemicalFilters{
		Search:       c.Query("search"),
		Location:     c.Query("location"),
		UnitType:     models.UnitType(c.Query("unit_type")),
		LowStockOnly: c.Query("low_stock_only") == "true",
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidUnitType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chemicals"})
		return
	}
	c.JSON(http.StatusOK, chems)
}

func (h *ChemicalHandler) Create(c *gin.Context) {
	var in services.ChemicalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uuid, email, _ := actor(c)
	chem, err := h.chemicals.Create(uuid, in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUnitType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chemical"})
		return
	}

	h.audit.Record(uuid, email, models.AuditActionCreate, models.AuditResourceChemical, chem.UUID, chem.Name,
		map[string]interface{}{"quantity": chem.Quantity, "unit": chem.Unit, "location": chem.Location},
		"Created chemical "+chem.Name)

	c.JSON(http.StatusCreated, chem)
}

func (h *ChemicalHandler) Get(c *gin.Context) {
	chem, err := h.chemicals.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrChemicalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chemical"})
		return
	}
	c.JSON(http.StatusOK, chem)
}

func (h *ChemicalHandler) Update(c *gin.Context) {
	var patch services.ChemicalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chem, err := h.chemicals.Update(c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChemicalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidUnitType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chemical"})
		}
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionUpdate, models.AuditResourceChemical, chem.UUID, chem.Name,
		map[string]interface{}{"quantity": chem.Quantity},
		"Updated chemical "+chem.Name)

	c.JSON(http.StatusOK, chem)
}

func (h *ChemicalHandler) Delete(c *gin.Context) {
	chem, err := h.chemicals.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrChemicalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chemical"})
		return
	}

	if err := h.chemicals.Delete(chem.UUID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chemical"})
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionDelete, models.AuditResourceChemical, chem.UUID, chem.Name,
		nil, "Deleted chemical "+chem.Name)

	c.JSON(http.StatusOK, gin.H{"message": "Chemical deleted successfully"})
}

// Available returns the slim projection used by experiment entry forms.
func (h *ChemicalHandler) Available(c *gin.Context) {
	list, err := h.chemicals.Available()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chemicals"})
		return
	}
	c.JSON(http.StatusOK, list)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type SettingsHandler struct {
	DB    *gorm.DB
	audit *services.AuditService
}

func NewSettingsHandler(db *gorm.DB, audit *services.AuditService) *SettingsHandler {
	return &SettingsHandler{DB: db, audit: audit}
}

// GetSettings returns all settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	var settings []models.Setting
	if err := h.DB.Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type UpdateSettingRequest struct {
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// UpdateSetting upserts one key/value pair and audit-logs the change.
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var setting models.Setting
	err := h.DB.Where("key = ?", req.Key).First(&setting).Error
	action := models.AuditActionUpdate
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = models.Setting{Key: req.Key, Value: req.Value, Type: req.Type, Category: req.Category}
		if setting.Type == "" {
			setting.Type = "string"
		}
		if setting.Category == "" {
			setting.Category = "general"
		}
		action = models.AuditActionCreate
		if err := h.DB.Create(&setting).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch setting"})
		return
	default:
		setting.Value = req.Value
		if req.Type != "" {
			setting.Type = req.Type
		}
		if req.Category != "" {
			setting.Category = req.Category
		}
		if err := h.DB.Save(&setting).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
			return
		}
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, action, models.AuditResourceSetting, "", setting.Key,
		map[string]interface{}{"value": setting.Value},
		"Changed setting "+setting.Key)

	c.JSON(http.StatusOK, setting)
}

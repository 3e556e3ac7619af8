package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	audit         *services.AuditService
}

func NewNotificationHandler(notifications *services.NotificationService, audit *services.AuditService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, audit: audit}
}

func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	list, err := h.notifications.List(unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkAsRead(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllAsRead(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

type ProviderRequest struct {
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type" binding:"required"`
	URL              string `json:"url" binding:"required"`
	Enabled          bool   `json:"enabled"`
	NotifyLowStock   *bool  `json:"notify_low_stock"`
	NotifyExpiration *bool  `json:"notify_expiration"`
}

func (h *NotificationHandler) ListProviders(c *gin.Context) {
	var providers []models.NotificationProvider
	if err := h.notifications.DB.Order("name asc").Find(&providers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch providers"})
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *NotificationHandler) CreateProvider(c *gin.Context) {
	var req ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		Name:             req.Name,
		Type:             req.Type,
		URL:              req.URL,
		Enabled:          req.Enabled,
		NotifyLowStock:   true,
		NotifyExpiration: true,
	}
	if req.NotifyLowStock != nil {
		provider.NotifyLowStock = *req.NotifyLowStock
	}
	if req.NotifyExpiration != nil {
		provider.NotifyExpiration = *req.NotifyExpiration
	}

	if err := h.notifications.DB.Create(&provider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create provider"})
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionCreate, models.AuditResourceSetting, provider.ID, provider.Name,
		map[string]interface{}{"type": provider.Type},
		"Created notification provider "+provider.Name)

	c.JSON(http.StatusCreated, provider)
}

func (h *NotificationHandler) DeleteProvider(c *gin.Context) {
	var provider models.NotificationProvider
	if err := h.notifications.DB.Where("id = ?", c.Param("id")).First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch provider"})
		return
	}

	if err := h.notifications.DB.Delete(&provider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete provider"})
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionDelete, models.AuditResourceSetting, provider.ID, provider.Name,
		nil, "Deleted notification provider "+provider.Name)

	c.JSON(http.StatusOK, gin.H{"message": "Provider deleted successfully"})
}

// TestProvider fires a test event at every enabled provider.
func (h *NotificationHandler) TestProvider(c *gin.Context) {
	h.notifications.SendExternal(services.EventTest, "Test notification", "LabJournal notification test")
	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent"})
}

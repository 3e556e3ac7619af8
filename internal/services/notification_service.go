package services

import (
	"fmt"
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/logger"
	"github.com/benchwork/labjournal/backend/internal/models"
)

// Inventory event types routed to external providers.
const (
	EventLowStock   = "low_stock"
	EventExpiration = "expiration"
	EventTest       = "test"
)

// NotificationService stores in-app notifications and fans inventory events
// out to configured external providers via shoutrrr. External delivery is
// fire-and-forget; a dead webhook never affects request handling.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// SendExternal delivers an event to every enabled provider whose preferences
// accept it. Delivery runs in background goroutines.
func (s *NotificationService) SendExternal(eventType, title, message string) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("fetch notification providers")
		return
	}

	for _, provider := range providers {
		shouldSend := false
		switch eventType {
		case EventLowStock:
			shouldSend = provider.NotifyLowStock
		case EventExpiration:
			shouldSend = provider.NotifyExpiration
		case EventTest:
			shouldSend = true
		}
		if !shouldSend {
			continue
		}

		go func(p models.NotificationProvider) {
			body := fmt.Sprintf("%s\n%s\n%s", title, message, time.Now().Format(time.RFC3339))
			if err := shoutrrr.Send(p.URL, body); err != nil {
				logger.WithFields(map[string]interface{}{
					"provider": p.Name,
					"type":     p.Type,
				}).WithError(err).Error("external notification failed")
			}
		}(provider)
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationProvider is an external delivery target (shoutrrr URL or plain
// webhook) for inventory alerts.
type NotificationProvider struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // discord, slack, gotify, telegram, generic, webhook
	URL     string `json:"url"`  // The shoutrrr URL or webhook URL
	Enabled bool   `json:"enabled"`

	// Event preferences. Defaults are applied by the create handler; a
	// DB-side default would make GORM drop an explicit false on insert.
	NotifyLowStock   bool `json:"notify_low_stock"`
	NotifyExpiration bool `json:"notify_expiration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

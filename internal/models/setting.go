package models

import (
	"time"
)

// Setting is a simple key/value pair for runtime-editable app configuration
// (lab name, expiry warning window, etc.).
type Setting struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Key      string `json:"key" gorm:"uniqueIndex"`
	Value    string `json:"value"`
	Type     string `json:"type" gorm:"default:'string'"` // string, int, bool
	Category string `json:"category" gorm:"default:'general'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"
)

// AuditAction is the kind of state change an audit entry describes.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionLogout AuditAction = "LOGOUT"
)

// Audit resource types.
const (
	AuditResourceUser           = "User"
	AuditResourceRole           = "Role"
	AuditResourceChemical       = "Chemical"
	AuditResourceExperiment     = "Experiment"
	AuditResourceAuthentication = "Authentication"
	AuditResourceSetting        = "Setting"
)

// AuditEntry records one sensitive action. Entries are append-only: actor id
// and email are captured by value at write time so deleting the account later
// never touches its history.
type AuditEntry struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UUID         string      `json:"uuid" gorm:"uniqueIndex"`
	ActorID      string      `json:"actor_id" gorm:"index"`
	ActorEmail   string      `json:"actor_email" gorm:"index"`
	Action       AuditAction `json:"action" gorm:"index"`
	ResourceType string      `json:"resource_type" gorm:"index"`
	ResourceID   string      `json:"resource_id,omitempty"`
	ResourceName string      `json:"resource_name,omitempty"`
	Details      string      `json:"details,omitempty" gorm:"type:text"` // JSON payload, e.g. changed fields
	Summary      string      `json:"summary"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index"`
}

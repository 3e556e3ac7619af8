package models

import (
	"encoding/json"
	"time"
)

// Names of the system roles guaranteed to exist. "guest" is the default for
// self-registered accounts.
const (
	SystemRoleAdmin      = "admin"
	SystemRoleResearcher = "researcher"
	SystemRoleStudent    = "student"
	SystemRoleGuest      = "guest"
)

// Role is a named permission set. System roles are seeded at install time,
// always exist, and cannot be deleted or renamed.
type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UUID        string `json:"uuid" gorm:"uniqueIndex"`
	Name        string `json:"name" gorm:"uniqueIndex"` // Immutable after creation
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	// Permissions holds the JSON-encoded permission name list. Use
	// PermissionList/SetPermissions instead of touching it directly.
	Permissions string `json:"-" gorm:"type:text"`
	IsSystem    bool   `json:"is_system" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PermissionList decodes the stored permission names. A corrupt or empty
// column yields an empty list, never an error; authorization fails closed on
// an empty set.
func (r *Role) PermissionList() []string {
	if r.Permissions == "" {
		return []string{}
	}
	var perms []string
	if err := json.Unmarshal([]byte(r.Permissions), &perms); err != nil {
		return []string{}
	}
	return perms
}

// SetPermissions encodes and stores the permission name list.
func (r *Role) SetPermissions(perms []string) error {
	if perms == nil {
		perms = []string{}
	}
	data, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	r.Permissions = string(data)
	return nil
}

// HasPermission reports direct membership of a permission name in the role's
// set. Override and legacy-implication semantics live in the access checker,
// not here.
func (r *Role) HasPermission(name string) bool {
	for _, p := range r.PermissionList() {
		if p == name {
			return true
		}
	}
	return false
}

// MarshalJSON inlines the decoded permission list so API clients never see
// the raw JSON column.
func (r Role) MarshalJSON() ([]byte, error) {
	type alias Role
	return json.Marshal(struct {
		alias
		Permissions []string `json:"permissions"`
	}{alias(r), r.PermissionList()})
}

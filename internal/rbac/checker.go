package rbac

import (
	"errors"

	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/logger"
	"github.com/benchwork/labjournal/backend/internal/metrics"
	"github.com/benchwork/labjournal/backend/internal/models"
)

// impliedBy maps a narrow permission to the broad legacy permission that
// satisfies it. Defined once, server-side; never duplicate this table in
// consuming components.
var impliedBy = map[string]string{
	PermViewDashboard:   PermLegacyRead,
	PermReadChemicals:   PermLegacyRead,
	PermReadExperiments: PermLegacyRead,

	PermWriteChemicals:   PermLegacyWrite,
	PermWriteExperiments: PermLegacyWrite,

	PermDeleteChemicals:   PermLegacyDelete,
	PermDeleteExperiments: PermLegacyDelete,
}

// Checker decides allow/deny for a role name and a required permission.
// It holds no state beyond the database handle and is safe for concurrent use.
type Checker struct {
	db *gorm.DB
}

// NewChecker returns a Checker reading roles from db.
func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// Authorize reports whether roleName grants the required permission.
// A missing or unreadable role denies (fail closed) rather than erroring:
// accounts left pointing at a deleted role lose access, they do not crash
// requests.
func (c *Checker) Authorize(roleName, required string) bool {
	metrics.IncAuthzCheck()

	var role models.Role
	if err := c.db.Where("name = ?", roleName).First(&role).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"role": roleName,
			}).WithError(err).Warn("role lookup failed, denying access")
		}
		metrics.IncAuthzDenied()
		return false
	}

	if allowed(role.PermissionList(), required) {
		return true
	}

	metrics.IncAuthzDenied()
	return false
}

// allowed implements the membership rules: direct grant, the system_admin
// universal override, or a broad legacy permission implying the narrow one.
func allowed(granted []string, required string) bool {
	broad := impliedBy[required]
	for _, p := range granted {
		if p == required || p == PermSystemAdmin {
			return true
		}
		if broad != "" && p == broad {
			return true
		}
	}
	return false
}

package services

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/rbac"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleExists        = errors.New("role name already exists")
	ErrRoleNameInvalid   = errors.New("role name must be lowercase letters, digits and underscores")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrSystemRole        = errors.New("cannot delete system roles")
	ErrRoleInUse         = errors.New("role is still assigned to accounts")
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// RoleService is the role store: CRUD over named permission sets, validated
// against the permission registry. Concurrent updates to the same role are
// last-write-wins; SQLite serializes the writes themselves.
type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// RoleUpdate carries the mutable fields of a role. Nil means "leave as is".
// The name itself is never updatable.
type RoleUpdate struct {
	DisplayName *string
	Description *string
	Permissions []string
}

// Create validates and persists a new custom role. All validation runs
// before the write; nothing is persisted on failure.
func (s *RoleService) Create(name, displayName, description string, permissions []string) (*models.Role, error) {
	if !roleNamePattern.MatchString(name) {
		return nil, ErrRoleNameInvalid
	}
	if err := validatePermissions(permissions); err != nil {
		return nil, err
	}

	var existing models.Role
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrRoleExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &models.Role{
		UUID:        uuid.NewString(),
		Name:        name,
		DisplayName: displayName,
		Description: description,
		IsSystem:    false,
	}
	if err := role.SetPermissions(permissions); err != nil {
		return nil, err
	}

	if err := s.db.Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

// Update applies the given changes to a role. Unknown permissions fail the
// whole update before any write. System roles accept updates; only deletion
// and renaming are off limits for them.
func (s *RoleService) Update(name string, upd RoleUpdate) (*models.Role, error) {
	if upd.Permissions != nil {
		if err := validatePermissions(upd.Permissions); err != nil {
			return nil, err
		}
	}

	var role models.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	if upd.DisplayName != nil {
		role.DisplayName = *upd.DisplayName
	}
	if upd.Description != nil {
		role.Description = *upd.Description
	}
	if upd.Permissions != nil {
		if err := role.SetPermissions(upd.Permissions); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Delete removes a custom role. System roles are never deletable, and a role
// still referenced by any account is kept to avoid orphaning accounts.
func (s *RoleService) Delete(name string) error {
	var role models.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	if role.IsSystem {
		return ErrSystemRole
	}

	var assigned int64
	if err := s.db.Model(&models.User{}).Where("role = ?", name).Count(&assigned).Error; err != nil {
		return err
	}
	if assigned > 0 {
		return fmt.Errorf("%w: %d accounts", ErrRoleInUse, assigned)
	}

	return s.db.Delete(&role).Error
}

// Get fetches a role by name.
func (s *RoleService) Get(name string) (*models.Role, error) {
	var role models.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// List returns all roles ordered by name.
func (s *RoleService) List() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Order("name asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// UsersWithRole returns the accounts currently assigned the role.
func (s *RoleService) UsersWithRole(name string) ([]models.User, error) {
	if _, err := s.Get(name); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.Where("role = ?", name).Order("email asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func validatePermissions(permissions []string) error {
	for _, p := range permissions {
		if !rbac.Exists(p) {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, p)
		}
	}
	return nil
}

// systemRoleSeeds are the permission sets the platform guarantees. Seeding
// re-applies them on every boot so system roles pick up newly introduced
// permissions.
var systemRoleSeeds = []struct {
	name        string
	displayName string
	description string
	permissions []string
}{
	{
		name:        models.SystemRoleAdmin,
		displayName: "Administrator",
		description: "Full system access with all permissions",
		permissions: []string{
			rbac.PermReadChemicals, rbac.PermWriteChemicals, rbac.PermDeleteChemicals,
			rbac.PermReadExperiments, rbac.PermWriteExperiments, rbac.PermDeleteExperiments,
			rbac.PermReadUsers, rbac.PermManageUsers, rbac.PermManageRoles,
			rbac.PermViewDashboard, rbac.PermSystemAdmin,
			rbac.PermLegacyRead, rbac.PermLegacyWrite, rbac.PermLegacyDelete,
		},
	},
	{
		name:        models.SystemRoleResearcher,
		displayName: "Researcher",
		description: "Can manage chemicals and experiments",
		permissions: []string{
			rbac.PermReadChemicals, rbac.PermWriteChemicals, rbac.PermDeleteChemicals,
			rbac.PermReadExperiments, rbac.PermWriteExperiments, rbac.PermDeleteExperiments,
			rbac.PermViewDashboard,
			rbac.PermLegacyRead, rbac.PermLegacyWrite, rbac.PermLegacyDelete,
		},
	},
	{
		name:        models.SystemRoleStudent,
		displayName: "Student",
		description: "Can view and create chemicals and experiments",
		permissions: []string{
			rbac.PermReadChemicals, rbac.PermWriteChemicals,
			rbac.PermReadExperiments, rbac.PermWriteExperiments,
			rbac.PermViewDashboard,
			rbac.PermLegacyRead, rbac.PermLegacyWrite,
		},
	},
	{
		name:        models.SystemRoleGuest,
		displayName: "Guest",
		description: "Read-only access to chemicals and experiments",
		permissions: []string{
			rbac.PermReadChemicals, rbac.PermReadExperiments, rbac.PermViewDashboard,
			rbac.PermLegacyRead,
		},
	},
}

// SeedSystemRoles creates the system roles if missing and refreshes their
// permission sets, display names and descriptions if present.
func SeedSystemRoles(db *gorm.DB) error {
	for _, seed := range systemRoleSeeds {
		var role models.Role
		err := db.Where("name = ?", seed.name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{
				UUID:        uuid.NewString(),
				Name:        seed.name,
				DisplayName: seed.displayName,
				Description: seed.description,
				IsSystem:    true,
			}
			if err := role.SetPermissions(seed.permissions); err != nil {
				return err
			}
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", seed.name, err)
			}
			continue
		}
		if err != nil {
			return err
		}

		role.DisplayName = seed.displayName
		role.Description = seed.description
		role.IsSystem = true
		if err := role.SetPermissions(seed.permissions); err != nil {
			return err
		}
		if err := db.Save(&role).Error; err != nil {
			return fmt.Errorf("refresh role %s: %w", seed.name, err)
		}
	}
	return nil
}

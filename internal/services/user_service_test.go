package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchwork/labjournal/backend/internal/models"
)

func setupUserService(t *testing.T) (*UserService, *RoleService) {
	db := setupTestDB(t)
	require.NoError(t, SeedSystemRoles(db))
	roles := NewRoleService(db)
	return NewUserService(db, roles), roles
}

func TestUserService_Create(t *testing.T) {
	service, _ := setupUserService(t)

	user, err := service.Create("alice@example.com", "password123", "Alice", models.SystemRoleResearcher)
	require.NoError(t, err)
	assert.Equal(t, models.SystemRoleResearcher, user.Role)
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.UUID)

	// Unknown role rejected
	_, err = service.Create("bob@example.com", "password123", "Bob", "warlock")
	assert.ErrorIs(t, err, ErrRoleNotFound)

	// Duplicate email rejected
	_, err = service.Create("alice@example.com", "password123", "Alice Again", models.SystemRoleGuest)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_List(t *testing.T) {
	service, _ := setupUserService(t)

	_, err := service.Create("alice@example.com", "password123", "Alice", models.SystemRoleResearcher)
	require.NoError(t, err)
	_, err = service.Create("bob@example.com", "password123", "Bob", models.SystemRoleStudent)
	require.NoError(t, err)
	_, err = service.Create("carol@other.org", "password123", "Carol", models.SystemRoleStudent)
	require.NoError(t, err)

	all, err := service.List(UserFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice@example.com", all[0].Email)

	students, err := service.List(UserFilters{Role: models.SystemRoleStudent})
	require.NoError(t, err)
	assert.Len(t, students, 2)

	byDomain, err := service.List(UserFilters{Search: "example.com"})
	require.NoError(t, err)
	assert.Len(t, byDomain, 2)

	paged, err := service.List(UserFilters{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "bob@example.com", paged[0].Email)
}

func TestUserService_Update(t *testing.T) {
	service, _ := setupUserService(t)

	admin, err := service.Create("admin@example.com", "password123", "Admin", models.SystemRoleAdmin)
	require.NoError(t, err)
	target, err := service.Create("user@example.com", "password123", "User", models.SystemRoleGuest)
	require.NoError(t, err)

	role := models.SystemRoleResearcher
	name := "Promoted User"
	updated, err := service.Update(admin.UUID, target.UUID, UserPatch{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Promoted User", updated.Name)
	assert.Equal(t, models.SystemRoleResearcher, updated.Role)

	// Unknown role rejected
	bad := "warlock"
	_, err = service.Update(admin.UUID, target.UUID, UserPatch{Role: &bad})
	assert.ErrorIs(t, err, ErrRoleNotFound)

	_, err = service.Update(admin.UUID, "missing-uuid", UserPatch{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_SelfProtections(t *testing.T) {
	service, _ := setupUserService(t)

	admin, err := service.Create("admin@example.com", "password123", "Admin", models.SystemRoleAdmin)
	require.NoError(t, err)

	guest := models.SystemRoleGuest
	_, err = service.Update(admin.UUID, admin.UUID, UserPatch{Role: &guest})
	assert.ErrorIs(t, err, ErrSelfRoleChange)

	inactive := false
	_, err = service.Update(admin.UUID, admin.UUID, UserPatch{Active: &inactive})
	assert.ErrorIs(t, err, ErrSelfDeactivation)

	err = service.Delete(admin.UUID, admin.UUID)
	assert.ErrorIs(t, err, ErrSelfDeletion)

	// Editing your own name is fine
	name := "Head Admin"
	updated, err := service.Update(admin.UUID, admin.UUID, UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Head Admin", updated.Name)
}

func TestUserService_ReactivationClearsLockout(t *testing.T) {
	service, _ := setupUserService(t)

	admin, err := service.Create("admin@example.com", "password123", "Admin", models.SystemRoleAdmin)
	require.NoError(t, err)
	target, err := service.Create("locked@example.com", "password123", "Locked", models.SystemRoleGuest)
	require.NoError(t, err)

	require.NoError(t, service.db.Model(&models.User{}).Where("uuid = ?", target.UUID).
		Updates(map[string]interface{}{"active": false, "failed_login_attempts": 5}).Error)

	active := true
	updated, err := service.Update(admin.UUID, target.UUID, UserPatch{Active: &active})
	require.NoError(t, err)
	assert.True(t, updated.Active)
	assert.Zero(t, updated.FailedLoginAttempts)
	assert.Nil(t, updated.LockedUntil)
}

func TestUserService_Delete(t *testing.T) {
	service, _ := setupUserService(t)

	admin, err := service.Create("admin@example.com", "password123", "Admin", models.SystemRoleAdmin)
	require.NoError(t, err)
	target, err := service.Create("user@example.com", "password123", "User", models.SystemRoleGuest)
	require.NoError(t, err)

	require.NoError(t, service.Delete(admin.UUID, target.UUID))
	_, err = service.Get(target.UUID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = service.Delete(admin.UUID, target.UUID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfRoleChange   = errors.New("cannot change your own role")
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
	ErrSelfDeletion     = errors.New("cannot delete your own account")
)

// UserService is the administrator's account management surface. Ordinary
// self-service (registration, password change) lives in AuthService.
type UserService struct {
	db    *gorm.DB
	roles *RoleService
}

func NewUserService(db *gorm.DB, roles *RoleService) *UserService {
	return &UserService{db: db, roles: roles}
}

// UserFilters narrows List. Zero values mean "no filter".
type UserFilters struct {
	Search string // substring match on email
	Role   string
	Offset int
	Limit  int
}

// List returns accounts matching the filters, ordered by email.
func (s *UserService) List(f UserFilters) ([]models.User, error) {
	q := s.db.Model(&models.User{})
	if f.Search != "" {
		q = q.Where("email LIKE ?", "%"+f.Search+"%")
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var users []models.User
	if err := q.Order("email asc").Offset(f.Offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create makes an account with any existing role, bypassing the
// self-registration guest default.
func (s *UserService) Create(email, password, name, roleName string) (*models.User, error) {
	if _, err := s.roles.Get(roleName); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		UUID:   uuid.NewString(),
		Email:  email,
		Name:   name,
		Role:   roleName,
		Active: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Get fetches an account by UUID.
func (s *UserService) Get(userUUID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("uuid = ?", userUUID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserPatch carries admin-editable account fields. Nil means "leave as is".
type UserPatch struct {
	Name     *string
	Role     *string
	Active   *bool
	Password *string
}

// Update applies an admin edit. actorUUID is the acting admin; the
// self-protection rules stop an admin from locking themselves out.
func (s *UserService) Update(actorUUID, userUUID string, patch UserPatch) (*models.User, error) {
	user, err := s.Get(userUUID)
	if err != nil {
		return nil, err
	}

	if actorUUID == userUUID {
		if patch.Role != nil && *patch.Role != user.Role {
			return nil, ErrSelfRoleChange
		}
		if patch.Active != nil && !*patch.Active {
			return nil, ErrSelfDeactivation
		}
	}

	if patch.Role != nil {
		if _, err := s.roles.Get(*patch.Role); err != nil {
			return nil, err
		}
		user.Role = *patch.Role
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Active != nil {
		user.Active = *patch.Active
		if user.Active {
			// Reactivation clears any leftover lockout.
			user.FailedLoginAttempts = 0
			user.LockedUntil = nil
		}
	}
	if patch.Password != nil {
		if err := user.SetPassword(*patch.Password); err != nil {
			return nil, err
		}
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Audit entries capture actor identity by value,
// so deletion leaves the trail intact.
func (s *UserService) Delete(actorUUID, userUUID string) error {
	if actorUUID == userUUID {
		return ErrSelfDeletion
	}

	user, err := s.Get(userUUID)
	if err != nil {
		return err
	}
	return s.db.Delete(user).Error
}

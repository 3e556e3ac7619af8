package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/config"
	"github.com/benchwork/labjournal/backend/internal/metrics"
	"github.com/benchwork/labjournal/backend/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	tokenLifetime   = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")
)

// Claims carried inside issued JWTs.
type Claims struct {
	UserID uint   `json:"user_id"`
	UUID   string `json:"uuid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles registration, credential verification and token
// issuance. It never performs permission checks; that is the access
// checker's job.
type AuthService struct {
	db  *gorm.DB
	cfg config.Config
}

func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates an account. Self-registration always gets the default
// "guest" role; the very first account ever created becomes the bootstrap
// admin so the instance is manageable.
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}

	role := models.SystemRoleGuest
	if count == 0 {
		role = models.SystemRoleAdmin
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
		Role:   role,
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

// Login verifies credentials and returns a signed token along with the
// authenticated user. Failed attempts are
// counted; five in a row lock the account for fifteen minutes. The error
// distinguishes lockout from bad credentials for the audit detail, but the
// HTTP layer reports both as a generic 401.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		metrics.IncLoginAttempt("failure")
		return "", nil, ErrInvalidCredentials
	}

	if user.IsLocked() {
		metrics.IncLoginAttempt("failure")
		return "", nil, ErrAccountLocked
	}

	if !user.Active {
		metrics.IncLoginAttempt("failure")
		return "", nil, ErrAccountDisabled
	}

	if !user.CheckPassword(password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			until := time.Now().Add(lockoutDuration)
			user.LockedUntil = &until
		}
		s.db.Save(&user)
		metrics.IncLoginAttempt("failure")
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	s.db.Save(&user)

	token, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	metrics.IncLoginAttempt("success")
	return token, &user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		UUID:   user.UUID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.UUID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and verifies a token string.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GetUserByID fetches a user by primary key.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the old password before setting a new one.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return ErrInvalidCredentials
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.db.Save(&user).Error
}

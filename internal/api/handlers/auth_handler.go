package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	audit       *services.AuditService
}

func NewAuthHandler(authService *services.AuthService, audit *services.AuditService) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

// isProduction checks if we're running in production mode
func isProduction() bool {
	env := os.Getenv("LJ_ENV")
	return env == "production" || env == "prod"
}

// setSecureCookie sets an auth cookie with security best practices
// - HttpOnly: prevents JavaScript access (XSS protection)
// - Secure: only sent over HTTPS (in production)
// - SameSite=Strict: prevents CSRF attacks
func setSecureCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", isProduction(), true)
}

func clearSecureCookie(c *gin.Context, name string) {
	setSecureCookie(c, name, "", -1)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token. Every attempt, successful
// or not, produces a LOGIN audit entry; the detail payload distinguishes
// failures for brute-force review.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		reason := "invalid credentials"
		if errors.Is(err, services.ErrAccountLocked) {
			reason = "account locked"
		} else if errors.Is(err, services.ErrAccountDisabled) {
			reason = "account disabled"
		}
		h.audit.Record("", req.Email, models.AuditActionLogin, models.AuditResourceAuthentication, "", "",
			map[string]interface{}{"success": false, "reason": reason},
			"Failed login for "+req.Email)

		// A single 401 body for every failure mode; the audit trail keeps
		// the distinction.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.audit.Record(user.UUID, user.Email, models.AuditActionLogin, models.AuditResourceAuthentication, "", "",
		map[string]interface{}{"success": true},
		"Login by "+user.Email)

	setSecureCookie(c, "auth_token", token, 3600*24)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// Register creates a self-service account with the default guest role.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.audit.Record(user.UUID, user.Email, models.AuditActionCreate, models.AuditResourceUser, user.UUID, user.Email,
		map[string]interface{}{"role": user.Role, "self_registration": true},
		"Registered account "+user.Email)

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionLogout, models.AuditResourceAuthentication, "", "",
		nil, "Logout by "+email)

	clearSecureCookie(c, "auth_token")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := c.Get("userID")

	u, err := h.authService.GetUserByID(userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": u.ID,
		"uuid":    u.UUID,
		"role":    u.Role,
		"name":    u.Name,
		"email":   u.Email,
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.authService.ChangePassword(userID.(uint), req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionUpdate, models.AuditResourceUser, uuid, email,
		map[string]interface{}{"changed_fields": []string{"password"}},
		"Password changed by "+email)

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

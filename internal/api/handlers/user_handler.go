package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
	audit *services.AuditService
}

func NewUserHandler(users *services.UserService, audit *services.AuditService) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

func (h *UserHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	users, err := h.users.List(services.UserFilters{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Create(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrRoleNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionCreate, models.AuditResourceUser, user.UUID, user.Email,
		map[string]interface{}{"role": user.Role},
		"Created user "+user.Email)

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uuid, email, _ := actor(c)
	user, err := h.users.Update(uuid, c.Param("id"), services.UserPatch{
		Name:     req.Name,
		Role:     req.Role,
		Active:   req.Active,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSelfRoleChange),
			errors.Is(err, services.ErrSelfDeactivation),
			errors.Is(err, services.ErrRoleNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		}
		return
	}

	detail := map[string]interface{}{}
	if req.Role != nil {
		detail["role"] = *req.Role
	}
	if req.Active != nil {
		detail["active"] = *req.Active
	}
	if req.Password != nil {
		detail["password_reset"] = true
	}
	h.audit.Record(uuid, email, models.AuditActionUpdate, models.AuditResourceUser, user.UUID, user.Email,
		detail, "Updated user "+user.Email)

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	uuid, email, _ := actor(c)

	target, err := h.users.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	if err := h.users.Delete(uuid, target.UUID); err != nil {
		if errors.Is(err, services.ErrSelfDeletion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	h.audit.Record(uuid, email, models.AuditActionDelete, models.AuditResourceUser, target.UUID, target.Email,
		nil, "Deleted user "+target.Email)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

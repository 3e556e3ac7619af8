package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/rbac"
	"github.com/benchwork/labjournal/backend/internal/services"
)

type RoleHandler struct {
	roles *services.RoleService
	audit *services.AuditService
}

func NewRoleHandler(roles *services.RoleService, audit *services.AuditService) *RoleHandler {
	return &RoleHandler{roles: roles, audit: audit}
}

// ListPermissions returns the full permission catalog plus the category
// grouping the role editor renders.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"permissions": rbac.Catalog(),
		"categories":  rbac.ByCategory(),
	})
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roles.Get(c.Param("name"))
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch role"})
		return
	}
	c.JSON(http.StatusOK, role)
}

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	DisplayName string   `json:"display_name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roles.Create(req.Name, req.DisplayName, req.Description, req.Permissions)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleExists),
			errors.Is(err, services.ErrRoleNameInvalid),
			errors.Is(err, services.ErrUnknownPermission):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		}
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionCreate, models.AuditResourceRole, role.UUID, role.Name,
		map[string]interface{}{"permissions": role.PermissionList()},
		"Created role "+role.Name)

	c.JSON(http.StatusCreated, role)
}

type UpdateRoleRequest struct {
	DisplayName *string  `json:"display_name"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

func (h *RoleHandler) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roles.Update(c.Param("name"), services.RoleUpdate{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUnknownPermission):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		}
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionUpdate, models.AuditResourceRole, role.UUID, role.Name,
		map[string]interface{}{"permissions": role.PermissionList()},
		"Updated role "+role.Name)

	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.roles.Delete(name); err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSystemRole):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrRoleInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role"})
		}
		return
	}

	uuid, email, _ := actor(c)
	h.audit.Record(uuid, email, models.AuditActionDelete, models.AuditResourceRole, "", name,
		nil, "Deleted role "+name)

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}

// Users lists the accounts assigned a role.
func (h *RoleHandler) Users(c *gin.Context) {
	users, err := h.roles.UsersWithRole(c.Param("name"))
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

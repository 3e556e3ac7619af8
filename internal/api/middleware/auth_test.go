package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/config"
	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/rbac"
	"github.com/benchwork/labjournal/backend/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Role{}))
	return db
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// We pass nil for authService because we expect it to fail before using it
	r.Use(AuthMiddleware(nil))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	auth := services.NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	_, err := auth.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)
	token, _, err := auth.Login("test@example.com", "password123")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(auth))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email": c.GetString(ContextUserEmail),
			"role":  c.GetString(ContextRole),
		})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test@example.com")
	assert.Contains(t, w.Body.String(), models.SystemRoleAdmin)
}

func TestAuthMiddleware_CookieFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	auth := services.NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	_, err := auth.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)
	token, _, err := auth.Login("test@example.com", "password123")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(auth))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	auth := services.NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	r := gin.New()
	r.Use(AuthMiddleware(auth))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthMiddleware_DeactivatedAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	auth := services.NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := auth.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)
	token, _, err := auth.Login("test@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("active", false).Error)

	r := gin.New()
	r.Use(AuthMiddleware(auth))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextRole, "admin")
		c.Next()
	})
	r.Use(RequireRole("admin"))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextRole, "guest")
		c.Next()
	})
	r.Use(RequireRole("admin"))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	role := models.Role{UUID: uuid.NewString(), Name: "viewer"}
	require.NoError(t, role.SetPermissions([]string{rbac.PermReadChemicals}))
	require.NoError(t, db.Create(&role).Error)

	checker := rbac.NewChecker(db)

	newRouter := func(roleName, permission string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if roleName != "" {
				c.Set(ContextRole, roleName)
			}
			c.Next()
		})
		r.Use(RequirePermission(checker, permission))
		r.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	run := func(r *gin.Engine) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// Granted permission passes
	w := run(newRouter("viewer", rbac.PermReadChemicals))
	assert.Equal(t, http.StatusOK, w.Code)

	// Denials are a uniform body, no detail
	w = run(newRouter("viewer", rbac.PermWriteChemicals))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"not authorized"}`, w.Body.String())

	// Unknown role denies identically
	w = run(newRouter("ghost", rbac.PermReadChemicals))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"not authorized"}`, w.Body.String())

	// Missing context role denies identically
	w = run(newRouter("", rbac.PermReadChemicals))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"not authorized"}`, w.Body.String())
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
	"github.com/benchwork/labjournal/backend/internal/services"
)

func newSettingsRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupHandlerDB(t)
	h := NewSettingsHandler(db, services.NewAuditService(db))

	r := gin.New()
	r.Use(asActor("admin-uuid", "admin@example.com", models.SystemRoleAdmin))
	r.GET("/settings", h.GetSettings)
	r.POST("/settings", h.UpdateSetting)
	return r, db
}

func TestSettingsHandler_UpsertAndAudit(t *testing.T) {
	r, db := newSettingsRouter(t)

	w := doJSON(t, r, http.MethodPost, "/settings", gin.H{
		"key": "expiry_warning_days", "value": "30",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var setting models.Setting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &setting))
	assert.Equal(t, "string", setting.Type)
	assert.Equal(t, "general", setting.Category)

	w = doJSON(t, r, http.MethodPost, "/settings", gin.H{
		"key": "expiry_warning_days", "value": "14", "type": "number", "category": "inventory",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &setting))
	assert.Equal(t, "14", setting.Value)
	assert.Equal(t, "number", setting.Type)
	assert.Equal(t, "inventory", setting.Category)

	// Key is required
	w = doJSON(t, r, http.MethodPost, "/settings", gin.H{"value": "oops"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/settings", nil)
	var settings []models.Setting
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Len(t, settings, 1)

	entries := auditEntries(t, db)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditActionCreate, entries[0].Action)
	assert.Equal(t, models.AuditActionUpdate, entries[1].Action)
	assert.Equal(t, models.AuditResourceSetting, entries[1].ResourceType)
	assert.Equal(t, "expiry_warning_days", entries[1].ResourceName)
}

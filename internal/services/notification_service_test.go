package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchwork/labjournal/backend/internal/models"
)

func TestNotificationService_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	service := NewNotificationService(db)

	n, err := service.Create(models.NotificationTypeWarning, "Low stock: Ethanol", "Quantity 0.2 L at or below threshold 0.5 L")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.Read)

	_, err = service.Create(models.NotificationTypeInfo, "Welcome", "Instance ready")
	require.NoError(t, err)

	all, err := service.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unread, err := service.List(true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	db := setupTestDB(t)
	service := NewNotificationService(db)

	n, err := service.Create(models.NotificationTypeWarning, "Expiring soon: Acetone", "Expires within 30 days")
	require.NoError(t, err)

	require.NoError(t, service.MarkAsRead(n.ID))

	unread, err := service.List(true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	service := NewNotificationService(db)

	for i := 0; i < 3; i++ {
		_, err := service.Create(models.NotificationTypeInfo, "n", "m")
		require.NoError(t, err)
	}

	require.NoError(t, service.MarkAllAsRead())

	unread, err := service.List(true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

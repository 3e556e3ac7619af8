package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_SetPassword(t *testing.T) {
	u := &User{}
	err := u.SetPassword("password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestUser_CheckPassword(t *testing.T) {
	u := &User{}
	_ = u.SetPassword("password123")

	assert.True(t, u.CheckPassword("password123"))
	assert.False(t, u.CheckPassword("wrongpassword"))
}

func TestUser_IsLocked(t *testing.T) {
	u := &User{}
	assert.False(t, u.IsLocked())

	past := time.Now().Add(-time.Minute)
	u.LockedUntil = &past
	assert.False(t, u.IsLocked())

	future := time.Now().Add(time.Minute)
	u.LockedUntil = &future
	assert.True(t, u.IsLocked())
}

func TestUser_JSONHidesSensitiveFields(t *testing.T) {
	u := &User{Email: "a@example.com", FailedLoginAttempts: 3}
	_ = u.SetPassword("password123")

	data, err := json.Marshal(u)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), u.PasswordHash)
	assert.NotContains(t, string(data), "failed_login_attempts")
}

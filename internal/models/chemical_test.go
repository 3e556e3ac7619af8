package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidUnitType(t *testing.T) {
	assert.True(t, ValidUnitType(UnitTypeWeight))
	assert.True(t, ValidUnitType(UnitTypeVolume))
	assert.True(t, ValidUnitType(UnitTypeAmount))
	assert.False(t, ValidUnitType("imaginary"))
	assert.False(t, ValidUnitType(""))
}

func TestChemical_IsLowStock(t *testing.T) {
	threshold := 50.0

	c := &Chemical{Quantity: 10}
	assert.False(t, c.IsLowStock(), "no alert configured")

	c = &Chemical{Quantity: 10, LowStockAlert: true}
	assert.False(t, c.IsLowStock(), "alert without threshold")

	c = &Chemical{Quantity: 10, LowStockAlert: true, LowStockThreshold: &threshold}
	assert.True(t, c.IsLowStock())

	c.Quantity = 50
	assert.True(t, c.IsLowStock(), "at threshold counts as low")

	c.Quantity = 51
	assert.False(t, c.IsLowStock())
}

func TestChemical_ExpiresWithin(t *testing.T) {
	window := 30 * 24 * time.Hour

	c := &Chemical{}
	assert.False(t, c.ExpiresWithin(window))

	soon := time.Now().Add(7 * 24 * time.Hour)
	c.ExpirationDate = &soon
	assert.True(t, c.ExpiresWithin(window))

	past := time.Now().Add(-time.Hour)
	c.ExpirationDate = &past
	assert.True(t, c.ExpiresWithin(window), "expired stock still reported")

	far := time.Now().Add(90 * 24 * time.Hour)
	c.ExpirationDate = &far
	assert.False(t, c.ExpiresWithin(window))
}

package models

import (
	"time"
)

// UnitType classifies how a chemical's quantity is measured.
type UnitType string

const (
	UnitTypeWeight UnitType = "weight" // g, kg, mg
	UnitTypeVolume UnitType = "volume" // ml, L
	UnitTypeAmount UnitType = "amount" // pieces, units
)

// ValidUnitType reports whether t is a known unit type.
func ValidUnitType(t UnitType) bool {
	switch t {
	case UnitTypeWeight, UnitTypeVolume, UnitTypeAmount:
		return true
	}
	return false
}

// Chemical is a single inventory item.
type Chemical struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	UUID              string     `json:"uuid" gorm:"uniqueIndex"`
	Name              string     `json:"name" gorm:"index"`
	Quantity          float64    `json:"quantity"`
	Unit              string     `json:"unit"`
	UnitType          UnitType   `json:"unit_type"`
	Location          string     `json:"location"`
	SafetyData        string     `json:"safety_data,omitempty"`
	ExpirationDate    *time.Time `json:"expiration_date,omitempty"`
	Supplier          string     `json:"supplier,omitempty"`
	Notes             string     `json:"notes,omitempty" gorm:"type:text"`
	LowStockAlert     bool       `json:"low_stock_alert" gorm:"default:false"`
	LowStockThreshold *float64   `json:"low_stock_threshold,omitempty"`
	CreatedBy         string     `json:"created_by" gorm:"index"` // User UUID

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLowStock reports whether the item has dropped to or below its configured
// threshold. Items without an alert threshold never report low stock.
func (c *Chemical) IsLowStock() bool {
	return c.LowStockAlert && c.LowStockThreshold != nil && c.Quantity <= *c.LowStockThreshold
}

// ExpiresWithin reports whether the item expires inside the given window
// counted from now. Already-expired items are included.
func (c *Chemical) ExpiresWithin(window time.Duration) bool {
	if c.ExpirationDate == nil {
		return false
	}
	return c.ExpirationDate.Before(time.Now().Add(window))
}

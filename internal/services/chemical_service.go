package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
)

var (
	ErrChemicalNotFound = errors.New("chemical not found")
	ErrInvalidUnitType  = errors.New("invalid unit type")
)

// expiryWarningWindow is how far ahead the dashboard and the inventory
// monitor look for expiring stock.
const expiryWarningWindow = 30 * 24 * time.Hour

// ChemicalService manages the chemical inventory.
type ChemicalService struct {
	db *gorm.DB
}

func NewChemicalService(db *gorm.DB) *ChemicalService {
	return &ChemicalService{db: db}
}

// ChemicalInput carries the writable fields of a chemical.
type ChemicalInput struct {
	Name              string          `json:"name" binding:"required"`
	Quantity          float64         `json:"quantity"`
	Unit              string          `json:"unit" binding:"required"`
	UnitType          models.UnitType `json:"unit_type" binding:"required"`
	Location          string          `json:"location" binding:"required"`
	SafetyData        string          `json:"safety_data"`
	ExpirationDate    *time.Time      `json:"expiration_date"`
	Supplier          string          `json:"supplier"`
	Notes             string          `json:"notes"`
	LowStockAlert     bool            `json:"low_stock_alert"`
	LowStockThreshold *float64        `json:"low_stock_threshold"`
}

// ChemicalFilters narrows List. Zero values mean "no filter".
type ChemicalFilters struct {
	Search       string // substring match on name, supplier, notes
	Location     string
	UnitType     models.UnitType
	LowStockOnly bool
	Offset       int
	Limit        int
}

// Create persists a new inventory item owned by creatorUUID.
func (s *ChemicalService) Create(creatorUUID string, in ChemicalInput) (*models.Chemical, error) {
	if !models.ValidUnitType(in.UnitType) {
		return nil, ErrInvalidUnitType
	}

	chem := &models.Chemical{
		UUID:              uuid.NewString(),
		Name:              in.Name,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		UnitType:          in.UnitType,
		Location:          in.Location,
		SafetyData:        in.SafetyData,
		ExpirationDate:    in.ExpirationDate,
		Supplier:          in.Supplier,
		Notes:             in.Notes,
		LowStockAlert:     in.LowStockAlert,
		LowStockThreshold: in.LowStockThreshold,
		CreatedBy:         creatorUUID,
	}
	if err := s.db.Create(chem).Error; err != nil {
		return nil, err
	}
	return chem, nil
}

// List returns inventory items matching the filters, newest first.
// LowStockOnly is applied in Go because the threshold comparison crosses two
// columns.
func (s *ChemicalService) List(f ChemicalFilters) ([]models.Chemical, error) {
	q := s.db.Model(&models.Chemical{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR supplier LIKE ? OR notes LIKE ?", like, like, like)
	}
	if f.Location != "" {
		q = q.Where("location LIKE ?", "%"+f.Location+"%")
	}
	if f.UnitType != "" {
		if !models.ValidUnitType(f.UnitType) {
			return nil, ErrInvalidUnitType
		}
		q = q.Where("unit_type = ?", f.UnitType)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q = q.Order("created_at desc")

	if !f.LowStockOnly {
		var chems []models.Chemical
		if err := q.Offset(f.Offset).Limit(limit).Find(&chems).Error; err != nil {
			return nil, err
		}
		return chems, nil
	}

	// The low-stock filter must run before pagination or pages come back
	// short. Fetch the full match set, filter, then slice.
	var chems []models.Chemical
	if err := q.Find(&chems).Error; err != nil {
		return nil, err
	}
	filtered := make([]models.Chemical, 0, len(chems))
	for _, c := range chems {
		if c.IsLowStock() {
			filtered = append(filtered, c)
		}
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(filtered) {
		return []models.Chemical{}, nil
	}
	filtered = filtered[offset:]
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// Get fetches an item by UUID.
func (s *ChemicalService) Get(chemUUID string) (*models.Chemical, error) {
	var chem models.Chemical
	if err := s.db.Where("uuid = ?", chemUUID).First(&chem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChemicalNotFound
		}
		return nil, err
	}
	return &chem, nil
}

// ChemicalPatch carries partial updates. Nil means "leave as is".
type ChemicalPatch struct {
	Name              *string          `json:"name"`
	Quantity          *float64         `json:"quantity"`
	Unit              *string          `json:"unit"`
	UnitType          *models.UnitType `json:"unit_type"`
	Location          *string          `json:"location"`
	SafetyData        *string          `json:"safety_data"`
	ExpirationDate    *time.Time       `json:"expiration_date"`
	Supplier          *string          `json:"supplier"`
	Notes             *string          `json:"notes"`
	LowStockAlert     *bool            `json:"low_stock_alert"`
	LowStockThreshold *float64         `json:"low_stock_threshold"`
}

// Update applies a partial edit.
func (s *ChemicalService) Update(chemUUID string, patch ChemicalPatch) (*models.Chemical, error) {
	chem, err := s.Get(chemUUID)
	if err != nil {
		return nil, err
	}

	if patch.UnitType != nil {
		if !models.ValidUnitType(*patch.UnitType) {
			return nil, ErrInvalidUnitType
		}
		chem.UnitType = *patch.UnitType
	}
	if patch.Name != nil {
		chem.Name = *patch.Name
	}
	if patch.Quantity != nil {
		chem.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		chem.Unit = *patch.Unit
	}
	if patch.Location != nil {
		chem.Location = *patch.Location
	}
	if patch.SafetyData != nil {
		chem.SafetyData = *patch.SafetyData
	}
	if patch.ExpirationDate != nil {
		chem.ExpirationDate = patch.ExpirationDate
	}
	if patch.Supplier != nil {
		chem.Supplier = *patch.Supplier
	}
	if patch.Notes != nil {
		chem.Notes = *patch.Notes
	}
	if patch.LowStockAlert != nil {
		chem.LowStockAlert = *patch.LowStockAlert
	}
	if patch.LowStockThreshold != nil {
		chem.LowStockThreshold = patch.LowStockThreshold
	}

	if err := s.db.Save(chem).Error; err != nil {
		return nil, err
	}
	return chem, nil
}

// Delete removes an item by UUID.
func (s *ChemicalService) Delete(chemUUID string) error {
	chem, err := s.Get(chemUUID)
	if err != nil {
		return err
	}
	return s.db.Delete(chem).Error
}

// Available returns the id/name/quantity/unit projection used by experiment
// entry forms.
func (s *ChemicalService) Available() ([]map[string]interface{}, error) {
	var chems []models.Chemical
	if err := s.db.Order("name asc").Find(&chems).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(chems))
	for _, c := range chems {
		out = append(out, map[string]interface{}{
			"id":       c.UUID,
			"name":     c.Name,
			"quantity": c.Quantity,
			"unit":     c.Unit,
		})
	}
	return out, nil
}

// LowStock returns every item at or below its alert threshold.
func (s *ChemicalService) LowStock() ([]models.Chemical, error) {
	var chems []models.Chemical
	if err := s.db.Where("low_stock_alert = ?", true).Find(&chems).Error; err != nil {
		return nil, err
	}

	low := make([]models.Chemical, 0)
	for _, c := range chems {
		if c.IsLowStock() {
			low = append(low, c)
		}
	}
	return low, nil
}

// ExpiringSoon returns items expiring within the warning window, soonest
// first. Already-expired stock is included.
func (s *ChemicalService) ExpiringSoon() ([]models.Chemical, error) {
	cutoff := time.Now().Add(expiryWarningWindow)
	var chems []models.Chemical
	if err := s.db.Where("expiration_date IS NOT NULL AND expiration_date <= ?", cutoff).
		Order("expiration_date asc").Find(&chems).Error; err != nil {
		return nil, err
	}
	return chems, nil
}

// CountCreatedSince counts items added after t.
func (s *ChemicalService) CountCreatedSince(t time.Time) (int64, error) {
	var n int64
	err := s.db.Model(&models.Chemical{}).Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

// Count returns the total inventory size.
func (s *ChemicalService) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Chemical{}).Count(&n).Error
	return n, err
}

package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/models"
)

var (
	ErrExperimentNotFound = errors.New("experiment not found")
	ErrNotExperimentOwner = errors.New("you can only modify your own experiments")
)

// ExperimentService manages journal entries. Edits and deletions are limited
// to the creator or an admin, on top of the permission gate.
type ExperimentService struct {
	db *gorm.DB
}

func NewExperimentService(db *gorm.DB) *ExperimentService {
	return &ExperimentService{db: db}
}

// ExperimentInput carries the writable fields of an experiment.
type ExperimentInput struct {
	Title         string                 `json:"title" binding:"required"`
	Date          *time.Time             `json:"date"`
	Description   string                 `json:"description"`
	Procedure     string                 `json:"procedure"`
	ChemicalsUsed []models.ChemicalUsage `json:"chemicals_used"`
	EquipmentUsed []string               `json:"equipment_used"`
	Observations  string                 `json:"observations"`
	Results       string                 `json:"results"`
	Conclusions   string                 `json:"conclusions"`
	ExternalLinks []string               `json:"external_links"`
}

// ExperimentFilters narrows List. Zero values mean "no filter".
type ExperimentFilters struct {
	Search    string // substring match on title, description, procedure, observations, results
	From      time.Time
	To        time.Time
	CreatedBy string
	Offset    int
	Limit     int
}

// Create persists a new experiment owned by creatorUUID. A missing date
// defaults to now.
func (s *ExperimentService) Create(creatorUUID string, in ExperimentInput) (*models.Experiment, error) {
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	exp := &models.Experiment{
		UUID:         uuid.NewString(),
		Title:        in.Title,
		Date:         date,
		Description:  in.Description,
		Procedure:    in.Procedure,
		Observations: in.Observations,
		Results:      in.Results,
		Conclusions:  in.Conclusions,
		CreatedBy:    creatorUUID,
	}
	if err := exp.SetChemicalUsage(in.ChemicalsUsed); err != nil {
		return nil, err
	}
	if err := exp.SetEquipment(in.EquipmentUsed); err != nil {
		return nil, err
	}
	if err := exp.SetLinks(in.ExternalLinks); err != nil {
		return nil, err
	}

	if err := s.db.Create(exp).Error; err != nil {
		return nil, err
	}
	return exp, nil
}

// List returns experiments matching the filters, newest date first.
func (s *ExperimentService) List(f ExperimentFilters) ([]models.Experiment, error) {
	q := s.db.Model(&models.Experiment{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"title LIKE ? OR description LIKE ? OR procedure LIKE ? OR observations LIKE ? OR results LIKE ?",
			like, like, like, like, like,
		)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To)
	}
	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var exps []models.Experiment
	if err := q.Order("date desc").Offset(f.Offset).Limit(limit).Find(&exps).Error; err != nil {
		return nil, err
	}
	return exps, nil
}

// Get fetches an experiment by UUID.
func (s *ExperimentService) Get(expUUID string) (*models.Experiment, error) {
	var exp models.Experiment
	if err := s.db.Where("uuid = ?", expUUID).First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperimentNotFound
		}
		return nil, err
	}
	return &exp, nil
}

// ExperimentPatch carries partial updates. Nil means "leave as is".
type ExperimentPatch struct {
	Title         *string                `json:"title"`
	Date          *time.Time             `json:"date"`
	Description   *string                `json:"description"`
	Procedure     *string                `json:"procedure"`
	ChemicalsUsed []models.ChemicalUsage `json:"chemicals_used"`
	EquipmentUsed []string               `json:"equipment_used"`
	Observations  *string                `json:"observations"`
	Results       *string                `json:"results"`
	Conclusions   *string                `json:"conclusions"`
	ExternalLinks []string               `json:"external_links"`
}

// Update applies a partial edit. actor must be the creator or hold the admin
// role.
func (s *ExperimentService) Update(actorUUID, actorRole, expUUID string, patch ExperimentPatch) (*models.Experiment, error) {
	exp, err := s.Get(expUUID)
	if err != nil {
		return nil, err
	}
	if !canModify(exp, actorUUID, actorRole) {
		return nil, ErrNotExperimentOwner
	}

	if patch.Title != nil {
		exp.Title = *patch.Title
	}
	if patch.Date != nil {
		exp.Date = *patch.Date
	}
	if patch.Description != nil {
		exp.Description = *patch.Description
	}
	if patch.Procedure != nil {
		exp.Procedure = *patch.Procedure
	}
	if patch.ChemicalsUsed != nil {
		if err := exp.SetChemicalUsage(patch.ChemicalsUsed); err != nil {
			return nil, err
		}
	}
	if patch.EquipmentUsed != nil {
		if err := exp.SetEquipment(patch.EquipmentUsed); err != nil {
			return nil, err
		}
	}
	if patch.Observations != nil {
		exp.Observations = *patch.Observations
	}
	if patch.Results != nil {
		exp.Results = *patch.Results
	}
	if patch.Conclusions != nil {
		exp.Conclusions = *patch.Conclusions
	}
	if patch.ExternalLinks != nil {
		if err := exp.SetLinks(patch.ExternalLinks); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(exp).Error; err != nil {
		return nil, err
	}
	return exp, nil
}

// Delete removes an experiment. Same ownership rule as Update.
func (s *ExperimentService) Delete(actorUUID, actorRole, expUUID string) error {
	exp, err := s.Get(expUUID)
	if err != nil {
		return err
	}
	if !canModify(exp, actorUUID, actorRole) {
		return ErrNotExperimentOwner
	}
	return s.db.Delete(exp).Error
}

func canModify(exp *models.Experiment, actorUUID, actorRole string) bool {
	return actorRole == models.SystemRoleAdmin || exp.CreatedBy == actorUUID
}

// RecentByUser returns the user's latest experiments for the dashboard.
func (s *ExperimentService) RecentByUser(userUUID string, limit int) ([]models.Experiment, error) {
	var exps []models.Experiment
	if err := s.db.Where("created_by = ?", userUUID).
		Order("created_at desc").Limit(limit).Find(&exps).Error; err != nil {
		return nil, err
	}
	return exps, nil
}

// CountCreatedSince counts experiments added after t.
func (s *ExperimentService) CountCreatedSince(t time.Time) (int64, error) {
	var n int64
	err := s.db.Model(&models.Experiment{}).Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

// Count returns the total number of experiments.
func (s *ExperimentService) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Experiment{}).Count(&n).Error
	return n, err
}

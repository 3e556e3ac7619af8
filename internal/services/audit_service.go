package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benchwork/labjournal/backend/internal/logger"
	"github.com/benchwork/labjournal/backend/internal/metrics"
	"github.com/benchwork/labjournal/backend/internal/models"
)

// defaultAuditPageLimit bounds unfiltered queries so the audit view never
// scans the whole table into memory.
const defaultAuditPageLimit = 200

// AuditService appends and queries the immutable audit trail. Audit is
// observability, not correctness-critical state: Record reports failures but
// callers of guarded mutations ignore them, so a broken audit store never
// rolls back the action it describes.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditFilters narrows a Query. Zero values mean "no filter".
type AuditFilters struct {
	Action       models.AuditAction
	ResourceType string
	ActorEmail   string
	From         time.Time
	To           time.Time
	Limit        int
}

// Record appends one audit entry. detail is marshalled to JSON; a nil detail
// stores no payload. Storage failures are logged and counted, never
// propagated into the mutation path by callers.
func (s *AuditService) Record(actorID, actorEmail string, action models.AuditAction, resourceType, resourceID, resourceName string, detail map[string]interface{}, summary string) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		UUID:         uuid.NewString(),
		ActorID:      actorID,
		ActorEmail:   actorEmail,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Summary:      summary,
	}

	if detail != nil {
		payload, err := json.Marshal(detail)
		if err == nil {
			entry.Details = string(payload)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		metrics.IncAuditFailure()
		logger.WithFields(map[string]interface{}{
			"action":        string(action),
			"resource_type": resourceType,
			"actor":         actorEmail,
		}).WithError(err).Error("audit write failed")
		return nil, err
	}

	metrics.IncAuditEntry()
	return entry, nil
}

// Query returns matching entries, newest first. An absent limit falls back
// to the default page size.
func (s *AuditService) Query(f AuditFilters) ([]models.AuditEntry, error) {
	q := s.db.Model(&models.AuditEntry{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}
	if f.ActorEmail != "" {
		q = q.Where("actor_email = ?", f.ActorEmail)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at <= ?", f.To)
	}

	limit := f.Limit
	if limit <= 0 || limit > defaultAuditPageLimit {
		limit = defaultAuditPageLimit
	}

	var entries []models.AuditEntry
	if err := q.Order("created_at desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// AuditStats is the derived aggregate view of the trail, recomputed on
// demand; at this system's scale a full scan per request is fine.
type AuditStats struct {
	TotalCount       int64            `json:"total_count"`
	RecentCount      int64            `json:"recent_count"` // last 24h
	CountsByAction   map[string]int64 `json:"counts_by_action"`
	CountsByResource map[string]int64 `json:"counts_by_resource"`
	TopActors        []ActorActivity  `json:"top_actors"`
}

// ActorActivity pairs an actor email with their entry count.
type ActorActivity struct {
	ActorEmail string `json:"actor_email"`
	Count      int64  `json:"count"`
}

// Stats recomputes the aggregate view.
func (s *AuditService) Stats() (*AuditStats, error) {
	stats := &AuditStats{
		CountsByAction:   make(map[string]int64),
		CountsByResource: make(map[string]int64),
	}

	if err := s.db.Model(&models.AuditEntry{}).Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}

	dayAgo := time.Now().Add(-24 * time.Hour)
	if err := s.db.Model(&models.AuditEntry{}).Where("created_at >= ?", dayAgo).Count(&stats.RecentCount).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byAction []bucket
	if err := s.db.Model(&models.AuditEntry{}).
		Select("action as key, count(*) as count").
		Group("action").Find(&byAction).Error; err != nil {
		return nil, err
	}
	for _, b := range byAction {
		stats.CountsByAction[b.Key] = b.Count
	}

	var byResource []bucket
	if err := s.db.Model(&models.AuditEntry{}).
		Select("resource_type as key, count(*) as count").
		Group("resource_type").Find(&byResource).Error; err != nil {
		return nil, err
	}
	for _, b := range byResource {
		stats.CountsByResource[b.Key] = b.Count
	}

	var topActors []struct {
		ActorEmail string
		Count      int64
	}
	if err := s.db.Model(&models.AuditEntry{}).
		Select("actor_email, count(*) as count").
		Group("actor_email").Order("count desc").Limit(5).
		Find(&topActors).Error; err != nil {
		return nil, err
	}
	for _, a := range topActors {
		stats.TopActors = append(stats.TopActors, ActorActivity{ActorEmail: a.ActorEmail, Count: a.Count})
	}

	return stats, nil
}

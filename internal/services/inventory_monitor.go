package services

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/benchwork/labjournal/backend/internal/logger"
	"github.com/benchwork/labjournal/backend/internal/models"
)

// InventoryMonitor periodically scans the inventory for low-stock and
// expiring chemicals and raises notifications. It runs out of band from
// request handling.
type InventoryMonitor struct {
	chemicals     *ChemicalService
	notifications *NotificationService
	cron          *cron.Cron

	// alerted tracks chemical UUIDs already notified per event type so a
	// scan every hour does not repeat the same warning.
	mu      sync.Mutex
	alerted map[string]bool
}

func NewInventoryMonitor(chemicals *ChemicalService, notifications *NotificationService) *InventoryMonitor {
	return &InventoryMonitor{
		chemicals:     chemicals,
		notifications: notifications,
		cron:          cron.New(),
		alerted:       make(map[string]bool),
	}
}

// Start schedules the scan with the given cron expression and runs one scan
// immediately so a fresh boot surfaces existing problems.
func (m *InventoryMonitor) Start(schedule string) error {
	if _, err := m.cron.AddFunc(schedule, m.Scan); err != nil {
		return fmt.Errorf("schedule inventory scan: %w", err)
	}
	m.cron.Start()
	go m.Scan()
	return nil
}

// Stop halts the schedule. Running scans finish on their own.
func (m *InventoryMonitor) Stop() {
	m.cron.Stop()
}

// Scan performs one pass over the inventory.
func (m *InventoryMonitor) Scan() {
	low, err := m.chemicals.LowStock()
	if err != nil {
		logger.Log().WithError(err).Error("inventory scan: low stock query")
	} else {
		for _, c := range low {
			m.raise(EventLowStock, c.UUID,
				"Low stock: "+c.Name,
				fmt.Sprintf("%s is down to %g %s at %s", c.Name, c.Quantity, c.Unit, c.Location),
				models.NotificationTypeWarning)
		}
	}

	expiring, err := m.chemicals.ExpiringSoon()
	if err != nil {
		logger.Log().WithError(err).Error("inventory scan: expiry query")
		return
	}
	for _, c := range expiring {
		m.raise(EventExpiration, c.UUID,
			"Expiring soon: "+c.Name,
			fmt.Sprintf("%s expires on %s", c.Name, c.ExpirationDate.Format("2006-01-02")),
			models.NotificationTypeWarning)
	}
}

func (m *InventoryMonitor) raise(event, chemUUID, title, message string, nType models.NotificationType) {
	key := event + ":" + chemUUID
	m.mu.Lock()
	seen := m.alerted[key]
	m.alerted[key] = true
	m.mu.Unlock()
	if seen {
		return
	}

	if _, err := m.notifications.Create(nType, title, message); err != nil {
		logger.Log().WithError(err).Error("create inventory notification")
	}
	m.notifications.SendExternal(event, title, message)
}

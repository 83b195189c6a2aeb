// ABOUTME: Repository interface for athlete and performance storage.
// ABOUTME: Implemented by the SQLite DB here and by the Charm KV client.
package storage

import (
	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
)

// Repository is the storage contract shared by the SQLite and Charm backends.
type Repository interface {
	// Profile operations
	CreateProfile(p *models.AthleteProfile) error
	GetProfile(idOrPrefix string) (*models.AthleteProfile, error)
	UpdateProfile(p *models.AthleteProfile) error
	ListProfiles() ([]*models.AthleteProfile, error)
	ListAthletes(q discovery.Query) ([]*models.AthleteProfile, error)

	// Performance record operations
	CreateRecord(r *models.PerformanceRecord) error
	GetRecord(idOrPrefix string) (*models.PerformanceRecord, error)
	ListRecords(athleteID uuid.UUID, metricName *string, limit int) ([]*models.PerformanceRecord, error)
	DeleteRecord(idOrPrefix string) error

	// Bulk transfer
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Shutdown
	Close() error
}

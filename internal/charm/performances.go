// ABOUTME: Performance record operations for Charm KV storage.
// ABOUTME: Records are create/delete only and are listed in ascending date order.
package charm

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/storage"
)

// CreateRecord stores a performance record for an existing athlete.
func (c *Client) CreateRecord(r *models.PerformanceRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	owner, err := c.GetProfile(r.AthleteID.String())
	if err != nil {
		return fmt.Errorf("create record: athlete %w", err)
	}
	if !owner.IsAthlete() {
		return fmt.Errorf("create record: %w: %s", storage.ErrNotAthlete, r.AthleteID)
	}

	data, err := marshalJSON(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return c.set(PerformancePrefix+r.ID.String(), data)
}

// GetRecord retrieves a record by ID or ID prefix.
func (c *Client) GetRecord(idOrPrefix string) (*models.PerformanceRecord, error) {
	data, err := c.getByIDPrefix(PerformancePrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	r, err := unmarshalJSON[models.PerformanceRecord](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return r, nil
}

// ListRecords returns an athlete's records sorted by date ascending, ties broken
// by creation time. metricName narrows to one metric. A positive limit keeps the
// most recent limit records, still returned oldest first.
func (c *Client) ListRecords(athleteID uuid.UUID, metricName *string, limit int) ([]*models.PerformanceRecord, error) {
	allData, err := c.listByPrefix(PerformancePrefix)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var records []*models.PerformanceRecord
	for _, data := range allData {
		r, err := unmarshalJSON[models.PerformanceRecord](data)
		if err != nil {
			continue // Skip invalid entries
		}
		if r.AthleteID != athleteID {
			continue
		}
		if metricName != nil && r.MetricName != *metricName {
			continue
		}
		records = append(records, r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// DeleteRecord removes a record by ID or prefix.
func (c *Client) DeleteRecord(idOrPrefix string) error {
	if err := c.deleteByIDPrefix(PerformancePrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// GetAllData collects every profile and record for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	return storage.CollectData(c)
}

// ImportData writes an export back into the store.
func (c *Client) ImportData(data *storage.ExportData) error {
	return storage.LoadData(c, data)
}

var _ storage.Repository = (*Client)(nil)

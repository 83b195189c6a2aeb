// ABOUTME: Shared fixtures for analytics tests.
// ABOUTME: Builds ascending daily series from plain values.
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/models"
)

var seriesStart = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

// buildSeries creates one record per value, one day apart, for a single metric.
func buildSeries(name, unit string, values ...float64) []*models.PerformanceRecord {
	athleteID := uuid.New()
	out := make([]*models.PerformanceRecord, 0, len(values))
	for i, v := range values {
		r := models.NewPerformanceRecord(athleteID, name, v, unit).
			WithDate(seriesStart.AddDate(0, 0, i))
		out = append(out, r)
	}
	return out
}

func sprintSeries(values ...float64) []*models.PerformanceRecord {
	return buildSeries("100m Time", "seconds", values...)
}

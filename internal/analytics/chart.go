// ABOUTME: Time-series projector producing chart-ready labels and values.
// ABOUTME: The series label comes from the first record's metric name and unit.
package analytics

import (
	"github.com/harperreed/scout/internal/models"
)

// ChartLabelLayout formats date labels independently of the host locale.
const ChartLabelLayout = "Jan 2, 2006"

// Chart is a parallel label/value projection of a series.
type Chart struct {
	SeriesLabel string    `json:"seriesLabel"`
	Labels      []string  `json:"labels"`
	Values      []float64 `json:"values"`
}

// Project converts a series into chart data. The series is assumed to hold a
// single metric; use PartitionByMetric first for mixed histories.
func Project(series []*models.PerformanceRecord) (*Chart, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	c := &Chart{
		SeriesLabel: series[0].Key().String(),
		Labels:      make([]string, len(series)),
		Values:      make([]float64, len(series)),
	}
	for i, r := range series {
		c.Labels[i] = r.Date.UTC().Format(ChartLabelLayout)
		c.Values[i] = r.MetricValue
	}
	return c, nil
}

// ABOUTME: Partitions a mixed performance history into per-metric sub-series.
// ABOUTME: Summaries and charts are then produced once per (name, unit) group.
package analytics

import (
	"github.com/harperreed/scout/internal/models"
)

// Partition maps each metric key to its sub-series. Keys keeps first-seen order.
type Partition struct {
	Keys   []models.MetricKey
	Series map[models.MetricKey][]*models.PerformanceRecord
}

// PartitionByMetric groups a series by (metric name, unit), preserving the
// relative order of records within each group.
func PartitionByMetric(series []*models.PerformanceRecord) *Partition {
	p := &Partition{Series: make(map[models.MetricKey][]*models.PerformanceRecord)}
	for _, r := range series {
		key := r.Key()
		if _, exists := p.Series[key]; !exists {
			p.Keys = append(p.Keys, key)
		}
		p.Series[key] = append(p.Series[key], r)
	}
	return p
}

// Len returns the number of metric groups.
func (p *Partition) Len() int {
	return len(p.Keys)
}

// MetricSummary pairs a metric key with its statistics.
type MetricSummary struct {
	Key     models.MetricKey `json:"metric"`
	Summary *Summary         `json:"summary"`
}

// DirectionResolver picks the better direction for a metric.
type DirectionResolver func(key models.MetricKey) models.Direction

// CatalogueDirection resolves directions from the controlled metric vocabulary.
func CatalogueDirection(key models.MetricKey) models.Direction {
	return models.DirectionFor(key.Name)
}

// SummarizeAll summarizes every group of the partition in key order.
func SummarizeAll(p *Partition, resolve DirectionResolver) ([]MetricSummary, error) {
	if p.Len() == 0 {
		return nil, ErrEmptySeries
	}
	if resolve == nil {
		resolve = CatalogueDirection
	}

	out := make([]MetricSummary, 0, p.Len())
	for _, key := range p.Keys {
		s, err := Summarize(p.Series[key], WithDirection(resolve(key)))
		if err != nil {
			return nil, err
		}
		out = append(out, MetricSummary{Key: key, Summary: s})
	}
	return out, nil
}

// ProjectAll produces one chart per group in key order.
func ProjectAll(p *Partition) ([]*Chart, error) {
	if p.Len() == 0 {
		return nil, ErrEmptySeries
	}

	charts := make([]*Chart, 0, p.Len())
	for _, key := range p.Keys {
		c, err := Project(p.Series[key])
		if err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}
	return charts, nil
}

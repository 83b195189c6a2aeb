// ABOUTME: Tests for metric partitioning of mixed histories.
// ABOUTME: Verifies first-seen key order and per-group summaries and charts.
package analytics

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/models"
)

func mixedSeries() []*models.PerformanceRecord {
	id := uuid.New()
	day := seriesStart
	mk := func(name, unit string, v float64) *models.PerformanceRecord {
		day = day.AddDate(0, 0, 1)
		return models.NewPerformanceRecord(id, name, v, unit).WithDate(day)
	}
	return []*models.PerformanceRecord{
		mk("100m Time", "seconds", 12.4),
		mk("Squat", "kg", 90),
		mk("100m Time", "seconds", 12.1),
		mk("Squat", "kg", 95),
		mk("Squat", "lb", 210),
	}
}

func TestPartitionByMetric(t *testing.T) {
	p := PartitionByMetric(mixedSeries())

	want := []models.MetricKey{
		{Name: "100m Time", Unit: "seconds"},
		{Name: "Squat", Unit: "kg"},
		{Name: "Squat", Unit: "lb"},
	}
	if p.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", p.Len(), len(want))
	}
	for i, k := range want {
		if p.Keys[i] != k {
			t.Errorf("Keys[%d] = %+v, want %+v", i, p.Keys[i], k)
		}
	}

	sprints := p.Series[want[0]]
	if len(sprints) != 2 || sprints[0].MetricValue != 12.4 || sprints[1].MetricValue != 12.1 {
		t.Errorf("sprint sub-series out of order: %+v", sprints)
	}
}

func TestSummarizeAll(t *testing.T) {
	summaries, err := SummarizeAll(PartitionByMetric(mixedSeries()), nil)
	if err != nil {
		t.Fatalf("SummarizeAll failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}

	sprint := summaries[0].Summary
	if sprint.Direction != models.LowerIsBetter {
		t.Errorf("sprint direction = %s", sprint.Direction)
	}
	if sprint.Best != 12.1 || sprint.Worst != 12.4 {
		t.Errorf("sprint best/worst = %v/%v", sprint.Best, sprint.Worst)
	}

	squat := summaries[1].Summary
	if squat.Total != 2 || squat.Best != 95 || squat.Improvement.String() != "+5.56%" {
		t.Errorf("squat summary = %+v (%s)", squat, squat.Improvement)
	}
}

func TestSummarizeAllCustomResolver(t *testing.T) {
	resolve := func(models.MetricKey) models.Direction { return models.LowerIsBetter }
	summaries, err := SummarizeAll(PartitionByMetric(mixedSeries()), resolve)
	if err != nil {
		t.Fatalf("SummarizeAll failed: %v", err)
	}
	if summaries[1].Summary.Best != 90 {
		t.Errorf("squat best = %v, want 90 with lower-is-better", summaries[1].Summary.Best)
	}
}

func TestProjectAll(t *testing.T) {
	charts, err := ProjectAll(PartitionByMetric(mixedSeries()))
	if err != nil {
		t.Fatalf("ProjectAll failed: %v", err)
	}
	if len(charts) != 3 {
		t.Fatalf("got %d charts, want 3", len(charts))
	}
	if charts[2].SeriesLabel != "Squat (lb)" || len(charts[2].Values) != 1 {
		t.Errorf("third chart = %+v", charts[2])
	}
}

func TestPartitionEmpty(t *testing.T) {
	p := PartitionByMetric(nil)
	if _, err := SummarizeAll(p, nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("SummarizeAll: expected ErrEmptySeries, got %v", err)
	}
	if _, err := ProjectAll(p); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("ProjectAll: expected ErrEmptySeries, got %v", err)
	}
}

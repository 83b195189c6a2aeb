// ABOUTME: PerformanceRecord model and metric catalogue for athlete measurements.
// ABOUTME: Records are immutable; each catalogue metric knows its better direction.
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRecord is returned when a performance record fails validation.
var ErrInvalidRecord = errors.New("invalid performance record")

// PerformanceRecord is a single measurement logged by an athlete.
type PerformanceRecord struct {
	ID          uuid.UUID `json:"id"`
	AthleteID   uuid.UUID `json:"athlete_id"`
	Date        time.Time `json:"date"`
	MetricName  string    `json:"metric_name"`
	MetricValue float64   `json:"metric_value"`
	MetricUnit  string    `json:"metric_unit"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPerformanceRecord creates a record dated now with a generated UUID.
func NewPerformanceRecord(athleteID uuid.UUID, metricName string, value float64, unit string) *PerformanceRecord {
	now := time.Now()
	return &PerformanceRecord{
		ID:          uuid.New(),
		AthleteID:   athleteID,
		Date:        now,
		MetricName:  strings.TrimSpace(metricName),
		MetricValue: value,
		MetricUnit:  strings.TrimSpace(unit),
		CreatedAt:   now,
	}
}

// WithDate sets a custom measurement date.
func (r *PerformanceRecord) WithDate(t time.Time) *PerformanceRecord {
	r.Date = t
	return r
}

// WithNotes sets notes on the record. Blank notes are dropped.
func (r *PerformanceRecord) WithNotes(notes string) *PerformanceRecord {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		r.Notes = nil
		return r
	}
	r.Notes = &notes
	return r
}

// NotesText returns the notes or an empty string.
func (r *PerformanceRecord) NotesText() string {
	if r.Notes == nil {
		return ""
	}
	return *r.Notes
}

// Key returns the (name, unit) pair identifying the record's metric.
func (r *PerformanceRecord) Key() MetricKey {
	return MetricKey{Name: r.MetricName, Unit: r.MetricUnit}
}

// Validate checks that the record has an athlete, metric name, unit and a finite value.
func (r *PerformanceRecord) Validate() error {
	if r.AthleteID == uuid.Nil {
		return fmt.Errorf("%w: athlete is required", ErrInvalidRecord)
	}
	if r.MetricName == "" {
		return fmt.Errorf("%w: metric name is required", ErrInvalidRecord)
	}
	if r.MetricUnit == "" {
		return fmt.Errorf("%w: metric unit is required", ErrInvalidRecord)
	}
	if math.IsNaN(r.MetricValue) || math.IsInf(r.MetricValue, 0) {
		return fmt.Errorf("%w: metric value must be a finite number", ErrInvalidRecord)
	}
	return nil
}

// dateLayouts are the accepted input formats for measurement dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", time.DateOnly}

// ParseDate parses a measurement date as RFC 3339, "YYYY-MM-DD HH:MM" or
// "YYYY-MM-DD". Zone-less inputs are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidRecord, s)
}

// MetricKey identifies a homogeneous sub-series.
type MetricKey struct {
	Name string `json:"metric_name"`
	Unit string `json:"metric_unit"`
}

// String renders the key as "name (unit)".
func (k MetricKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Name, k.Unit)
}

// Direction tells which end of a metric's range is the better performance.
type Direction string

const (
	DirectionUnspecified Direction = "unspecified"
	HigherIsBetter       Direction = "higher_is_better"
	LowerIsBetter        Direction = "lower_is_better"
)

// MetricDefinition is an entry of the controlled metric vocabulary.
type MetricDefinition struct {
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Direction Direction `json:"direction"`
}

// AllMetrics is the controlled metric vocabulary.
var AllMetrics = []MetricDefinition{
	{"100m Time", "seconds", LowerIsBetter},
	{"200m Time", "seconds", LowerIsBetter},
	{"400m Time", "seconds", LowerIsBetter},
	{"Long Jump", "m", HigherIsBetter},
	{"High Jump", "m", HigherIsBetter},
	{"Shot Put", "m", HigherIsBetter},
	{"Discus Throw", "m", HigherIsBetter},
	{"Javelin Throw", "m", HigherIsBetter},
	{"Vertical Jump", "cm", HigherIsBetter},
	{"Bench Press", "kg", HigherIsBetter},
	{"Deadlift", "kg", HigherIsBetter},
	{"Squat", "kg", HigherIsBetter},
	{"Runs Scored", "runs", HigherIsBetter},
	{"Wickets Taken", "wickets", HigherIsBetter},
	{"Goals Scored", "goals", HigherIsBetter},
}

// LookupMetric finds a catalogue metric by name (case-insensitive).
func LookupMetric(name string) (MetricDefinition, bool) {
	for _, m := range AllMetrics {
		if strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			return m, true
		}
	}
	return MetricDefinition{}, false
}

// DirectionFor returns the catalogue direction for a metric name, or
// DirectionUnspecified for free-text metrics.
func DirectionFor(name string) Direction {
	if m, ok := LookupMetric(name); ok {
		return m.Direction
	}
	return DirectionUnspecified
}

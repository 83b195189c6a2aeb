// ABOUTME: Application service tying the record store to the analytics and discovery engines.
// ABOUTME: The CLI, HTTP API and MCP server all go through this facade.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/scout/internal/analytics"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/logger"
	"github.com/harperreed/scout/internal/metrics"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/storage"
)

// Service runs the engine operations against a Repository.
type Service struct {
	repo    storage.Repository
	log     logger.Logger
	metrics *metrics.Manager
	now     func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics manager outcomes are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the time source used for default record dates and export filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a service over repo.
func New(repo storage.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		log:     logger.Named("service"),
		metrics: metrics.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the underlying store.
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// History is an athlete together with a date-ordered series of their records.
type History struct {
	Athlete *models.AthleteProfile      `json:"athlete"`
	Records []*models.PerformanceRecord `json:"records"`
}

// RegisterProfile validates and stores a new athlete or coach profile.
func (s *Service) RegisterProfile(p *models.AthleteProfile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if err := s.repo.CreateProfile(p); err != nil {
		return err
	}
	s.metrics.RecordProfileRegistered(string(p.Role))
	s.log.Debug("profile registered",
		logger.String("id", p.ID.String()),
		logger.String("role", string(p.Role)))
	return nil
}

// GetProfile resolves a profile by ID or ID prefix.
func (s *Service) GetProfile(ref string) (*models.AthleteProfile, error) {
	return s.repo.GetProfile(strings.TrimSpace(ref))
}

// ProfileUpdate names the profile fields to change. Nil fields are kept.
// An empty Email clears the contact address.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	District *string `json:"district,omitempty"`
	Sport    *string `json:"sport,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Team     *string `json:"team,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.District == nil &&
		u.Sport == nil && u.Age == nil && u.Team == nil
}

// UpdateProfile edits an existing profile. Sport and age apply to athletes,
// team to coaches; setting a field the role does not carry is rejected.
func (s *Service) UpdateProfile(ref string, u ProfileUpdate) (*models.AthleteProfile, error) {
	current, err := s.GetProfile(ref)
	if err != nil {
		return nil, err
	}
	if u.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrInvalidProfile)
	}

	p := *current
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.District != nil {
		p.District = strings.TrimSpace(*u.District)
	}
	if u.Email != nil {
		p.WithEmail(*u.Email)
	}

	switch p.Role {
	case models.RoleAthlete:
		if u.Team != nil {
			return nil, fmt.Errorf("%w: athletes do not carry a team", models.ErrInvalidProfile)
		}
		if u.Sport != nil {
			p.Sport = strings.TrimSpace(*u.Sport)
		}
		if u.Age != nil {
			age := *u.Age
			p.Age = &age
		}
	case models.RoleCoach:
		if u.Sport != nil || u.Age != nil {
			return nil, fmt.Errorf("%w: sport and age apply to athletes only", models.ErrInvalidProfile)
		}
		if u.Team != nil {
			p.Team = strings.TrimSpace(*u.Team)
		}
	}

	if err := s.repo.UpdateProfile(&p); err != nil {
		return nil, err
	}
	s.metrics.RecordProfileUpdated(string(p.Role))
	s.log.Debug("profile updated",
		logger.String("id", p.ID.String()),
		logger.String("role", string(p.Role)))
	return &p, nil
}

// Discover narrows the roster in the store by the exact-match fields, then
// evaluates the full filter in memory.
func (s *Service) Discover(f discovery.Filter) ([]*models.AthleteProfile, error) {
	roster, err := s.repo.ListAthletes(f.Query())
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	result := discovery.Apply(roster, f)

	s.metrics.RecordDiscovery(len(result))
	s.log.Debug("discovery",
		logger.String("filter", f.String()),
		logger.Int("candidates", len(roster)),
		logger.Int("results", len(result)))
	return result, nil
}

// LogRecord stores a performance record. A zero date defaults to now.
func (s *Service) LogRecord(r *models.PerformanceRecord) error {
	now := s.now()
	if r.Date.IsZero() {
		r.Date = now
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if err := s.repo.CreateRecord(r); err != nil {
		return err
	}
	s.metrics.RecordLogged()
	s.log.Debug("performance logged",
		logger.String("id", r.ID.String()),
		logger.String("athlete", r.AthleteID.String()),
		logger.String("metric", r.Key().String()))
	return nil
}

// Records returns an athlete's series in ascending date order. An empty metric
// means every metric; limit > 0 keeps only the most recent records.
func (s *Service) Records(athleteRef, metric string, limit int) (*History, error) {
	athlete, err := s.GetProfile(athleteRef)
	if err != nil {
		return nil, err
	}

	var metricName *string
	if m := strings.TrimSpace(metric); m != "" {
		metricName = &m
	}
	records, err := s.repo.ListRecords(athlete.ID, metricName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return &History{Athlete: athlete, Records: records}, nil
}

// GetRecord resolves a record by ID or ID prefix.
func (s *Service) GetRecord(ref string) (*models.PerformanceRecord, error) {
	return s.repo.GetRecord(strings.TrimSpace(ref))
}

// DeleteRecord removes a record by ID or ID prefix.
func (s *Service) DeleteRecord(ref string) error {
	if err := s.repo.DeleteRecord(strings.TrimSpace(ref)); err != nil {
		return err
	}
	s.metrics.RecordDeleted()
	s.log.Debug("performance deleted", logger.String("ref", ref))
	return nil
}

// Stats summarizes an athlete's series. When every record shares one metric the
// catalogue direction is used, otherwise best/worst fall back to max/min.
func (s *Service) Stats(athleteRef, metric string) (*analytics.Summary, error) {
	h, err := s.Records(athleteRef, metric, 0)
	if err != nil {
		return nil, err
	}

	summary, err := analytics.Summarize(h.Records, analytics.WithDirection(seriesDirection(h.Records)))
	switch {
	case err != nil:
		s.recordOutcome(metrics.OpStats, err)
		return nil, err
	case !summary.Improvement.Defined:
		s.recordOutcome(metrics.OpStats, analytics.ErrUndefinedImprovement)
	default:
		s.recordOutcome(metrics.OpStats, nil)
	}
	return summary, nil
}

// StatsByMetric summarizes each (metric, unit) group of an athlete's history.
func (s *Service) StatsByMetric(athleteRef string) ([]analytics.MetricSummary, error) {
	h, err := s.Records(athleteRef, "", 0)
	if err != nil {
		return nil, err
	}
	summaries, err := analytics.SummarizeAll(analytics.PartitionByMetric(h.Records), analytics.CatalogueDirection)
	s.recordOutcome(metrics.OpStats, err)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Chart projects an athlete's series into chart-ready labels and values.
func (s *Service) Chart(athleteRef, metric string) (*analytics.Chart, error) {
	h, err := s.Records(athleteRef, metric, 0)
	if err != nil {
		return nil, err
	}
	chart, err := analytics.Project(h.Records)
	s.recordOutcome(metrics.OpChart, err)
	if err != nil {
		return nil, err
	}
	return chart, nil
}

// ChartsByMetric produces one chart per (metric, unit) group.
func (s *Service) ChartsByMetric(athleteRef string) ([]*analytics.Chart, error) {
	h, err := s.Records(athleteRef, "", 0)
	if err != nil {
		return nil, err
	}
	charts, err := analytics.ProjectAll(analytics.PartitionByMetric(h.Records))
	s.recordOutcome(metrics.OpChart, err)
	if err != nil {
		return nil, err
	}
	return charts, nil
}

// ExportCSV renders an athlete's series as CSV with the conventional filename.
func (s *Service) ExportCSV(athleteRef, metric string) (*analytics.CSVExport, error) {
	h, err := s.Records(athleteRef, metric, 0)
	if err != nil {
		return nil, err
	}
	export, err := analytics.ExportCSV(h.Athlete.Name, h.Records, s.now())
	s.recordOutcome(metrics.OpCSV, err)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExport("csv")
	return export, nil
}

func (s *Service) recordOutcome(op string, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, analytics.ErrEmptySeries), errors.Is(err, analytics.ErrEmptyExport):
		outcome = metrics.OutcomeEmpty
	case errors.Is(err, analytics.ErrUndefinedImprovement):
		outcome = metrics.OutcomeUndefined
	default:
		outcome = metrics.OutcomeError
	}
	s.metrics.RecordEngineResult(op, outcome)
}

// seriesDirection returns the catalogue direction when the series holds a
// single metric key.
func seriesDirection(series []*models.PerformanceRecord) models.Direction {
	if len(series) == 0 {
		return models.DirectionUnspecified
	}
	key := series[0].Key()
	for _, r := range series[1:] {
		if r.Key() != key {
			return models.DirectionUnspecified
		}
	}
	return models.DirectionFor(key.Name)
}

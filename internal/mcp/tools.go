// ABOUTME: MCP tool implementations for athlete profiles and performance analytics.
// ABOUTME: Registration, profile edits, discovery, logging, stats, charts and CSV export.
package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "register_athlete",
		Description: "Register an athlete (sport, district, age) or a coach (team, district)",
	}, s.handleRegisterAthlete)

	addTool(s, &mcp.Tool{
		Name:        "update_athlete",
		Description: "Change fields of an existing profile; omitted fields are kept",
	}, s.handleUpdateAthlete)

	addTool(s, &mcp.Tool{
		Name:        "get_athlete",
		Description: "Get an athlete or coach profile by ID or ID prefix",
	}, s.handleGetAthlete)

	addTool(s, &mcp.Tool{
		Name:        "discover_athletes",
		Description: "Find athletes by sport, district, maximum age and name substring",
	}, s.handleDiscoverAthletes)

	addTool(s, &mcp.Tool{
		Name:        "log_performance",
		Description: "Log a performance measurement for an athlete",
	}, s.handleLogPerformance)

	addTool(s, &mcp.Tool{
		Name:        "list_performance",
		Description: "List an athlete's performance records in date order, optionally filtered by metric",
	}, s.handleListPerformance)

	addTool(s, &mcp.Tool{
		Name:        "delete_performance",
		Description: "Delete a performance record by ID or ID prefix",
	}, s.handleDeletePerformance)

	addTool(s, &mcp.Tool{
		Name:        "performance_stats",
		Description: "Summary statistics (total, average, best, worst, improvement) for an athlete",
	}, s.handlePerformanceStats)

	addTool(s, &mcp.Tool{
		Name:        "performance_chart",
		Description: "Chart-ready date labels and values for an athlete's series",
	}, s.handlePerformanceChart)

	addTool(s, &mcp.Tool{
		Name:        "export_performance_csv",
		Description: "Export an athlete's performance records as CSV",
	}, s.handleExportPerformanceCSV)

	addTool(s, &mcp.Tool{
		Name:        "list_metric_catalogue",
		Description: "List the known metrics with units and better direction, plus the sports list",
	}, s.handleListMetricCatalogue)
}

// Tool arguments

type registerAthleteInput struct {
	Name     string `json:"name" jsonschema:"Full name"`
	Role     string `json:"role,omitempty" jsonschema:"athlete or coach (default athlete)"`
	Sport    string `json:"sport,omitempty" jsonschema:"Sport, required for athletes"`
	District string `json:"district" jsonschema:"Home district"`
	Age      *int   `json:"age,omitempty" jsonschema:"Age in years, required for athletes"`
	Team     string `json:"team,omitempty" jsonschema:"Team or affiliation, required for coaches"`
	Email    string `json:"email,omitempty" jsonschema:"Contact email, unique when set"`
}

type updateAthleteInput struct {
	ID       string  `json:"id" jsonschema:"Profile ID or ID prefix"`
	Name     *string `json:"name,omitempty" jsonschema:"New full name"`
	District *string `json:"district,omitempty" jsonschema:"New home district"`
	Email    *string `json:"email,omitempty" jsonschema:"New contact email, empty to clear"`
	Sport    *string `json:"sport,omitempty" jsonschema:"New sport, athletes only"`
	Age      *int    `json:"age,omitempty" jsonschema:"New age, athletes only"`
	Team     *string `json:"team,omitempty" jsonschema:"New team or affiliation, coaches only"`
}

type profileOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix"`
}

type discoverInput struct {
	Sport    string   `json:"sport,omitempty" jsonschema:"Exact sport"`
	District string   `json:"district,omitempty" jsonschema:"Exact district"`
	MaxAge   *float64 `json:"max_age,omitempty" jsonschema:"Maximum age, inclusive"`
	Name     string   `json:"name,omitempty" jsonschema:"Case-insensitive name substring"`
}

type logPerformanceInput struct {
	AthleteID  string  `json:"athlete_id" jsonschema:"Athlete ID or ID prefix"`
	MetricName string  `json:"metric_name" jsonschema:"Metric name, e.g. 100m Time or Long Jump"`
	Value      float64 `json:"value" jsonschema:"Measured value"`
	Unit       string  `json:"unit,omitempty" jsonschema:"Unit, defaults to the catalogue unit"`
	Date       string  `json:"date,omitempty" jsonschema:"Measurement date (RFC 3339 or YYYY-MM-DD), defaults to now"`
	Notes      string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type recordOutput struct {
	ID      string  `json:"id"`
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Date    string  `json:"date"`
	Message string  `json:"message"`
}

type seriesInput struct {
	AthleteID string `json:"athlete_id" jsonschema:"Athlete ID or ID prefix"`
	Metric    string `json:"metric,omitempty" jsonschema:"Restrict to one metric name"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Keep only the most recent N records"`
	ByMetric  bool   `json:"by_metric,omitempty" jsonschema:"Produce one result per metric and unit"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type csvOutput struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
	CSV      string `json:"csv"`
}

type catalogueInput struct{}

// Tools

func (s *Server) handleRegisterAthlete(ctx context.Context, req *mcp.CallToolRequest, input registerAthleteInput) (*mcp.CallToolResult, profileOutput, error) {
	role := models.RoleAthlete
	if r := strings.ToLower(strings.TrimSpace(input.Role)); r != "" {
		if !models.IsValidRole(r) {
			return nil, profileOutput{}, fmt.Errorf("unknown role: %s", input.Role)
		}
		role = models.Role(r)
	}

	p := &models.AthleteProfile{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		Role:     role,
		District: strings.TrimSpace(input.District),
	}
	if role == models.RoleAthlete {
		p.Sport = strings.TrimSpace(input.Sport)
		p.Age = input.Age
	} else {
		p.Team = strings.TrimSpace(input.Team)
	}
	p.WithEmail(input.Email)

	if err := s.svc.RegisterProfile(p); err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to register profile: %w", err)
	}

	return nil, profileOutput{
		ID:      p.ID.String(),
		Name:    p.Name,
		Role:    string(p.Role),
		Message: fmt.Sprintf("Registered %s %s (ID: %s)", p.Role, p.Name, p.ID.String()[:8]),
	}, nil
}

func (s *Server) handleUpdateAthlete(ctx context.Context, req *mcp.CallToolRequest, input updateAthleteInput) (*mcp.CallToolResult, profileOutput, error) {
	p, err := s.svc.UpdateProfile(input.ID, service.ProfileUpdate{
		Name:     input.Name,
		District: input.District,
		Email:    input.Email,
		Sport:    input.Sport,
		Age:      input.Age,
		Team:     input.Team,
	})
	if err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return nil, profileOutput{
		ID:      p.ID.String(),
		Name:    p.Name,
		Role:    string(p.Role),
		Message: fmt.Sprintf("Updated %s %s (ID: %s)", p.Role, p.Name, p.ID.String()[:8]),
	}, nil
}

func (s *Server) handleGetAthlete(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	p, err := s.svc.GetProfile(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("profile not found: %s: %w", input.ID, err)
	}
	return nil, p, nil
}

func (s *Server) handleDiscoverAthletes(ctx context.Context, req *mcp.CallToolRequest, input discoverInput) (*mcp.CallToolResult, any, error) {
	age := ""
	if input.MaxAge != nil {
		age = strconv.FormatFloat(*input.MaxAge, 'f', -1, 64)
	}
	f, err := discovery.ParseFilter(input.Sport, input.District, age, input.Name)
	if err != nil {
		return nil, nil, err
	}

	roster, err := s.svc.Discover(f)
	if err != nil {
		return nil, nil, err
	}
	if len(roster) == 0 {
		return nil, map[string]interface{}{"message": "No athletes found.", "filter": f.String()}, nil
	}

	return nil, map[string]interface{}{
		"filter":   f.String(),
		"count":    len(roster),
		"athletes": roster,
	}, nil
}

func (s *Server) handleLogPerformance(ctx context.Context, req *mcp.CallToolRequest, input logPerformanceInput) (*mcp.CallToolResult, recordOutput, error) {
	athlete, err := s.svc.GetProfile(input.AthleteID)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("athlete not found: %s: %w", input.AthleteID, err)
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		if m, ok := models.LookupMetric(input.MetricName); ok {
			unit = m.Unit
		}
	}

	r := models.NewPerformanceRecord(athlete.ID, input.MetricName, input.Value, unit).WithNotes(input.Notes)
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, recordOutput{}, err
		}
		r.WithDate(d)
	}

	if err := s.svc.LogRecord(r); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to log performance: %w", err)
	}

	return nil, recordOutput{
		ID:      r.ID.String()[:8],
		Metric:  r.Key().String(),
		Value:   r.MetricValue,
		Date:    r.Date.UTC().Format("2006-01-02"),
		Message: fmt.Sprintf("Logged %s: %g %s for %s (ID: %s)", r.MetricName, r.MetricValue, r.MetricUnit, athlete.Name, r.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListPerformance(ctx context.Context, req *mcp.CallToolRequest, input seriesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit < 0 {
		return nil, nil, fmt.Errorf("limit must not be negative")
	}

	h, err := s.svc.Records(input.AthleteID, input.Metric, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list performance: %w", err)
	}

	if len(h.Records) == 0 {
		return nil, map[string]interface{}{"message": "No performance records found."}, nil
	}

	return nil, h, nil
}

func (s *Server) handleDeletePerformance(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.svc.DeleteRecord(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete performance record: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted performance record: %s", input.ID),
	}, nil
}

func (s *Server) handlePerformanceStats(ctx context.Context, req *mcp.CallToolRequest, input seriesInput) (*mcp.CallToolResult, any, error) {
	if input.ByMetric {
		summaries, err := s.svc.StatsByMetric(input.AthleteID)
		if err != nil {
			return nil, nil, err
		}
		return nil, map[string]interface{}{"metrics": summaries}, nil
	}

	summary, err := s.svc.Stats(input.AthleteID, input.Metric)
	if err != nil {
		return nil, nil, err
	}
	return nil, summary, nil
}

func (s *Server) handlePerformanceChart(ctx context.Context, req *mcp.CallToolRequest, input seriesInput) (*mcp.CallToolResult, any, error) {
	if input.ByMetric {
		charts, err := s.svc.ChartsByMetric(input.AthleteID)
		if err != nil {
			return nil, nil, err
		}
		return nil, map[string]interface{}{"charts": charts}, nil
	}

	chart, err := s.svc.Chart(input.AthleteID, input.Metric)
	if err != nil {
		return nil, nil, err
	}
	return nil, chart, nil
}

func (s *Server) handleExportPerformanceCSV(ctx context.Context, req *mcp.CallToolRequest, input seriesInput) (*mcp.CallToolResult, csvOutput, error) {
	export, err := s.svc.ExportCSV(input.AthleteID, input.Metric)
	if err != nil {
		return nil, csvOutput{}, err
	}

	data := string(export.Data)
	return nil, csvOutput{
		Filename: export.Filename,
		Rows:     strings.Count(data, "\n"),
		CSV:      data,
	}, nil
}

func (s *Server) handleListMetricCatalogue(ctx context.Context, req *mcp.CallToolRequest, input catalogueInput) (*mcp.CallToolResult, any, error) {
	return nil, map[string]interface{}{
		"metrics": models.AllMetrics,
		"sports":  models.Sports,
	}, nil
}

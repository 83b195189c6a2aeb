// ABOUTME: Handlers for logging, listing and deleting performance records and for
// ABOUTME: the stats, chart and CSV export views of an athlete's series.
package api

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/scout/internal/logger"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/service"
)

// PerformanceHandler handles /api/performance requests.
type PerformanceHandler struct {
	svc       *service.Service
	authorize Authorizer
	log       logger.Logger
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(svc *service.Service, authorize Authorizer, log logger.Logger) *PerformanceHandler {
	return &PerformanceHandler{svc: svc, authorize: authorize, log: log}
}

// logRequest mirrors the performance logging form.
type logRequest struct {
	AthleteID   string   `json:"athleteId"`
	MetricName  string   `json:"metricName"`
	MetricValue *float64 `json:"metricValue"`
	MetricUnit  string   `json:"metricUnit"`
	Notes       string   `json:"notes"`
	Date        string   `json:"date"`
}

func (req logRequest) validate() error {
	switch {
	case strings.TrimSpace(req.AthleteID) == "":
		return fmt.Errorf("%w: missing athleteId", models.ErrInvalidRecord)
	case strings.TrimSpace(req.MetricName) == "":
		return fmt.Errorf("%w: missing metricName", models.ErrInvalidRecord)
	case req.MetricValue == nil:
		return fmt.Errorf("%w: missing metricValue", models.ErrInvalidRecord)
	}
	return nil
}

// unit returns the requested unit, falling back to the catalogue default.
func (req logRequest) unit() string {
	if u := strings.TrimSpace(req.MetricUnit); u != "" {
		return u
	}
	if m, ok := models.LookupMetric(req.MetricName); ok {
		return m.Unit
	}
	return ""
}

// HandleLog handles POST /api/performance.
func (h *PerformanceHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	if err := req.validate(); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		d, err := models.ParseDate(req.Date)
		if err != nil {
			writeDomainError(w, h.log, err)
			return
		}
		date = d
	}

	athlete, err := h.svc.GetProfile(req.AthleteID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	if err := h.authorize(r, athlete.ID); err != nil {
		writeDomainError(w, h.log, fmt.Errorf("%w: %v", ErrForbidden, err))
		return
	}

	rec := models.NewPerformanceRecord(athlete.ID, req.MetricName, *req.MetricValue, req.unit()).
		WithNotes(req.Notes)
	rec.Date = date
	if err := h.svc.LogRecord(rec); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// HandleHistory handles GET /api/performance/{athleteId}?metric&limit.
func (h *PerformanceHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	history, err := h.svc.Records(r.PathValue("athleteId"), r.URL.Query().Get("metric"), limit)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	records := history.Records
	if records == nil {
		records = []*models.PerformanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleDelete handles DELETE /api/performance/records/{id}.
func (h *PerformanceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecord(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	if err := h.authorize(r, rec.AthleteID); err != nil {
		writeDomainError(w, h.log, fmt.Errorf("%w: %v", ErrForbidden, err))
		return
	}
	if err := h.svc.DeleteRecord(rec.ID.String()); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats handles GET /api/performance/{athleteId}/stats?metric&byMetric.
func (h *PerformanceHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	athleteRef := r.PathValue("athleteId")
	if byMetric(r) {
		summaries, err := h.svc.StatsByMetric(athleteRef)
		if err != nil {
			writeDomainError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, summaries)
		return
	}

	summary, err := h.svc.Stats(athleteRef, r.URL.Query().Get("metric"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleChart handles GET /api/performance/{athleteId}/chart?metric&byMetric.
func (h *PerformanceHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	athleteRef := r.PathValue("athleteId")
	if byMetric(r) {
		charts, err := h.svc.ChartsByMetric(athleteRef)
		if err != nil {
			writeDomainError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, charts)
		return
	}

	chart, err := h.svc.Chart(athleteRef, r.URL.Query().Get("metric"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// HandleExportCSV handles GET /api/performance/{athleteId}/export.csv?metric.
func (h *PerformanceHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	export, err := h.svc.ExportCSV(r.PathValue("athleteId"), r.URL.Query().Get("metric"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

func byMetric(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("byMetric"))
	return err == nil && v
}

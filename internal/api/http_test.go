// ABOUTME: BDD tests for the HTTP API routes using httptest and a temporary SQLite store.
// ABOUTME: Exercises registration, discovery, logging, stats, charts, export and the authorizer hook.
package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/api"
	"github.com/harperreed/scout/internal/logger"
	"github.com/harperreed/scout/internal/metrics"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/service"
	"github.com/harperreed/scout/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newTestHandler(t *testing.T, opts ...api.Option) (http.Handler, *service.Service) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "scout.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := service.New(db,
		service.WithLogger(logger.Nop()),
		service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
		service.WithClock(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }),
	)
	opts = append([]api.Option{api.WithLogger(logger.Nop())}, opts...)
	return api.NewServer(svc, opts...).Handler(context.Background()), svc
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var body errorBody
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func registerAthlete(h http.Handler, name, sport, district string, age int) models.AthleteProfile {
	body := fmt.Sprintf(`{"name":%q,"email":"%s@example.com","password":"secret","role":"athlete","sport":%q,"district":%q,"age":%d}`,
		name, strings.ToLower(strings.Fields(name)[0]), sport, district, age)
	w := do(h, http.MethodPost, "/api/users/register", body)
	So(w.Code, ShouldEqual, http.StatusCreated)

	var p models.AthleteProfile
	So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
	return p
}

func logPerformance(h http.Handler, athleteID uuid.UUID, metric string, value float64, unit, date string) models.PerformanceRecord {
	body := fmt.Sprintf(`{"athleteId":%q,"metricName":%q,"metricValue":%v,"metricUnit":%q,"date":%q}`,
		athleteID.String(), metric, value, unit, date)
	w := do(h, http.MethodPost, "/api/performance", body)
	So(w.Code, ShouldEqual, http.StatusCreated)

	var r models.PerformanceRecord
	So(json.Unmarshal(w.Body.Bytes(), &r), ShouldBeNil)
	return r
}

func TestServer_Health(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		h, _ := newTestHandler(t)

		Convey("Then the health endpoint reports ok", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("And the metrics endpoint serves the scout registry", func() {
			do(h, http.MethodGet, "/healthz", "")
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "scout_http_requests_total")
		})

		Convey("And unknown routes return 404", func() {
			w := do(h, http.MethodGet, "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_Users(t *testing.T) {
	Convey("Given an API server", t, func() {
		h, _ := newTestHandler(t)

		Convey("When an athlete registers", func() {
			p := registerAthlete(h, "Ann Lee", "Cricket", "Pune", 17)

			Convey("Then the profile can be fetched by id", func() {
				w := do(h, http.MethodGet, "/api/users/"+p.ID.String(), "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"name":"Ann Lee"`)
				So(w.Body.String(), ShouldNotContainSubstring, "secret")
			})

			Convey("And registering the same email again conflicts", func() {
				w := do(h, http.MethodPost, "/api/users/register",
					`{"name":"Other","email":"ANN@example.com","role":"athlete","sport":"Hockey","district":"Pune","age":18}`)
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decodeError(w).Code, ShouldEqual, "duplicate_email")
			})
		})

		Convey("When an athlete registers without an age", func() {
			w := do(h, http.MethodPost, "/api/users/register",
				`{"name":"Ann","role":"athlete","sport":"Cricket","district":"Pune"}`)

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "invalid_profile")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(h, http.MethodPost, "/api/users/register", `{not json`)

			Convey("Then the request is rejected as malformed", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When fetching an unknown user", func() {
			w := do(h, http.MethodGet, "/api/users/"+uuid.New().String(), "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w).Code, ShouldEqual, "not_found")
			})
		})
	})
}

func TestServer_UpdateUser(t *testing.T) {
	Convey("Given a registered athlete", t, func() {
		h, _ := newTestHandler(t)
		p := registerAthlete(h, "Ann Lee", "Cricket", "Pune", 17)
		target := "/api/users/" + p.ID.String()

		Convey("When the district and age are changed", func() {
			w := do(h, http.MethodPut, target, `{"district":"Mumbai","age":18}`)

			Convey("Then the updated profile is returned and discoverable", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got models.AthleteProfile
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.District, ShouldEqual, "Mumbai")
				So(*got.Age, ShouldEqual, 18)
				So(got.Sport, ShouldEqual, "Cricket")

				w = do(h, http.MethodGet, "/api/users/athletes?district=Mumbai", "")
				So(w.Body.String(), ShouldContainSubstring, p.ID.String())
			})
		})

		Convey("When an athlete is given a team", func() {
			w := do(h, http.MethodPut, target, `{"team":"Pune Lions"}`)

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "invalid_profile")
			})
		})

		Convey("When the body is empty JSON", func() {
			w := do(h, http.MethodPut, target, `{}`)

			Convey("Then nothing is updated", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the profile does not exist", func() {
			w := do(h, http.MethodPut, "/api/users/"+uuid.New().String(), `{"name":"X"}`)

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When another profile already has the email", func() {
			registerAthlete(h, "Bob Rao", "Hockey", "Pune", 19)
			w := do(h, http.MethodPut, target, `{"email":"BOB@example.com"}`)

			Convey("Then the update conflicts", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decodeError(w).Code, ShouldEqual, "duplicate_email")
			})
		})
	})
}

func TestServer_Discovery(t *testing.T) {
	Convey("Given a roster with a coach", t, func() {
		h, _ := newTestHandler(t)
		registerAthlete(h, "Ann Lee", "Cricket", "Pune", 17)
		registerAthlete(h, "Bob Rao", "Cricket", "Mumbai", 19)
		registerAthlete(h, "Joanna Dsouza", "Hockey", "Pune", 16)
		w := do(h, http.MethodPost, "/api/users/register",
			`{"name":"Anand","role":"coach","team":"Pune Lions","district":"Pune"}`)
		So(w.Code, ShouldEqual, http.StatusCreated)

		list := func(query string) []models.AthleteProfile {
			w := do(h, http.MethodGet, "/api/users/athletes"+query, "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var roster []models.AthleteProfile
			So(json.Unmarshal(w.Body.Bytes(), &roster), ShouldBeNil)
			return roster
		}

		Convey("Then an unfiltered query returns every athlete", func() {
			So(list(""), ShouldHaveLength, 3)
		})

		Convey("Then filters combine with AND", func() {
			roster := list("?sport=Cricket&age=18")
			So(roster, ShouldHaveLength, 1)
			So(roster[0].Name, ShouldEqual, "Ann Lee")
		})

		Convey("Then the name filter is case-insensitive", func() {
			roster := list("?district=Pune&name=ANN")
			So(roster, ShouldHaveLength, 2)
		})

		Convey("Then a filter that matches nothing returns an empty array", func() {
			w := do(h, http.MethodGet, "/api/users/athletes?sport=Swimming", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("Then a non-numeric age is rejected", func() {
			w := do(h, http.MethodGet, "/api/users/athletes?age=abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "invalid_filter")
		})
	})
}

func TestServer_Performance(t *testing.T) {
	Convey("Given an athlete with a sprint history", t, func() {
		h, _ := newTestHandler(t)
		ann := registerAthlete(h, "Ann Lee", "Athletics (Sprinting)", "Pune", 17)
		logPerformance(h, ann.ID, "100m Time", 12.5, "seconds", "2025-01-01")
		logPerformance(h, ann.ID, "100m Time", 12.3, "seconds", "2025-01-08")
		last := logPerformance(h, ann.ID, "100m Time", 12.0, "seconds", "2025-01-15T08:00:00Z")

		Convey("When listing the history", func() {
			w := do(h, http.MethodGet, "/api/performance/"+ann.ID.String(), "")

			Convey("Then records come back in ascending date order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var records []models.PerformanceRecord
				So(json.Unmarshal(w.Body.Bytes(), &records), ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				So(records[0].MetricValue, ShouldEqual, 12.5)
				So(records[2].ID, ShouldEqual, last.ID)
			})
		})

		Convey("When listing with a limit", func() {
			w := do(h, http.MethodGet, "/api/performance/"+ann.ID.String()+"?limit=2", "")

			Convey("Then the most recent records are kept", func() {
				var records []models.PerformanceRecord
				So(json.Unmarshal(w.Body.Bytes(), &records), ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].MetricValue, ShouldEqual, 12.3)
			})
		})

		Convey("When requesting stats", func() {
			w := do(h, http.MethodGet, "/api/performance/"+ann.ID.String()+"/stats", "")

			Convey("Then the summary uses the wire shape", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["total"], ShouldEqual, float64(3))
				So(body["average"], ShouldEqual, 12.27)
				So(body["best"], ShouldEqual, 12.0)
				So(body["improvement"], ShouldEqual, "-4.00%")
				So(body["improvementPositive"], ShouldEqual, false)
			})
		})

		Convey("When requesting stats for a metric with no records", func() {
			w := do(h, http.MethodGet, "/api/performance/"+ann.ID.String()+"/stats?metric=Shot+Put", "")

			Convey("Then the series is reported empty", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w).Code, ShouldEqual, "empty_series")
			})
		})

		Convey("When requesting a chart", func() {
			w := do(h, http.MethodGet, "/api/performance/"+ann.ID.String()+"/chart", "")

			Convey("Then labels and values line up", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var chart struct {
					SeriesLabel string    `json:"seriesLabel"`
					Labels      []string  `json:"labels"`
					Values      []float64 `json:"values"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &chart), ShouldBeNil)
				So(chart.SeriesLabel, ShouldEqual, "100m Time (seconds)")
				So(chart.Labels, ShouldResemble, []string{"Jan 1, 2025", "Jan 8, 2025", "Jan 15, 2025"})
				So(chart.Values, ShouldResemble, []float64{12.5, 12.3, 12.0})
			})
		})

		Convey("When exporting CSV", func() {
			w := do(h, http.MethodGet, "/api/performance/"+ann.ID.String()+"/export.csv", "")

			Convey("Then the attachment carries the conventional filename", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				So(w.Header().Get("Content-Disposition"), ShouldEqual,
					`attachment; filename="Ann Lee_performance_2025-03-01.csv"`)
				So(strings.Split(w.Body.String(), "\n"), ShouldHaveLength, 4)
			})
		})

		Convey("When deleting a record", func() {
			first := do(h, http.MethodDelete, "/api/performance/records/"+last.ID.String(), "")
			second := do(h, http.MethodDelete, "/api/performance/records/"+last.ID.String(), "")

			Convey("Then the first delete succeeds and the second is not found", func() {
				So(first.Code, ShouldEqual, http.StatusNoContent)
				So(second.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given an athlete with no records", t, func() {
		h, _ := newTestHandler(t)
		bob := registerAthlete(h, "Bob Rao", "Cricket", "Mumbai", 19)

		Convey("Then exporting reports an empty export", func() {
			w := do(h, http.MethodGet, "/api/performance/"+bob.ID.String()+"/export.csv", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "empty_export")
		})

		Convey("Then the history is an empty array", func() {
			w := do(h, http.MethodGet, "/api/performance/"+bob.ID.String(), "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("Then a record without a value is rejected", func() {
			w := do(h, http.MethodPost, "/api/performance",
				fmt.Sprintf(`{"athleteId":%q,"metricName":"Runs Scored","metricUnit":"runs"}`, bob.ID))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "invalid_record")
		})

		Convey("Then a catalogue metric without a unit gets the default unit", func() {
			rec := logPerformance(h, bob.ID, "Runs Scored", 42, "", "2025-02-01")
			So(rec.MetricUnit, ShouldEqual, "runs")
		})
	})

	Convey("Given a coach and an unknown athlete id", t, func() {
		h, _ := newTestHandler(t)
		w := do(h, http.MethodPost, "/api/users/register",
			`{"name":"Anand","role":"coach","team":"Pune Lions","district":"Pune"}`)
		So(w.Code, ShouldEqual, http.StatusCreated)
		var coach models.AthleteProfile
		So(json.Unmarshal(w.Body.Bytes(), &coach), ShouldBeNil)

		Convey("Then logging for the coach is rejected", func() {
			w := do(h, http.MethodPost, "/api/performance",
				fmt.Sprintf(`{"athleteId":%q,"metricName":"Squat","metricValue":100,"metricUnit":"kg"}`, coach.ID))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "not_athlete")
		})

		Convey("Then logging for an unknown athlete is not found", func() {
			w := do(h, http.MethodPost, "/api/performance",
				fmt.Sprintf(`{"athleteId":%q,"metricName":"Squat","metricValue":100,"metricUnit":"kg"}`, uuid.New()))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_Authorizer(t *testing.T) {
	Convey("Given a server whose authorizer rejects everyone", t, func() {
		deny := func(*http.Request, uuid.UUID) error { return errors.New("not your athlete") }
		h, svc := newTestHandler(t, api.WithAuthorizer(deny))

		athlete := models.NewAthlete("Ann Lee", "Cricket", "Pune", 17)
		So(svc.RegisterProfile(athlete), ShouldBeNil)
		rec := models.NewPerformanceRecord(athlete.ID, "Runs Scored", 30, "runs")
		So(svc.LogRecord(rec), ShouldBeNil)

		Convey("Then creating a record is forbidden", func() {
			w := do(h, http.MethodPost, "/api/performance",
				fmt.Sprintf(`{"athleteId":%q,"metricName":"Runs Scored","metricValue":31,"metricUnit":"runs"}`, athlete.ID))
			So(w.Code, ShouldEqual, http.StatusForbidden)
			So(decodeError(w).Message, ShouldContainSubstring, "not your athlete")
		})

		Convey("Then deleting a record is forbidden and the record survives", func() {
			w := do(h, http.MethodDelete, "/api/performance/records/"+rec.ID.String(), "")
			So(w.Code, ShouldEqual, http.StatusForbidden)
			_, err := svc.GetRecord(rec.ID.String())
			So(err, ShouldBeNil)
		})

		Convey("Then editing the profile is forbidden and it is unchanged", func() {
			w := do(h, http.MethodPut, "/api/users/"+athlete.ID.String(), `{"district":"Goa"}`)
			So(w.Code, ShouldEqual, http.StatusForbidden)
			p, err := svc.GetProfile(athlete.ID.String())
			So(err, ShouldBeNil)
			So(p.District, ShouldEqual, "Pune")
		})

		Convey("Then reads are unaffected", func() {
			w := do(h, http.MethodGet, "/api/performance/"+athlete.ID.String(), "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

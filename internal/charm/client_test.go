// ABOUTME: Unit tests for the Charm-backed repository.
// ABOUTME: Runs against an in-memory store standing in for Charm KV.
package charm

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/storage"
)

type memStore struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
	closed   bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Keys() ([][]byte, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out, nil
}

func (m *memStore) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (m *memStore) Set(key, value []byte) error {
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memStore) Sync() error      { m.syncs++; return nil }
func (m *memStore) IsReadOnly() bool { return m.readOnly }
func (m *memStore) Reset() error     { m.data = make(map[string][]byte); return nil }
func (m *memStore) Close() error     { m.closed = true; return nil }

func setupTestClient(t *testing.T) (*Client, *memStore) {
	t.Helper()
	s := newMemStore()
	return newClient(s, true), s
}

func TestKeyPrefixes(t *testing.T) {
	c, s := setupTestClient(t)

	a := models.NewAthlete("Anna", "Cricket", "Pune", 17)
	if err := c.CreateProfile(a); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	r := models.NewPerformanceRecord(a.ID, "Runs Scored", 42, "runs")
	if err := c.CreateRecord(r); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	for _, key := range []string{"athlete:" + a.ID.String(), "performance:" + r.ID.String()} {
		if _, ok := s.data[key]; !ok {
			t.Errorf("missing key %s", key)
		}
	}
	if s.syncs != 2 {
		t.Errorf("expected a sync per write, got %d", s.syncs)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	c, _ := setupTestClient(t)

	a := models.NewAthlete("Anna", "Cricket", "Pune", 17).WithEmail("anna@example.com")
	if err := c.CreateProfile(a); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	got, err := c.GetProfile(a.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.ID != a.ID || got.Email != "anna@example.com" || *got.Age != 17 {
		t.Errorf("profile mismatch: %+v", got)
	}

	dup := models.NewCoach("Anna Coach", "Club", "Pune").WithEmail("ANNA@example.com")
	if err := c.CreateProfile(dup); !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	if err := c.CreateProfile(models.NewAthlete("", "Cricket", "Pune", 1)); !errors.Is(err, models.ErrInvalidProfile) {
		t.Errorf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestListAthletesFiltersClientSide(t *testing.T) {
	c, _ := setupTestClient(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	profiles := []*models.AthleteProfile{
		models.NewAthlete("Anna", "Cricket", "Pune", 17),
		models.NewCoach("Carla", "Strikers", "Pune"),
		models.NewAthlete("Dev", "Cricket", "Pune", 19),
		models.NewAthlete("Esha", "Cricket", "Mumbai", 15),
	}
	for i, p := range profiles {
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := c.CreateProfile(p); err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
	}

	age := 18.0
	got, err := c.ListAthletes(discovery.Query{Sport: "Cricket", MaxAge: &age})
	if err != nil {
		t.Fatalf("ListAthletes failed: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Anna" || got[1].Name != "Esha" {
		t.Errorf("unexpected athletes: %v", got)
	}

	all, err := c.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(all) != 4 || all[1].Name != "Carla" {
		t.Errorf("ListProfiles not in registration order: %v", all)
	}
}

func TestRecordOwnership(t *testing.T) {
	c, _ := setupTestClient(t)

	coach := models.NewCoach("Carla", "Strikers", "Pune")
	if err := c.CreateProfile(coach); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	err := c.CreateRecord(models.NewPerformanceRecord(coach.ID, "Squat", 100, "kg"))
	if !errors.Is(err, storage.ErrNotAthlete) {
		t.Errorf("expected ErrNotAthlete, got %v", err)
	}

	err = c.CreateRecord(models.NewPerformanceRecord(uuid.New(), "Squat", 100, "kg"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecordsAscending(t *testing.T) {
	c, _ := setupTestClient(t)
	a := models.NewAthlete("Anna", "Weightlifting", "Pune", 20)
	if err := c.CreateProfile(a); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, day := range []int{3, 1, 4, 2} {
		r := models.NewPerformanceRecord(a.ID, "Squat", float64(100+day), "kg").WithDate(base.AddDate(0, 0, day))
		if err := c.CreateRecord(r); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}
	if err := c.CreateRecord(models.NewPerformanceRecord(a.ID, "Bench Press", 60, "kg").WithDate(base)); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	squat := "Squat"
	got, err := c.ListRecords(a.ID, &squat, 0)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	want := []float64{101, 102, 103, 104}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, v := range want {
		if got[i].MetricValue != v {
			t.Errorf("got[%d] = %v, want %v", i, got[i].MetricValue, v)
		}
	}

	latest, err := c.ListRecords(a.ID, &squat, 2)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(latest) != 2 || latest[0].MetricValue != 103 {
		t.Errorf("limit should keep the most recent records: %v", latest)
	}

	all, err := c.ListRecords(a.ID, nil, 0)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(all) != 5 || all[0].MetricName != "Bench Press" {
		t.Errorf("unexpected full series: %d records", len(all))
	}
}

func TestDeleteRecordTwice(t *testing.T) {
	c, _ := setupTestClient(t)
	a := models.NewAthlete("Anna", "Weightlifting", "Pune", 20)
	if err := c.CreateProfile(a); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	r := models.NewPerformanceRecord(a.ID, "Squat", 100, "kg")
	if err := c.CreateRecord(r); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if err := c.DeleteRecord(r.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	if err := c.DeleteRecord(r.ID.String()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestAmbiguousPrefix(t *testing.T) {
	c, s := setupTestClient(t)
	s.data[PerformancePrefix+"abcd0000-0000-4000-8000-000000000001"] = []byte(`{}`)
	s.data[PerformancePrefix+"abcd0000-0000-4000-8000-000000000002"] = []byte(`{}`)

	if _, err := c.GetRecord("abcd"); !errors.Is(err, storage.ErrAmbiguousPrefix) {
		t.Errorf("expected ErrAmbiguousPrefix, got %v", err)
	}
	if err := c.DeleteRecord("abcd"); !errors.Is(err, storage.ErrAmbiguousPrefix) {
		t.Errorf("expected ErrAmbiguousPrefix on delete, got %v", err)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	c, s := setupTestClient(t)
	s.readOnly = true

	err := c.CreateProfile(models.NewAthlete("Anna", "Cricket", "Pune", 17))
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if err := c.Sync(); err != nil {
		t.Errorf("Sync in read-only mode should be a no-op, got %v", err)
	}
	if s.syncs != 0 {
		t.Errorf("read-only client synced %d times", s.syncs)
	}
}

func TestAutoSyncDisabled(t *testing.T) {
	c, s := setupTestClient(t)
	c.SetAutoSync(false)

	if err := c.CreateProfile(models.NewCoach("Carla", "Strikers", "Pune")); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if s.syncs != 0 {
		t.Errorf("expected no sync, got %d", s.syncs)
	}
	if err := c.Sync(); err != nil || s.syncs != 1 {
		t.Errorf("explicit Sync: err=%v syncs=%d", err, s.syncs)
	}
}

func TestMigrateBetweenBackends(t *testing.T) {
	src, _ := setupTestClient(t)
	a := models.NewAthlete("Anna", "Weightlifting", "Pune", 20)
	if err := src.CreateProfile(a); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if err := src.CreateRecord(models.NewPerformanceRecord(a.ID, "Squat", 100, "kg").WithNotes("pb")); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	dst, _ := setupTestClient(t)
	summary, err := storage.MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Profiles != 1 || summary.Records != 1 {
		t.Errorf("summary = %+v", summary)
	}

	data, err := storage.ExportJSON(dst)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"notes": "pb"`) {
		t.Errorf("export missing notes: %s", data)
	}
}

func TestClose(t *testing.T) {
	c, s := setupTestClient(t)
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !s.closed {
		t.Error("underlying store not closed")
	}
}

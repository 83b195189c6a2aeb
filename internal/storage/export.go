// ABOUTME: Export and import functionality for scout data.
// ABOUTME: Supports JSON and YAML full exports over any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/scout/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the format version written to every export.
const ExportVersion = "1.0"

// ExportData represents the full export format for scout data.
type ExportData struct {
	Version    string                      `json:"version" yaml:"version"`
	ExportedAt time.Time                   `json:"exported_at" yaml:"exported_at"`
	Tool       string                      `json:"tool" yaml:"tool"`
	Profiles   []*models.AthleteProfile    `json:"profiles" yaml:"profiles"`
	Records    []*models.PerformanceRecord `json:"records" yaml:"records"`
}

// CollectData reads every profile and every record from repo.
// Records are grouped by athlete in registration order, each group ascending by date.
func CollectData(repo Repository) (*ExportData, error) {
	profiles, err := repo.ListProfiles()
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var records []*models.PerformanceRecord
	for _, p := range profiles {
		if !p.IsAthlete() {
			continue
		}
		rs, err := repo.ListRecords(p.ID, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("list records for %s: %w", p.ID, err)
		}
		records = append(records, rs...)
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "scout",
		Profiles:   profiles,
		Records:    records,
	}, nil
}

// LoadData writes profiles then records from data into repo.
func LoadData(repo Repository, data *ExportData) error {
	for _, p := range data.Profiles {
		if err := repo.CreateProfile(p); err != nil {
			return fmt.Errorf("import profile %s: %w", p.ID, err)
		}
	}
	for _, r := range data.Records {
		if err := repo.CreateRecord(r); err != nil {
			return fmt.Errorf("import record %s: %w", r.ID, err)
		}
	}
	return nil
}

// GetAllData collects every profile and record for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return CollectData(d)
}

// ImportData writes an export back into the store.
func (d *DB) ImportData(data *ExportData) error {
	return LoadData(d, data)
}

// ExportJSON renders data as indented JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with records nested under their athlete.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return MarshalYAML(data)
}

// MarshalYAML renders data as YAML with records nested under their athlete.
func MarshalYAML(data *ExportData) ([]byte, error) {
	byAthlete := make(map[string][]yamlRecord)
	for _, r := range data.Records {
		yr := yamlRecord{
			ID:     r.ID.String()[:8],
			Date:   r.Date.UTC().Format(time.RFC3339),
			Metric: r.MetricName,
			Value:  r.MetricValue,
			Unit:   r.MetricUnit,
			Notes:  r.NotesText(),
		}
		key := r.AthleteID.String()
		byAthlete[key] = append(byAthlete[key], yr)
	}

	out := struct {
		Version    string        `yaml:"version"`
		ExportedAt string        `yaml:"exported_at"`
		Tool       string        `yaml:"tool"`
		Profiles   []yamlProfile `yaml:"profiles"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Profiles:   make([]yamlProfile, 0, len(data.Profiles)),
	}

	for _, p := range data.Profiles {
		yp := yamlProfile{
			ID:           p.ID.String()[:8],
			Name:         p.Name,
			Role:         string(p.Role),
			Sport:        p.Sport,
			District:     p.District,
			Team:         p.Team,
			Performances: byAthlete[p.ID.String()],
		}
		if p.Age != nil {
			yp.Age = *p.Age
		}
		out.Profiles = append(out.Profiles, yp)
	}

	return yaml.Marshal(out)
}

type yamlProfile struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Role         string       `yaml:"role"`
	Sport        string       `yaml:"sport,omitempty"`
	District     string       `yaml:"district"`
	Age          int          `yaml:"age,omitempty"`
	Team         string       `yaml:"team,omitempty"`
	Performances []yamlRecord `yaml:"performances,omitempty"`
}

type yamlRecord struct {
	ID     string  `yaml:"id"`
	Date   string  `yaml:"date"`
	Metric string  `yaml:"metric"`
	Value  float64 `yaml:"value"`
	Unit   string  `yaml:"unit"`
	Notes  string  `yaml:"notes,omitempty"`
}

// ImportJSON decodes a JSON export and writes it into repo.
func ImportJSON(repo Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return repo.ImportData(&exportData)
}

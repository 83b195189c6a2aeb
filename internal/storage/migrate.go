// ABOUTME: Data migration between scout storage backends.
// ABOUTME: Copies profiles first, then every athlete's performance records.
package storage

import (
	"fmt"
	"os"
)

// MigrateSummary counts what MigrateData copied.
type MigrateSummary struct {
	Profiles int
	Records  int
}

// MigrateData copies all data from src to dst storage. Profiles are created
// before records so the destination can check record ownership. The
// destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	profiles, err := src.ListProfiles()
	if err != nil {
		return nil, fmt.Errorf("list source profiles: %w", err)
	}

	for _, p := range profiles {
		if err := dst.CreateProfile(p); err != nil {
			return nil, fmt.Errorf("create profile %s: %w", p.ID, err)
		}
		summary.Profiles++
	}

	for _, p := range profiles {
		if !p.IsAthlete() {
			continue
		}
		records, err := src.ListRecords(p.ID, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("list source records for %s: %w", p.ID, err)
		}
		for _, r := range records {
			if err := dst.CreateRecord(r); err != nil {
				return nil, fmt.Errorf("create record %s: %w", r.ID, err)
			}
			summary.Records++
		}
	}

	return summary, nil
}

// IsDirNonEmpty reports whether dir exists and has at least one entry.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}

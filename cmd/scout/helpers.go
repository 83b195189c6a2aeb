// ABOUTME: Shared helpers for CLI commands.
// ABOUTME: Athlete resolution by ID prefix or name, and column formatting.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/storage"
)

// resolveAthlete finds a profile by ID prefix, falling back to a name
// fragment that matches exactly one athlete.
func resolveAthlete(ref string) (*models.AthleteProfile, error) {
	p, err := svc.GetProfile(ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	matches, derr := svc.Discover(discovery.Filter{Name: ref})
	if derr != nil {
		return nil, derr
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("athlete not found: %s: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.ID.String()[:8]))
		}
		return nil, fmt.Errorf("%q matches %d athletes: %s", ref, len(matches), strings.Join(names, ", "))
	}
}

// defaultUnit returns unit, or the catalogue unit for metric when unit is blank.
func defaultUnit(metric, unit string) string {
	if u := strings.TrimSpace(unit); u != "" {
		return u
	}
	if m, ok := models.LookupMetric(metric); ok {
		return m.Unit
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// ABOUTME: Roster and filter fixtures shared by the discovery tests.
// ABOUTME: Mixes roles, sports, districts, ages and accented names.
package service_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
)

func discoveryRoster() []*models.AthleteProfile {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []*models.AthleteProfile{
		models.NewAthlete("Ann Lee", "Cricket", "Pune", 17),
		models.NewAthlete("Bob Rao", "Cricket", "Mumbai", 19),
		models.NewCoach("Anand Coach", "Pune Lions", "Pune"),
		models.NewAthlete("Joanna Dsouza", "Hockey", "Pune", 16),
		models.NewAthlete("ÉLODIE Brun", "Tennis", "Goa", 22),
		models.NewAthlete("Hannah Roy", "Cricket", "Pune", 18),
		models.NewCoach("Priya Nair", "Goa Strikers", "Goa"),
		models.NewAthlete("Ravi Kumar", "cricket", "Pune", 15),
		models.NewAthlete("Zoe Das", "Hockey", "Mumbai", 0),
	}
	for i, p := range ps {
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
	}
	return ps
}

func discoveryFilters() []discovery.Filter {
	age := func(v float64) *float64 { return &v }
	return []discovery.Filter{
		{},
		{Sport: "Cricket"},
		{Sport: "cricket"},
		{District: "Pune"},
		{District: "Goa"},
		{MaxAge: age(18)},
		{MaxAge: age(17.5)},
		{MaxAge: age(0)},
		{Name: "ann"},
		{Name: "élodie"},
		{Name: "coach"},
		{Sport: "Cricket", District: "Pune", MaxAge: age(18)},
		{Sport: "Hockey", Name: "O"},
		{District: "Mumbai", MaxAge: age(100), Name: "zoe"},
		{Sport: "Swimming"},
	}
}

func profileIDs(ps []*models.AthleteProfile) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

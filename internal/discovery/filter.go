// ABOUTME: Discovery filter engine narrowing an athlete roster by sport, district, age and name.
// ABOUTME: Exact-match fields form a store-side Query; the name stage runs in memory.
package discovery

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/harperreed/scout/internal/models"
)

// ErrInvalidFilterValue is returned when a filter field cannot be parsed.
var ErrInvalidFilterValue = errors.New("invalid filter value")

// Filter is a conjunction of optional predicates. Empty strings and a nil
// MaxAge mean the predicate is absent.
type Filter struct {
	Sport    string
	District string
	MaxAge   *float64
	Name     string
}

// ParseFilter builds a Filter from raw string inputs such as query parameters.
func ParseFilter(sport, district, age, name string) (Filter, error) {
	f := Filter{
		Sport:    strings.TrimSpace(sport),
		District: strings.TrimSpace(district),
		Name:     strings.TrimSpace(name),
	}

	age = strings.TrimSpace(age)
	if age == "" {
		return f, nil
	}
	v, err := strconv.ParseFloat(age, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Filter{}, fmt.Errorf("%w: age %q must be a non-negative number", ErrInvalidFilterValue, age)
	}
	f.MaxAge = &v
	return f, nil
}

// IsEmpty reports whether no predicate is set.
func (f Filter) IsEmpty() bool {
	return f.Sport == "" && f.District == "" && f.MaxAge == nil && f.Name == ""
}

// Query returns the exact-match stage of the filter.
func (f Filter) Query() Query {
	return Query{Sport: f.Sport, District: f.District, MaxAge: f.MaxAge}
}

// String renders the set predicates for logs.
func (f Filter) String() string {
	var parts []string
	if f.Sport != "" {
		parts = append(parts, "sport="+f.Sport)
	}
	if f.District != "" {
		parts = append(parts, "district="+f.District)
	}
	if f.MaxAge != nil {
		parts = append(parts, "age<="+strconv.FormatFloat(*f.MaxAge, 'f', -1, 64))
	}
	if f.Name != "" {
		parts = append(parts, "name~"+f.Name)
	}
	if len(parts) == 0 {
		return "all athletes"
	}
	return strings.Join(parts, " ")
}

// Query is the part of a Filter that a store can evaluate itself.
// The athlete role is always required.
type Query struct {
	Sport    string
	District string
	MaxAge   *float64
}

// Matches reports whether p satisfies every set field of the query.
func (q Query) Matches(p *models.AthleteProfile) bool {
	if p == nil || !p.IsAthlete() {
		return false
	}
	if q.Sport != "" && p.Sport != q.Sport {
		return false
	}
	if q.District != "" && p.District != q.District {
		return false
	}
	if q.MaxAge != nil {
		if p.Age == nil || float64(*p.Age) > *q.MaxAge {
			return false
		}
	}
	return true
}

// Apply evaluates the whole filter over the roster in a single pass,
// preserving order. The input slice is not modified.
func Apply(roster []*models.AthleteProfile, f Filter) []*models.AthleteProfile {
	q := f.Query()
	m := newNameMatcher(f.Name)

	out := make([]*models.AthleteProfile, 0, len(roster))
	for _, p := range roster {
		if q.Matches(p) && m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// nameMatcher holds a caser, which is not safe for concurrent use.
type nameMatcher struct {
	caser  cases.Caser
	needle string
}

func newNameMatcher(name string) *nameMatcher {
	name = strings.TrimSpace(name)
	if name == "" {
		return &nameMatcher{}
	}
	c := cases.Fold()
	return &nameMatcher{caser: c, needle: c.String(name)}
}

func (m *nameMatcher) match(p *models.AthleteProfile) bool {
	if m.needle == "" {
		return p != nil
	}
	if p == nil {
		return false
	}
	return strings.Contains(m.caser.String(p.Name), m.needle)
}

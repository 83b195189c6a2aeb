// ABOUTME: AthleteProfile model and Role enum for athletes and coaches.
// ABOUTME: Validates the role-dependent required fields (sport/age vs team).
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidProfile is returned when a profile is missing required fields.
var ErrInvalidProfile = errors.New("invalid profile")

// Role distinguishes athletes from coaches.
type Role string

const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
)

// IsValidRole checks if a string is a known role.
func IsValidRole(s string) bool {
	return s == string(RoleAthlete) || s == string(RoleCoach)
}

// AthleteProfile is a registered user. Athletes carry sport and age,
// coaches carry a team.
type AthleteProfile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	Sport     string    `json:"sport,omitempty"`
	District  string    `json:"district"`
	Age       *int      `json:"age,omitempty"`
	Team      string    `json:"team,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAthlete creates an athlete profile with a generated UUID.
func NewAthlete(name, sport, district string, age int) *AthleteProfile {
	return &AthleteProfile{
		ID:        uuid.New(),
		Name:      name,
		Role:      RoleAthlete,
		Sport:     sport,
		District:  district,
		Age:       &age,
		CreatedAt: time.Now(),
	}
}

// NewCoach creates a coach profile with a generated UUID.
func NewCoach(name, team, district string) *AthleteProfile {
	return &AthleteProfile{
		ID:        uuid.New(),
		Name:      name,
		Role:      RoleCoach,
		Team:      team,
		District:  district,
		CreatedAt: time.Now(),
	}
}

// WithEmail sets the contact email.
func (p *AthleteProfile) WithEmail(email string) *AthleteProfile {
	p.Email = strings.ToLower(strings.TrimSpace(email))
	return p
}

// IsAthlete reports whether the profile has the athlete role.
func (p *AthleteProfile) IsAthlete() bool {
	return p.Role == RoleAthlete
}

// Validate checks the fields required for the profile's role.
func (p *AthleteProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.District) == "" {
		return fmt.Errorf("%w: district is required", ErrInvalidProfile)
	}

	switch p.Role {
	case RoleAthlete:
		if strings.TrimSpace(p.Sport) == "" {
			return fmt.Errorf("%w: sport is required for athletes", ErrInvalidProfile)
		}
		if p.Age == nil {
			return fmt.Errorf("%w: age is required for athletes", ErrInvalidProfile)
		}
		if *p.Age < 0 {
			return fmt.Errorf("%w: age must not be negative", ErrInvalidProfile)
		}
	case RoleCoach:
		if strings.TrimSpace(p.Team) == "" {
			return fmt.Errorf("%w: team or affiliation is required for coaches", ErrInvalidProfile)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, p.Role)
	}
	return nil
}

// Sports lists the sports offered at registration. Free text is still accepted.
var Sports = []string{
	"Athletics (Sprinting)",
	"Athletics (Jumping)",
	"Athletics (Throwing)",
	"Badminton",
	"Basketball",
	"Boxing",
	"Cricket",
	"Football",
	"Hockey",
	"Kabaddi",
	"Swimming",
	"Table Tennis",
	"Tennis",
	"Volleyball",
	"Weightlifting",
	"Wrestling",
	"Other",
}

// IsKnownSport reports whether s is in the Sports list.
func IsKnownSport(s string) bool {
	for _, sport := range Sports {
		if sport == s {
			return true
		}
	}
	return false
}

// ABOUTME: Athlete and coach profile operations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys and client-side filtering for discovery.
package charm

import (
	"fmt"
	"sort"

	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/storage"
)

// CreateProfile validates and stores a new profile.
func (c *Client) CreateProfile(p *models.AthleteProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Email != "" {
		existing, err := c.ListProfiles()
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		for _, e := range existing {
			if e.Email == p.Email {
				return fmt.Errorf("%w: %s", storage.ErrDuplicateEmail, p.Email)
			}
		}
	}

	data, err := marshalJSON(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return c.set(AthletePrefix+p.ID.String(), data)
}

// GetProfile retrieves a profile by ID or ID prefix.
func (c *Client) GetProfile(idOrPrefix string) (*models.AthleteProfile, error) {
	data, err := c.getByIDPrefix(AthletePrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p, err := unmarshalJSON[models.AthleteProfile](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

// UpdateProfile overwrites the mutable fields of an existing profile.
// ID, role and registration time are kept.
func (c *Client) UpdateProfile(p *models.AthleteProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	existing, err := c.GetProfile(p.ID.String())
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if p.Email != "" {
		all, err := c.ListProfiles()
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		for _, e := range all {
			if e.ID != p.ID && e.Email == p.Email {
				return fmt.Errorf("%w: %s", storage.ErrDuplicateEmail, p.Email)
			}
		}
	}

	updated := *p
	updated.Role = existing.Role
	updated.CreatedAt = existing.CreatedAt

	data, err := marshalJSON(&updated)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return c.set(AthletePrefix+p.ID.String(), data)
}

// ListProfiles returns every profile sorted by registration time.
func (c *Client) ListProfiles() ([]*models.AthleteProfile, error) {
	allData, err := c.listByPrefix(AthletePrefix)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var profiles []*models.AthleteProfile
	for _, data := range allData {
		p, err := unmarshalJSON[models.AthleteProfile](data)
		if err != nil {
			continue // Skip invalid entries
		}
		profiles = append(profiles, p)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

// ListAthletes returns the athletes matching q in registration order.
func (c *Client) ListAthletes(q discovery.Query) ([]*models.AthleteProfile, error) {
	profiles, err := c.ListProfiles()
	if err != nil {
		return nil, err
	}

	var athletes []*models.AthleteProfile
	for _, p := range profiles {
		if q.Matches(p) {
			athletes = append(athletes, p)
		}
	}
	return athletes, nil
}

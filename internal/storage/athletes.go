// ABOUTME: Athlete and coach profile operations for SQLite storage.
// ABOUTME: Implements the profile half of the Repository interface.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/models"
)

const profileColumns = `id, name, email, role, sport, district, age, team, created_at`

// CreateProfile validates and stores a new profile.
func (d *DB) CreateProfile(p *models.AthleteProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Email != "" {
		var count int
		if err := d.db.QueryRow(`SELECT COUNT(*) FROM athletes WHERE email = ?`, p.Email).Scan(&count); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, p.Email)
		}
	}

	query := `
		INSERT INTO athletes (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		p.ID.String(),
		p.Name,
		nullString(p.Email),
		string(p.Role),
		nullString(p.Sport),
		p.District,
		p.Age,
		nullString(p.Team),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID or ID prefix.
func (d *DB) GetProfile(idOrPrefix string) (*models.AthleteProfile, error) {
	id, err := d.resolveID(tableAthletes, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	row := d.db.QueryRow(`SELECT `+profileColumns+` FROM athletes WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get profile: %w: %s", ErrNotFound, idOrPrefix)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile overwrites the mutable fields of an existing profile.
// ID, role and registration time are kept.
func (d *DB) UpdateProfile(p *models.AthleteProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Email != "" {
		var count int
		err := d.db.QueryRow(`SELECT COUNT(*) FROM athletes WHERE email = ? AND id != ?`, p.Email, p.ID.String()).Scan(&count)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, p.Email)
		}
	}

	res, err := d.db.Exec(`
		UPDATE athletes
		SET name = ?, email = ?, sport = ?, district = ?, age = ?, team = ?
		WHERE id = ?
	`,
		p.Name,
		nullString(p.Email),
		nullString(p.Sport),
		p.District,
		p.Age,
		nullString(p.Team),
		p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update profile: %w: %s", ErrNotFound, p.ID)
	}
	return nil
}

// ListProfiles returns every profile, athletes and coaches, in registration order.
func (d *DB) ListProfiles() ([]*models.AthleteProfile, error) {
	rows, err := d.db.Query(`SELECT ` + profileColumns + ` FROM athletes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// ListAthletes returns athletes matching the exact-match stage of a discovery
// filter, in registration order.
func (d *DB) ListAthletes(q discovery.Query) ([]*models.AthleteProfile, error) {
	conds := []string{"role = ?"}
	args := []interface{}{string(models.RoleAthlete)}

	if q.Sport != "" {
		conds = append(conds, "sport = ?")
		args = append(args, q.Sport)
	}
	if q.District != "" {
		conds = append(conds, "district = ?")
		args = append(args, q.District)
	}
	if q.MaxAge != nil {
		conds = append(conds, "age IS NOT NULL AND age <= ?")
		args = append(args, *q.MaxAge)
	}

	query := `SELECT ` + profileColumns + ` FROM athletes WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY rowid`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*models.AthleteProfile, error) {
	var p models.AthleteProfile
	var idStr, role, createdAt string
	var email, sport, team sql.NullString
	var age sql.NullInt64

	err := row.Scan(&idStr, &p.Name, &email, &role, &sport, &p.District, &age, &team, &createdAt)
	if err != nil {
		return nil, err
	}

	p.ID, _ = uuid.Parse(idStr)
	p.Role = models.Role(role)
	p.Email = email.String
	p.Sport = sport.String
	p.Team = team.String
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	p.CreatedAt = parseTime(createdAt)

	return &p, nil
}

func scanProfiles(rows *sql.Rows) ([]*models.AthleteProfile, error) {
	var profiles []*models.AthleteProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

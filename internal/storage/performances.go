// ABOUTME: Performance record operations for SQLite storage.
// ABOUTME: Records are create/delete only and are listed in ascending date order.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/models"
)

const recordColumns = `id, athlete_id, date, metric_name, metric_value, metric_unit, notes, created_at`

// CreateRecord stores a performance record for an existing athlete.
func (d *DB) CreateRecord(r *models.PerformanceRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	var role string
	err := d.db.QueryRow(`SELECT role FROM athletes WHERE id = ?`, r.AthleteID.String()).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("create record: athlete %w: %s", ErrNotFound, r.AthleteID)
		}
		return fmt.Errorf("create record: %w", err)
	}
	if models.Role(role) != models.RoleAthlete {
		return fmt.Errorf("create record: %w: %s", ErrNotAthlete, r.AthleteID)
	}

	query := `
		INSERT INTO performances (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = d.db.Exec(query,
		r.ID.String(),
		r.AthleteID.String(),
		formatTime(r.Date),
		r.MetricName,
		r.MetricValue,
		r.MetricUnit,
		r.Notes,
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by ID or ID prefix.
func (d *DB) GetRecord(idOrPrefix string) (*models.PerformanceRecord, error) {
	id, err := d.resolveID(tablePerformances, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	row := d.db.QueryRow(`SELECT `+recordColumns+` FROM performances WHERE id = ?`, id)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get record: %w: %s", ErrNotFound, idOrPrefix)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return r, nil
}

// ListRecords returns an athlete's records sorted by date ascending, ties broken
// by creation time. metricName narrows to one metric. A positive limit keeps the
// most recent limit records, still returned oldest first.
func (d *DB) ListRecords(athleteID uuid.UUID, metricName *string, limit int) ([]*models.PerformanceRecord, error) {
	inner := `SELECT ` + recordColumns + ` FROM performances WHERE athlete_id = ?`
	args := []interface{}{athleteID.String()}

	if metricName != nil {
		inner += ` AND metric_name = ?`
		args = append(args, *metricName)
	}

	var query string
	if limit > 0 {
		query = `SELECT * FROM (` + inner + ` ORDER BY date DESC, created_at DESC LIMIT ?) ORDER BY date ASC, created_at ASC`
		args = append(args, limit)
	} else {
		query = inner + ` ORDER BY date ASC, created_at ASC`
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*models.PerformanceRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteRecord removes a record by ID or prefix.
func (d *DB) DeleteRecord(idOrPrefix string) error {
	id, err := d.resolveID(tablePerformances, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	result, err := d.db.Exec(`DELETE FROM performances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete record: %w: %s", ErrNotFound, idOrPrefix)
	}
	return nil
}

func scanRecord(row rowScanner) (*models.PerformanceRecord, error) {
	var r models.PerformanceRecord
	var idStr, athleteStr, date, createdAt string
	var notes sql.NullString

	err := row.Scan(&idStr, &athleteStr, &date, &r.MetricName, &r.MetricValue, &r.MetricUnit, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	r.ID, _ = uuid.Parse(idStr)
	r.AthleteID, _ = uuid.Parse(athleteStr)
	r.Date = parseTime(date)
	r.CreatedAt = parseTime(createdAt)
	if notes.Valid {
		r.Notes = &notes.String
	}
	return &r, nil
}

// ABOUTME: Table and index definitions for the SQLite store.
// ABOUTME: Email is unique only among profiles that set one.
package storage

const (
	tableAthletes     = "athletes"
	tablePerformances = "performances"
)

// initSchema applies the idempotent DDL.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS athletes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		role TEXT NOT NULL CHECK (role IN ('athlete', 'coach')),
		sport TEXT,
		district TEXT NOT NULL,
		age INTEGER,
		team TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS performances (
		id TEXT PRIMARY KEY,
		athlete_id TEXT NOT NULL,
		date TEXT NOT NULL,
		metric_name TEXT NOT NULL,
		metric_value REAL NOT NULL,
		metric_unit TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (athlete_id) REFERENCES athletes(id) ON DELETE CASCADE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_athletes_email ON athletes(email) WHERE email IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_athletes_discovery ON athletes(role, sport, district, age);
	CREATE INDEX IF NOT EXISTS idx_performances_athlete_date ON performances(athlete_id, date, created_at);
	CREATE INDEX IF NOT EXISTS idx_performances_metric ON performances(athlete_id, metric_name);
	`

	_, err := d.db.Exec(schema)
	return err
}

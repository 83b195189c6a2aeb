// ABOUTME: Sentinel errors returned by the analytics engine.
// ABOUTME: Callers match them with errors.Is to pick a message or status.
package analytics

import "errors"

var (
	// ErrEmptySeries is returned when statistics or a chart are requested on zero records.
	ErrEmptySeries = errors.New("no performance data")

	// ErrUndefinedImprovement is returned when the first value of a series is zero.
	ErrUndefinedImprovement = errors.New("improvement undefined: first value is zero")

	// ErrEmptyExport is returned when a CSV export is requested on zero records.
	ErrEmptyExport = errors.New("nothing to export")
)

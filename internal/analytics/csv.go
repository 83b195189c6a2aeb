// ABOUTME: CSV serializer for exporting a performance series.
// ABOUTME: Every field is double-quoted; rows are newline separated.
package analytics

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/scout/internal/models"
)

// CSVDateLayout is the calendar format used in the Date column and filenames.
const CSVDateLayout = "2006-01-02"

// CSVHeader is the first row of every export.
var CSVHeader = []string{"Date", "Metric Name", "Value", "Unit", "Notes"}

// CSVExport is a rendered export ready to be written or downloaded.
type CSVExport struct {
	Filename string
	Data     []byte
}

// WriteCSV writes the header and one row per record to w.
func WriteCSV(w io.Writer, series []*models.PerformanceRecord) error {
	if len(series) == 0 {
		return ErrEmptyExport
	}

	bw := bufio.NewWriter(w)
	writeRow(bw, CSVHeader)
	for _, r := range series {
		_ = bw.WriteByte('\n')
		writeRow(bw, []string{
			r.Date.UTC().Format(CSVDateLayout),
			r.MetricName,
			strconv.FormatFloat(r.MetricValue, 'f', -1, 64),
			r.MetricUnit,
			r.NotesText(),
		})
	}
	return bw.Flush()
}

// ExportCSV renders the series and names the file after the athlete.
func ExportCSV(athleteName string, series []*models.PerformanceRecord, now time.Time) (*CSVExport, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, series); err != nil {
		return nil, err
	}
	return &CSVExport{
		Filename: ExportFilename(athleteName, now),
		Data:     buf.Bytes(),
	}, nil
}

// ExportFilename returns "<athleteName>_performance_<YYYY-MM-DD>.csv".
// Path separators in the name are replaced so the result stays a single file name.
func ExportFilename(athleteName string, now time.Time) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(athleteName)
	return name + "_performance_" + now.Format(CSVDateLayout) + ".csv"
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		_ = w.WriteByte('"')
		_, _ = w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		_ = w.WriteByte('"')
	}
}

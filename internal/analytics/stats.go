// ABOUTME: Aggregation engine turning a performance series into summary statistics.
// ABOUTME: Computes total, rounded average, best/worst by direction and improvement.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/harperreed/scout/internal/models"
)

// Summary holds the statistics of one performance series.
type Summary struct {
	Total       int
	Average     float64
	Best        float64
	Worst       float64
	Improvement Improvement
	Direction   models.Direction
	MetricName  string
	MetricUnit  string
}

// Improvement is the percentage change between the first and last value.
type Improvement struct {
	Percent  float64
	Defined  bool
	Positive bool
}

// String renders the improvement as "+x.xx%", "-x.xx%" or "undefined".
func (i Improvement) String() string {
	if !i.Defined {
		return "undefined"
	}
	p := i.Percent
	if p == 0 {
		p = 0 // drop the sign of -0
	}
	return fmt.Sprintf("%+.2f%%", p)
}

// Err returns ErrUndefinedImprovement when the improvement could not be computed.
func (i Improvement) Err() error {
	if !i.Defined {
		return ErrUndefinedImprovement
	}
	return nil
}

// Option configures Summarize.
type Option func(*summaryOptions)

type summaryOptions struct {
	direction models.Direction
}

// WithDirection tells the engine which end of the range is the better performance.
func WithDirection(d models.Direction) Option {
	return func(o *summaryOptions) {
		if d != "" {
			o.direction = d
		}
	}
}

// Summarize computes statistics for a series ordered by ascending date.
// The series is treated as a single metric; metric name and unit are taken from
// the first record.
func Summarize(series []*models.PerformanceRecord, opts ...Option) (*Summary, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	o := summaryOptions{direction: models.DirectionUnspecified}
	for _, opt := range opts {
		opt(&o)
	}

	first := series[0]
	last := series[len(series)-1]

	high, low := first.MetricValue, first.MetricValue
	values := make([]float64, len(series))
	for i, r := range series {
		values[i] = r.MetricValue
		high = math.Max(high, r.MetricValue)
		low = math.Min(low, r.MetricValue)
	}

	s := &Summary{
		Total:      len(series),
		Average:    round2(math.Min(math.Max(mean(values), low), high)),
		Direction:  o.direction,
		MetricName: first.MetricName,
		MetricUnit: first.MetricUnit,
	}

	if o.direction == models.LowerIsBetter {
		s.Best, s.Worst = low, high
	} else {
		s.Best, s.Worst = high, low
	}

	pct, err := PercentChange(first.MetricValue, last.MetricValue)
	if err == nil {
		s.Improvement = Improvement{
			Percent:  round2(pct),
			Defined:  true,
			Positive: pct > 0,
		}
	}

	return s, nil
}

// PercentChange returns (last - first) / first * 100, unrounded.
// A zero first value or a change too large to represent is undefined.
func PercentChange(first, last float64) (float64, error) {
	if first == 0 {
		return 0, ErrUndefinedImprovement
	}
	pct := (last - first) / first * 100
	if !finite(pct) {
		pct = (last/first - 1) * 100
	}
	if !finite(pct) {
		return 0, ErrUndefinedImprovement
	}
	return pct, nil
}

// MarshalJSON renders the summary in the wire shape used by the API and MCP tools.
func (s *Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total               int              `json:"total"`
		Average             float64          `json:"average"`
		Best                float64          `json:"best"`
		Worst               float64          `json:"worst"`
		Improvement         string           `json:"improvement"`
		ImprovementPositive bool             `json:"improvementPositive"`
		Direction           models.Direction `json:"direction"`
		MetricName          string           `json:"metricName"`
		MetricUnit          string           `json:"metricUnit"`
	}{
		Total:               s.Total,
		Average:             s.Average,
		Best:                s.Best,
		Worst:               s.Worst,
		Improvement:         s.Improvement.String(),
		ImprovementPositive: s.Improvement.Positive,
		Direction:           s.Direction,
		MetricName:          s.MetricName,
		MetricUnit:          s.MetricUnit,
	})
}

// mean uses Neumaier summation so long series do not drift before rounding.
func mean(values []float64) float64 {
	var sum, c float64
	for _, v := range values {
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			c += (sum - t) + v
		} else {
			c += (v - t) + sum
		}
		sum = t
	}
	if m := (sum + c) / float64(len(values)); finite(m) {
		return m
	}

	// The sum overflowed; fall back to a running mean.
	var m float64
	for i, v := range values {
		m += v/float64(i+1) - m/float64(i+1)
	}
	return m
}

// round2 rounds half away from zero to two decimals and normalizes -0 to 0.
// Magnitudes past 1e15 have no fractional digits left and pass through.
func round2(x float64) float64 {
	if math.Abs(x) >= 1e15 {
		return x
	}
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

func finite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-granularity layout used when NAV dates leave the engine.
const DateLayout = "2006-01-02"

// RawNavRecord is a NAV row exactly as the data source serves it.
type RawNavRecord struct {
	Date string `json:"date"` // dd-mm-yyyy
	NAV  string `json:"nav"`
}

// NavPoint is a single parsed NAV observation. NAV is always > 0.
type NavPoint struct {
	Date time.Time
	NAV  decimal.Decimal
}

// Float returns the NAV as float64 for statistics.
func (p NavPoint) Float() float64 {
	f, _ := p.NAV.Float64()
	return f
}

func (p NavPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date string      `json:"date"`
		NAV  json.Number `json:"nav"`
	}{
		Date: p.Date.Format(DateLayout),
		NAV:  json.Number(p.NAV.String()),
	})
}

// NavSeries is an ascending, duplicate-free sequence of NAV points.
// Transforms always return a new slice.
type NavSeries []NavPoint

// Len returns the number of points.
func (s NavSeries) Len() int { return len(s) }

// First returns the oldest point.
func (s NavSeries) First() (NavPoint, bool) {
	if len(s) == 0 {
		return NavPoint{}, false
	}
	return s[0], true
}

// Last returns the most recent point.
func (s NavSeries) Last() (NavPoint, bool) {
	if len(s) == 0 {
		return NavPoint{}, false
	}
	return s[len(s)-1], true
}

// Floats extracts the NAV values in order.
func (s NavSeries) Floats() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Float()
	}
	return out
}

// Clone returns an independent copy of the series.
func (s NavSeries) Clone() NavSeries {
	if s == nil {
		return NavSeries{}
	}
	out := make(NavSeries, len(s))
	copy(out, s)
	return out
}

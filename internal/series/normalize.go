// Package series turns raw NAV rows into ordered series and slices them into windows.
package series

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"NAVigator/internal/model"
)

// sourceDateLayout is day-month-year; single-digit day/month are accepted.
const sourceDateLayout = "2-1-2006"

// Normalize parses raw rows into an ascending NavSeries.
// Rows with an unparsable date or a non-positive/non-numeric NAV are dropped.
// When several rows share a date the last one in input order wins.
func Normalize(records []model.RawNavRecord) model.NavSeries {
	byDay := make(map[int64]model.NavPoint, len(records))
	for _, r := range records {
		p, ok := ParseRecord(r)
		if !ok {
			continue
		}
		byDay[p.Date.Unix()] = p
	}

	out := make(model.NavSeries, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ParseRecord parses a single raw row.
func ParseRecord(r model.RawNavRecord) (model.NavPoint, bool) {
	date, err := time.Parse(sourceDateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return model.NavPoint{}, false
	}
	nav, err := decimal.NewFromString(strings.TrimSpace(r.NAV))
	if err != nil || !nav.IsPositive() {
		return model.NavPoint{}, false
	}
	return model.NavPoint{Date: date, NAV: nav}, true
}

package series

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"NAVigator/internal/model"
)

// ErrInvalidRange is returned for window text that is neither a period nor a date pair.
var ErrInvalidRange = errors.New("invalid range window")

var periodMonths = map[model.Period]int{
	model.Period1M: 1,
	model.Period3M: 3,
	model.Period6M: 6,
	model.Period1Y: 12,
	model.Period3Y: 36,
	model.Period5Y: 60,
}

// ParseRangeWindow parses "1Y"-style periods or "YYYY-MM-DD..YYYY-MM-DD" pairs.
// Either side of a pair may be empty. An empty string means ALL.
func ParseRangeWindow(s string) (model.RangeWindow, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.RangeWindow{Period: model.PeriodAll}, nil
	}
	if start, end, ok := strings.Cut(s, ".."); ok {
		var w model.RangeWindow
		var err error
		if start = strings.TrimSpace(start); start != "" {
			if w.Start, err = ParseDay(start); err != nil {
				return model.RangeWindow{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
			}
		}
		if end = strings.TrimSpace(end); end != "" {
			if w.End, err = ParseDay(end); err != nil {
				return model.RangeWindow{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
			}
		}
		if !w.Start.IsZero() && !w.End.IsZero() && w.End.Before(w.Start) {
			return model.RangeWindow{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidRange, end, start)
		}
		return w, nil
	}
	p := model.Period(strings.ToUpper(s))
	if _, ok := periodMonths[p]; !ok && p != model.PeriodAll {
		return model.RangeWindow{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return model.RangeWindow{Period: p}, nil
}

// Cutoff returns the earliest date kept by a relative period anchored at latest.
func Cutoff(latest time.Time, p model.Period) (time.Time, bool) {
	months, ok := periodMonths[p]
	if !ok {
		return time.Time{}, false
	}
	return AddMonths(latest, -months), true
}

// Filter slices s to w and returns a new series.
// Relative windows keep points on or after the cutoff computed from the most recent point;
// ALL and unknown periods keep everything. Explicit bounds are inclusive.
func Filter(s model.NavSeries, w model.RangeWindow) model.NavSeries {
	if w.Relative() {
		last, ok := s.Last()
		if !ok {
			return model.NavSeries{}
		}
		cutoff, ok := Cutoff(last.Date, w.Period)
		if !ok {
			return s.Clone()
		}
		return keep(s, func(d time.Time) bool { return !d.Before(cutoff) })
	}
	return keep(s, func(d time.Time) bool {
		if !w.Start.IsZero() && d.Before(w.Start) {
			return false
		}
		if !w.End.IsZero() && d.After(w.End) {
			return false
		}
		return true
	})
}

func keep(s model.NavSeries, pred func(time.Time) bool) model.NavSeries {
	out := make(model.NavSeries, 0, len(s))
	for _, p := range s {
		if pred(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

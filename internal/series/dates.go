package series

import (
	"fmt"
	"strings"
	"time"
)

// dayLayout is the ISO layout accepted from users; single-digit month/day are allowed.
const dayLayout = "2006-1-2"

// ParseDay parses an ISO calendar date into UTC midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q want format YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// AddMonths shifts t by n calendar months, clamping the day to the end of the target month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

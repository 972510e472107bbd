package model

import "time"

// Period names a relative range window.
type Period string

const (
	Period1M  Period = "1M"
	Period3M  Period = "3M"
	Period6M  Period = "6M"
	Period1Y  Period = "1Y"
	Period3Y  Period = "3Y"
	Period5Y  Period = "5Y"
	PeriodAll Period = "ALL"
)

// Periods lists the supported relative windows in display order.
var Periods = []Period{Period1M, Period3M, Period6M, Period1Y, Period3Y, Period5Y, PeriodAll}

// RangeWindow is either a relative Period or an explicit inclusive [Start, End] pair.
// A zero Start or End leaves that side open.
type RangeWindow struct {
	Period Period    `json:"period,omitempty"`
	Start  time.Time `json:"start,omitempty"`
	End    time.Time `json:"end,omitempty"`
}

// Relative reports whether the window is a named period.
func (w RangeWindow) Relative() bool { return w.Period != "" }

// String renders the window in its text form.
func (w RangeWindow) String() string {
	if w.Relative() {
		return string(w.Period)
	}
	var start, end string
	if !w.Start.IsZero() {
		start = w.Start.Format(DateLayout)
	}
	if !w.End.IsZero() {
		end = w.End.Format(DateLayout)
	}
	return start + ".." + end
}

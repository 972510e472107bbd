package calculator

import (
	"math"

	"NAVigator/internal/model"
)

// ComputeNavStats scans the window for its first/last NAV, change and extremes.
// An empty series yields zero stats.
func ComputeNavStats(s model.NavSeries) model.NavStats {
	if len(s) == 0 {
		return model.NavStats{}
	}
	first := s[0].Float()
	last := s[len(s)-1].Float()

	st := model.NavStats{
		First:    first,
		Last:     last,
		High:     math.Inf(-1),
		Low:      math.Inf(1),
		Positive: len(s) >= 2 && last >= first,
	}
	for _, p := range s {
		v := p.Float()
		if v > st.High {
			st.High, st.HighDate = v, p.Date
		}
		if v < st.Low {
			st.Low, st.LowDate = v, p.Date
		}
	}
	st.Change = roundTo(last-first, 4)
	st.ChangePercent = round2((last - first) / first * 100)
	return st
}

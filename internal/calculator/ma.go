package calculator

import (
	"github.com/markcheno/go-talib"

	"NAVigator/internal/model"
)

// MovingAverage returns the simple moving average overlay of s.
// Points before the first full window are omitted; a period <= 1 or longer
// than the series gives an empty overlay.
func MovingAverage(s model.NavSeries, period int) []model.OverlayPoint {
	if period <= 1 || len(s) < period {
		return []model.OverlayPoint{}
	}
	sma := talib.Sma(s.Floats(), period)
	out := make([]model.OverlayPoint, 0, len(s)-period+1)
	for i := period - 1; i < len(s) && i < len(sma); i++ {
		out = append(out, model.OverlayPoint{Date: s[i].Date, Value: roundTo(sma[i], 4)})
	}
	return out
}

package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"NAVigator/internal/model"
)

// DefaultRSIPeriod is the lookback used by the watchlist digest.
const DefaultRSIPeriod = 14

// RSI returns the Wilder RSI of the most recent NAV, rounded to 2 decimals.
// Needs period+1 points; a shorter series reads as neutral (50).
func RSI(s model.NavSeries, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(s) < period+1 {
		return 50, nil
	}
	out := talib.Rsi(s.Floats(), period)
	return round2(out[len(out)-1]), nil
}

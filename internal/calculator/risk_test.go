package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NAVigator/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// navs builds a daily series starting 2024-01-01 from the given values.
func navs(values ...float64) model.NavSeries {
	s := make(model.NavSeries, len(values))
	for i, v := range values {
		s[i] = model.NavPoint{Date: day(2024, 1, 1).AddDate(0, 0, i), NAV: decimal.NewFromFloat(v)}
	}
	return s
}

func assertFinite(t *testing.T, r model.RiskMetricsResult) {
	t.Helper()
	for name, v := range map[string]float64{
		"beta": r.Beta, "sharpe": r.SharpeRatio, "stddev": r.StandardDeviation,
		"alpha": r.Alpha, "rSquared": r.RSquared,
	} {
		assert.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite: %v", name, v)
	}
}

func TestComputeRisk_FewerThanTwoPoints(t *testing.T) {
	cfg := DefaultRiskConfig()
	assert.Equal(t, model.RiskMetricsResult{}, ComputeRisk(nil, cfg))
	assert.Equal(t, model.RiskMetricsResult{}, ComputeRisk(model.NavSeries{}, cfg))
	assert.Equal(t, model.RiskMetricsResult{}, ComputeRisk(navs(10), cfg))
}

func TestComputeRisk_SingleReturnHasZeroStdDev(t *testing.T) {
	r := ComputeRisk(navs(10, 20), DefaultRiskConfig())
	assertFinite(t, r)
	assert.Equal(t, 0.0, r.StandardDeviation)
	assert.Equal(t, 0.0, r.SharpeRatio)
	assert.Equal(t, 0.0, r.Beta)
	assert.Equal(t, 0.0, r.RSquared)
	assert.Greater(t, r.Alpha, 0.0)
}

func TestComputeRisk_KnownValues(t *testing.T) {
	// returns +10%, -10%: mean 0, population sd 0.1
	r := ComputeRisk(navs(100, 110, 99), DefaultRiskConfig())
	assertFinite(t, r)
	assert.InDelta(t, 1.59, r.StandardDeviation, 1e-9)
	assert.InDelta(t, -0.03, r.SharpeRatio, 1e-9)
	assert.InDelta(t, -0.05, r.Alpha, 1e-9)
	assert.Equal(t, 0.0, r.Beta, "constant benchmark has zero variance")
	assert.Equal(t, 0.0, r.RSquared)
}

func TestComputeRisk_AlternateAssumptions(t *testing.T) {
	cfg := RiskConfig{RiskFreeRate: 0, MarketReturn: 0.10, TradingDays: 252}
	r := ComputeRisk(navs(100, 110, 99), cfg)
	assert.Equal(t, 0.0, r.SharpeRatio)
	assert.Equal(t, 0.0, r.Alpha)

	cfg = RiskConfig{RiskFreeRate: 0.05, MarketReturn: 0.10, TradingDays: 365}
	r = ComputeRisk(navs(100, 110, 99), cfg)
	assert.InDelta(t, 1.91, r.StandardDeviation, 1e-9) // 0.1 * sqrt(365)
}

func TestComputeRisk_ZeroTradingDaysFallsBackTo252(t *testing.T) {
	a := ComputeRisk(navs(100, 110, 99), RiskConfig{RiskFreeRate: 0.05, MarketReturn: 0.10})
	b := ComputeRisk(navs(100, 110, 99), DefaultRiskConfig())
	assert.Equal(t, b, a)
}

func TestComputeRisk_RoundsToTwoPlaces(t *testing.T) {
	r := ComputeRisk(navs(100, 100.7, 101.3, 100.9, 102.4, 103.1, 102.2, 104), DefaultRiskConfig())
	assertFinite(t, r)
	for _, v := range []float64{r.Beta, r.SharpeRatio, r.StandardDeviation, r.Alpha, r.RSquared} {
		assert.InDelta(t, math.Round(v*100)/100, v, 1e-12)
	}
	assert.Greater(t, r.StandardDeviation, 0.0)
	assert.Greater(t, r.SharpeRatio, 0.0)
}

func TestComputeRisk_Deterministic(t *testing.T) {
	s := navs(52.1, 52.4, 51.9, 53.3, 53.0, 54.2, 53.8)
	first := ComputeRisk(s, DefaultRiskConfig())
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ComputeRisk(s, DefaultRiskConfig()))
	}
}

func TestComputeRisk_FlatSeries(t *testing.T) {
	r := ComputeRisk(navs(10, 10, 10, 10), DefaultRiskConfig())
	assertFinite(t, r)
	assert.Equal(t, 0.0, r.StandardDeviation)
	assert.Equal(t, 0.0, r.SharpeRatio)
	assert.InDelta(t, -0.05, r.Alpha, 1e-9)
}

func TestBenchmarkReturns(t *testing.T) {
	b := BenchmarkReturns(3, DefaultRiskConfig())
	require.Len(t, b, 3)
	for _, v := range b {
		assert.InDelta(t, 0.10/252, v, 1e-15)
	}
}

func TestDailyReturns(t *testing.T) {
	assert.Empty(t, DailyReturns(nil))
	assert.Empty(t, DailyReturns([]float64{5}))
	r := DailyReturns([]float64{10, 20, 10})
	require.Len(t, r, 2)
	assert.InDelta(t, 1.0, r[0], 1e-12)
	assert.InDelta(t, -0.5, r[1], 1e-12)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, round2(1.235))
	assert.Equal(t, -1.24, round2(-1.235))
	assert.Equal(t, 0.0, round2(math.NaN()))
	assert.Equal(t, 0.0, round2(math.Inf(1)))
}

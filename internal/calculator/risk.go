package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"NAVigator/internal/model"
)

// RiskConfig holds the policy constants of the risk model.
type RiskConfig struct {
	RiskFreeRate float64 // annual
	MarketReturn float64 // annual, drives the synthetic benchmark
	TradingDays  int     // annualization factor
}

// DefaultRiskConfig returns 5% risk-free, 10% market, 252 trading days.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{RiskFreeRate: 0.05, MarketReturn: 0.10, TradingDays: 252}
}

func (c RiskConfig) tradingDays() float64 {
	if c.TradingDays <= 0 {
		return 252
	}
	return float64(c.TradingDays)
}

// BenchmarkReturns is the synthetic daily market series: n copies of MarketReturn/TradingDays.
func BenchmarkReturns(n int, cfg RiskConfig) []float64 {
	daily := cfg.MarketReturn / cfg.tradingDays()
	out := make([]float64, n)
	for i := range out {
		out[i] = daily
	}
	return out
}

// ComputeRisk derives beta, Sharpe ratio, annualized standard deviation, alpha and R-squared
// from the daily returns of s against the synthetic benchmark. Results are rounded to 2 places.
//
// Fewer than two points yield the zero result. Ratios whose denominator is zero are reported
// as 0 instead of NaN/Inf: the benchmark is constant, so its variance is zero and beta is
// always 0; a flat series has Sharpe 0; R-squared of an undefined correlation is 0.
func ComputeRisk(s model.NavSeries, cfg RiskConfig) model.RiskMetricsResult {
	if len(s) < 2 {
		return model.RiskMetricsResult{}
	}
	days := cfg.tradingDays()

	returns := DailyReturns(s.Floats())
	mean, variance := stat.PopMeanVariance(returns, nil)
	annualizedStdDev := math.Sqrt(variance) * math.Sqrt(days)

	benchmark := BenchmarkReturns(len(returns), cfg)
	var beta float64
	if benchVar := stat.PopVariance(benchmark, nil); benchVar > varianceEpsilon {
		beta = popCovariance(returns, benchmark) / benchVar
	}

	annualizedReturn := math.Pow(1+mean, days) - 1

	var sharpe float64
	if annualizedStdDev > 0 {
		sharpe = (annualizedReturn - cfg.RiskFreeRate) / annualizedStdDev
	}

	alpha := annualizedReturn - (cfg.RiskFreeRate + beta*(cfg.MarketReturn-cfg.RiskFreeRate))

	var rSquared float64
	if r := correlation(returns, benchmark); !math.IsNaN(r) {
		rSquared = r * r
	}

	return model.RiskMetricsResult{
		Beta:              round2(beta),
		SharpeRatio:       round2(sharpe),
		StandardDeviation: round2(annualizedStdDev),
		Alpha:             round2(alpha),
		RSquared:          round2(rSquared),
	}
}

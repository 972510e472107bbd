package calculator

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// varianceEpsilon treats variances below it as zero. A constant series can
// otherwise leave a rounding residue in the order of 1e-38.
const varianceEpsilon = 1e-20

// DailyReturns converts prices to simple period returns:
// r[i] = (p[i+1] - p[i]) / p[i]. Length is len(prices)-1.
func DailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return returns
}

// popCovariance is the biased (divide by n) covariance; gonum only offers the unbiased one.
func popCovariance(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	mx := stat.Mean(x, nil)
	my := stat.Mean(y, nil)
	var sum float64
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x))
}

// correlation is the Pearson coefficient, or NaN when either side has no variance.
func correlation(x, y []float64) float64 {
	vx := stat.PopVariance(x, nil)
	vy := stat.PopVariance(y, nil)
	if vx <= varianceEpsilon || vy <= varianceEpsilon {
		return math.NaN()
	}
	return popCovariance(x, y) / (math.Sqrt(vx) * math.Sqrt(vy))
}

// round2 rounds half away from zero to two decimals. Non-finite input yields 0.
func round2(x float64) float64 {
	return roundTo(x, 2)
}

func roundTo(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

package model

import "time"

// RiskMetricsResult holds the rounded risk statistics of a series.
type RiskMetricsResult struct {
	Beta              float64 `json:"beta"`
	SharpeRatio       float64 `json:"sharpeRatio"`
	StandardDeviation float64 `json:"standardDeviation"`
	Alpha             float64 `json:"alpha"`
	RSquared          float64 `json:"rSquared"`
}

// NavStats summarizes a charted window.
type NavStats struct {
	First         float64   `json:"first"`
	Last          float64   `json:"last"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	High          float64   `json:"high"`
	HighDate      time.Time `json:"highDate"`
	Low           float64   `json:"low"`
	LowDate       time.Time `json:"lowDate"`
	Positive      bool      `json:"positive"`
}

// OverlayPoint is one point of a moving-average overlay.
type OverlayPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ChartView is everything needed to chart a scheme over a window.
type ChartView struct {
	Scheme  SchemeMeta     `json:"scheme"`
	Window  string         `json:"window"`
	Points  NavSeries      `json:"points"`
	Stats   NavStats       `json:"stats"`
	Overlay []OverlayPoint `json:"overlay,omitempty"`
}

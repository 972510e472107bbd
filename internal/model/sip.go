package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the contribution cadence of a SIP.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// SipSchedule describes recurring contributions. Zero Start/End default to the series bounds.
type SipSchedule struct {
	Amount    decimal.Decimal `json:"amount"`
	Frequency Frequency       `json:"frequency"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
}

// Installment is one executed contribution.
type Installment struct {
	ScheduledDate time.Time       `json:"scheduledDate"`
	Date          time.Time       `json:"date"`
	NAV           decimal.Decimal `json:"nav"`
	Units         decimal.Decimal `json:"units"`
	Amount        decimal.Decimal `json:"amount"`
}

// SipResult is the projection of a schedule against a series.
type SipResult struct {
	TotalInvested    decimal.Decimal `json:"totalInvested"`
	UnitsAccumulated decimal.Decimal `json:"unitsAccumulated"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	AbsoluteReturn   float64         `json:"absoluteReturn"`
	AnnualizedReturn float64         `json:"annualizedReturn"`
	Installments     []Installment   `json:"installments"`
}

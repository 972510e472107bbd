package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"NAVigator/internal/model"
	"NAVigator/internal/series"
)

// ErrInvalidSchedule is returned when a SIP schedule cannot be simulated.
var ErrInvalidSchedule = errors.New("invalid sip schedule")

const daysPerYear = 365.25

// ProjectSIP buys Amount/NAV units on each scheduled date, using the first NAV on or after
// the date. Scheduled dates outside the series are skipped. The holding is valued at the
// most recent NAV of s.
func ProjectSIP(s model.NavSeries, sched model.SipSchedule) (model.SipResult, error) {
	if err := validateSchedule(sched); err != nil {
		return model.SipResult{}, err
	}

	res := model.SipResult{
		TotalInvested:    decimal.Zero,
		UnitsAccumulated: decimal.Zero,
		CurrentValue:     decimal.Zero,
		Installments:     []model.Installment{},
	}
	first, ok := s.First()
	if !ok {
		return res, nil
	}
	last, _ := s.Last()

	start, end := sched.Start, sched.End
	if start.IsZero() {
		start = first.Date
	}
	if end.IsZero() {
		end = last.Date
	}

	for k := 0; ; k++ {
		due := scheduledDate(start, sched.Frequency, k)
		if due.After(end) {
			break
		}
		if due.Before(first.Date) || due.After(last.Date) {
			continue
		}
		idx := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(due) })
		p := s[idx]
		units := sched.Amount.Div(p.NAV)
		res.Installments = append(res.Installments, model.Installment{
			ScheduledDate: due,
			Date:          p.Date,
			NAV:           p.NAV,
			Units:         units,
			Amount:        sched.Amount,
		})
		res.TotalInvested = res.TotalInvested.Add(sched.Amount)
		res.UnitsAccumulated = res.UnitsAccumulated.Add(units)
	}

	if res.TotalInvested.IsZero() {
		return res, nil
	}

	res.CurrentValue = res.UnitsAccumulated.Mul(last.NAV).Round(2)
	res.AbsoluteReturn, _ = res.CurrentValue.Sub(res.TotalInvested).Div(res.TotalInvested).Float64()

	elapsed := last.Date.Sub(res.Installments[0].Date).Hours() / 24
	if elapsed < 1 {
		res.AnnualizedReturn = res.AbsoluteReturn
		return res, nil
	}
	growth, _ := res.CurrentValue.Div(res.TotalInvested).Float64()
	res.AnnualizedReturn = math.Pow(growth, daysPerYear/elapsed) - 1
	return res, nil
}

func validateSchedule(sched model.SipSchedule) error {
	if !sched.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidSchedule, sched.Amount)
	}
	switch sched.Frequency {
	case model.FrequencyWeekly, model.FrequencyMonthly, model.FrequencyQuarterly:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, sched.Frequency)
	}
	if !sched.Start.IsZero() && !sched.End.IsZero() && sched.End.Before(sched.Start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidSchedule,
			sched.End.Format(model.DateLayout), sched.Start.Format(model.DateLayout))
	}
	return nil
}

// scheduledDate returns the k-th contribution date, always derived from start so
// month-end clamping does not drift.
func scheduledDate(start time.Time, f model.Frequency, k int) time.Time {
	switch f {
	case model.FrequencyWeekly:
		return start.AddDate(0, 0, 7*k)
	case model.FrequencyQuarterly:
		return series.AddMonths(start, 3*k)
	default:
		return series.AddMonths(start, k)
	}
}

// ParseFrequency maps user text to a Frequency. Empty means monthly.
func ParseFrequency(s string) (model.Frequency, error) {
	switch f := model.Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return model.FrequencyMonthly, nil
	case model.FrequencyWeekly, model.FrequencyMonthly, model.FrequencyQuarterly:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, s)
	}
}

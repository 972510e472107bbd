package series

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NAVigator/internal/model"
)

// dailySeries builds one point per calendar day from start, inclusive of n days.
func dailySeries(start time.Time, n int) model.NavSeries {
	s := make(model.NavSeries, n)
	for i := 0; i < n; i++ {
		s[i] = model.NavPoint{Date: start.AddDate(0, 0, i), NAV: decimal.NewFromInt(int64(10 + i))}
	}
	return s
}

func TestParseRangeWindow(t *testing.T) {
	tests := []struct {
		in   string
		want model.RangeWindow
	}{
		{"1M", model.RangeWindow{Period: model.Period1M}},
		{"1y", model.RangeWindow{Period: model.Period1Y}},
		{"ALL", model.RangeWindow{Period: model.PeriodAll}},
		{"", model.RangeWindow{Period: model.PeriodAll}},
		{"2023-01-01..2023-06-30", model.RangeWindow{Start: day(2023, 1, 1), End: day(2023, 6, 30)}},
		{"2023-01-01..", model.RangeWindow{Start: day(2023, 1, 1)}},
		{"..2023-6-3", model.RangeWindow{End: day(2023, 6, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRangeWindow(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRangeWindow_Invalid(t *testing.T) {
	for _, in := range []string{"2W", "10Y", "2023-13-01..", "2023-06-01..2023-01-01", "yesterday"} {
		_, err := ParseRangeWindow(in)
		assert.Truef(t, errors.Is(err, ErrInvalidRange), "input %q: got %v", in, err)
	}
}

func TestFilter_RelativeCutoffIsInclusive(t *testing.T) {
	s := dailySeries(day(2024, 1, 1), 60) // 2024-01-01 .. 2024-02-29
	got := Filter(s, model.RangeWindow{Period: model.Period1M})
	require.NotEmpty(t, got)
	assert.Equal(t, day(2024, 1, 29), got[0].Date)
	assert.Equal(t, day(2024, 2, 29), got[len(got)-1].Date)
	assert.Len(t, got, 32)
}

func TestFilter_MonthEndClamp(t *testing.T) {
	s := dailySeries(day(2024, 1, 1), 91) // ends 2024-03-31
	got := Filter(s, model.RangeWindow{Period: model.Period1M})
	require.NotEmpty(t, got)
	assert.Equal(t, day(2024, 2, 29), got[0].Date)
}

func TestFilter_All(t *testing.T) {
	s := dailySeries(day(2020, 1, 1), 10)
	got := Filter(s, model.RangeWindow{Period: model.PeriodAll})
	assert.Equal(t, s, got)
	got[0].NAV = decimal.NewFromInt(999)
	assert.Equal(t, "10", s[0].NAV.String(), "ALL must return a copy")
}

func TestFilter_ExplicitBoundsInclusive(t *testing.T) {
	s := dailySeries(day(2024, 1, 1), 10)
	got := Filter(s, model.RangeWindow{Start: day(2024, 1, 3), End: day(2024, 1, 5)})
	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 3), got[0].Date)
	assert.Equal(t, day(2024, 1, 5), got[2].Date)
}

func TestFilter_OpenBounds(t *testing.T) {
	s := dailySeries(day(2024, 1, 1), 10)
	assert.Len(t, Filter(s, model.RangeWindow{Start: day(2024, 1, 8)}), 3)
	assert.Len(t, Filter(s, model.RangeWindow{End: day(2024, 1, 2)}), 2)
}

func TestFilter_Idempotent(t *testing.T) {
	s := dailySeries(day(2019, 3, 15), 2000)
	windows := []model.RangeWindow{
		{Period: model.Period1M}, {Period: model.Period3M}, {Period: model.Period6M},
		{Period: model.Period1Y}, {Period: model.Period3Y}, {Period: model.Period5Y},
		{Period: model.PeriodAll},
		{Start: day(2020, 1, 1), End: day(2021, 1, 1)},
	}
	for _, w := range windows {
		t.Run(w.String(), func(t *testing.T) {
			once := Filter(s, w)
			assert.Equal(t, once, Filter(once, w))
		})
	}
}

func TestFilter_SmallResultsReturnedAsIs(t *testing.T) {
	assert.Empty(t, Filter(nil, model.RangeWindow{Period: model.Period1Y}))

	single := dailySeries(day(2024, 1, 1), 1)
	assert.Equal(t, single, Filter(single, model.RangeWindow{Period: model.Period1M}))

	s := dailySeries(day(2024, 1, 1), 5)
	assert.Empty(t, Filter(s, model.RangeWindow{Start: day(2025, 1, 1)}))
}

func TestFilter_DoesNotMutateSource(t *testing.T) {
	s := dailySeries(day(2024, 1, 1), 40)
	before := s.Clone()
	_ = Filter(s, model.RangeWindow{Period: model.Period1M})
	assert.Equal(t, before, s)
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, day(2023, 2, 28), AddMonths(day(2023, 3, 31), -1))
	assert.Equal(t, day(2023, 2, 28), AddMonths(day(2024, 2, 29), -12))
	assert.Equal(t, day(2021, 12, 15), AddMonths(day(2022, 1, 15), -1))
	assert.Equal(t, day(2024, 4, 30), AddMonths(day(2024, 1, 31), 3))
}

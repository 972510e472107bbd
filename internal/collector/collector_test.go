package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NAVigator/internal/calculator"
	"NAVigator/internal/model"
)

func newTestCollector(m *MockFetcher) *Collector {
	return NewCollector(NewCachedFetcher(m), calculator.DefaultRiskConfig(), zerolog.Nop())
}

func TestCollector_SeriesIsNormalizedAndFiltered(t *testing.T) {
	c := newTestCollector(newMock())

	meta, all, err := c.Series(context.Background(), 100, model.RangeWindow{Period: model.PeriodAll})
	require.NoError(t, err)
	assert.Equal(t, 100, meta.SchemeCode)
	require.Len(t, all, 400)
	for i := 1; i < len(all); i++ {
		require.True(t, all[i-1].Date.Before(all[i].Date))
	}

	_, month, err := c.Series(context.Background(), 100, model.RangeWindow{Period: model.Period1M})
	require.NoError(t, err)
	first, _ := month.First()
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), first.Date)
}

func TestCollector_Chart(t *testing.T) {
	c := newTestCollector(newMock())

	view, err := c.Chart(context.Background(), 100, model.RangeWindow{Period: model.Period3M}, 20)
	require.NoError(t, err)
	assert.Equal(t, "3M", view.Window)
	assert.NotEmpty(t, view.Points)
	assert.Len(t, view.Overlay, len(view.Points)-19)
	last, _ := view.Points.Last()
	assert.Equal(t, last.Float(), view.Stats.Last)
	assert.GreaterOrEqual(t, view.Stats.High, view.Stats.Low)
}

func TestCollector_Risk(t *testing.T) {
	c := newTestCollector(newMock())
	r, err := c.Risk(context.Background(), 100, model.RangeWindow{Period: model.Period1Y})
	require.NoError(t, err)
	assert.Greater(t, r.StandardDeviation, 0.0)
}

func TestCollector_SIP(t *testing.T) {
	c := newTestCollector(newMock())
	res, err := c.SIP(context.Background(), 100, model.SipSchedule{
		Amount:    decimal.NewFromInt(1000),
		Frequency: model.FrequencyMonthly,
		Start:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, res.Installments, 12)
	assert.Equal(t, "12000", res.TotalInvested.String())

	_, err = c.SIP(context.Background(), 100, model.SipSchedule{Amount: decimal.Zero, Frequency: model.FrequencyMonthly})
	assert.ErrorIs(t, err, calculator.ErrInvalidSchedule)
}

func TestCollector_FetchFailurePropagates(t *testing.T) {
	m := newMock()
	m.Err = errors.New("dial tcp: connection refused")
	c := newTestCollector(m)

	_, err := c.Chart(context.Background(), 100, model.RangeWindow{Period: model.Period1Y}, 0)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "scheme/100", fe.Request.Key())

	_, err = c.Schemes(context.Background())
	assert.ErrorAs(t, err, &fe)
}

func TestCollector_SharesCacheAcrossOperations(t *testing.T) {
	m := newMock()
	c := newTestCollector(m)
	ctx := context.Background()

	_, err := c.Chart(ctx, 100, model.RangeWindow{Period: model.Period1Y}, 0)
	require.NoError(t, err)
	_, err = c.Risk(ctx, 100, model.RangeWindow{Period: model.Period3M})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Calls(KindHistory))
}

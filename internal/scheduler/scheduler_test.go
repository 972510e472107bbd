package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NAVigator/internal/calculator"
	"NAVigator/internal/collector"
	"NAVigator/internal/model"
	"NAVigator/internal/recorder"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func (c *captureNotifier) SendWithRetry(ctx context.Context, text string, _ int) error {
	return c.Send(ctx, text)
}

func (c *captureNotifier) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func newTestScheduler(t *testing.T) (*Scheduler, *captureNotifier, *collector.MockFetcher) {
	t.Helper()
	mock := &collector.MockFetcher{}
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	mock.AddScheme(model.SchemeMeta{SchemeCode: 100, SchemeName: "Alpha Flexi Cap Fund - Direct Plan - Growth", SchemeCategory: "Equity Scheme"},
		collector.GenerateHistory(end, 800, 40))
	mock.AddScheme(model.SchemeMeta{SchemeCode: 200, SchemeName: "Beta Liquid Fund - Direct Plan - Growth"},
		collector.GenerateHistory(end, 400, 1500))

	cache := collector.NewCachedFetcher(mock)
	col := collector.NewCollector(cache, calculator.DefaultRiskConfig(), zerolog.Nop())
	n := &captureNotifier{}
	s := NewScheduler(context.Background(), col, cache, n, recorder.NewNoopRecorder(), zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC) }
	return s, n, mock
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.RegisterAll("0 * * * * *", "0 0 20 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 2)

	s, _, _ = newTestScheduler(t)
	assert.ErrorContains(t, s.RegisterAll("nope", "0 0 20 * * 1-5"), "sweep")
	assert.ErrorContains(t, s.RegisterAll("0 * * * * *", "nope"), "digest")
}

func TestBuildDigest_FailureIsolated(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.Watchlist = []int{100, 999, 200}

	entries := s.BuildDigest(context.Background())
	require.Len(t, entries, 3)

	assert.Equal(t, 100, entries[0].Code)
	assert.NoError(t, entries[0].Err)
	assert.Equal(t, "Alpha Flexi Cap Fund - Direct Plan - Growth", entries[0].Name)
	assert.Equal(t, "1Y", entries[0].Window)
	assert.NotZero(t, entries[0].Stats.Last)
	assert.InDelta(t, 50, entries[0].RSI, 50)

	var fe *collector.FetchError
	assert.ErrorAs(t, entries[1].Err, &fe)

	assert.NoError(t, entries[2].Err)
	assert.Equal(t, 200, entries[2].Code)
}

func TestRunDigestNow_Sends(t *testing.T) {
	s, n, _ := newTestScheduler(t)
	s.Watchlist = []int{100}

	report := s.RunDigestNow()
	assert.Contains(t, report, "2024-06-03")
	assert.Contains(t, report, "Alpha Flexi Cap")
	assert.Equal(t, []string{report}, n.messages())
}

func TestHandleCommand_Risk(t *testing.T) {
	s, _, mock := newTestScheduler(t)
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/risk 100")
	assert.Contains(t, reply, "Alpha Flexi Cap")
	assert.Contains(t, reply, "Window: 1Y")
	assert.Contains(t, reply, "Sharpe")

	reply = s.HandleCommand(ctx, "/risk@navigator_bot 100 3m")
	assert.Contains(t, reply, "Window: 3M")
	assert.Equal(t, 1, mock.Calls(collector.KindHistory), "second command served from cache")

	assert.Contains(t, s.HandleCommand(ctx, "/risk abc"), "invalid scheme code")
	assert.Contains(t, s.HandleCommand(ctx, "/risk 100 2W"), "invalid range")
	assert.Contains(t, s.HandleCommand(ctx, "/risk 999"), "failed to fetch scheme details")
	assert.Contains(t, s.HandleCommand(ctx, "/risk"), "usage")
}

func TestHandleCommand_SIP(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/sip 100 1000 2023-06-01 2024-05-01")
	assert.Contains(t, reply, "₹1000.00 monthly")
	assert.Contains(t, reply, "(12 installments)")
	assert.Contains(t, reply, "Invested: ₹12000.00")

	reply = s.HandleCommand(ctx, "/sip 100 500 2024-05-01 weekly")
	assert.Contains(t, reply, "₹500.00 weekly")

	assert.Contains(t, s.HandleCommand(ctx, "/sip 100 0 2024-01-01"), "invalid sip schedule")
	assert.Contains(t, s.HandleCommand(ctx, "/sip 100 lots 2024-01-01"), "invalid amount")
	assert.Contains(t, s.HandleCommand(ctx, "/sip 100 1000 yesterday"), "invalid start date")
	assert.Contains(t, s.HandleCommand(ctx, "/sip 100 1000 2024-01-01 daily"), "invalid sip schedule")
	assert.Contains(t, s.HandleCommand(ctx, "/sip 100"), "usage")
}

func TestHandleCommand_DigestCacheHelp(t *testing.T) {
	s, n, _ := newTestScheduler(t)
	s.Watchlist = []int{200}
	ctx := context.Background()

	assert.Empty(t, s.HandleCommand(ctx, "/digest"))
	assert.Len(t, n.messages(), 1)

	reply := s.HandleCommand(ctx, "/cache")
	assert.Contains(t, reply, "Entries: 1")
	assert.Contains(t, reply, "Misses: 1")

	assert.Contains(t, s.HandleCommand(ctx, "hello"), "Available commands")
	assert.Contains(t, s.HandleCommand(ctx, "   "), "Available commands")
}

func TestSweepTask(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	_, _, err := s.Collector.Series(context.Background(), 100, model.RangeWindow{Period: model.PeriodAll})
	require.NoError(t, err)
	require.Equal(t, 1, s.Cache.Stats().Entries)

	s.sweepTask() // entry still fresh
	assert.Equal(t, 1, s.Cache.Stats().Entries)
}

package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"NAVigator/internal/calculator"
	"NAVigator/internal/model"
	"NAVigator/internal/series"
)

// MockFetcher returns controllable fixed data for development and testing.
// Every call returns a fresh copy so callers can tell cached payloads apart.
type MockFetcher struct {
	SchemeList []model.Scheme
	Details    map[int]*model.SchemeDetails
	Err        error
	Delay      time.Duration

	mu    sync.Mutex
	calls map[RequestKind]int
}

func (m *MockFetcher) Name() string { return "mock" }

// AddScheme registers a scheme with its history (newest first, as mfapi serves it).
func (m *MockFetcher) AddScheme(meta model.SchemeMeta, data []model.RawNavRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Details == nil {
		m.Details = make(map[int]*model.SchemeDetails)
	}
	m.Details[meta.SchemeCode] = &model.SchemeDetails{Meta: meta, Data: data, Status: "SUCCESS"}
	m.SchemeList = append(m.SchemeList, model.Scheme{SchemeCode: meta.SchemeCode, SchemeName: meta.SchemeName})
}

// Calls reports how many remote calls of the given kind were made.
func (m *MockFetcher) Calls(kind RequestKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[kind]
}

func (m *MockFetcher) begin(ctx context.Context, kind RequestKind) error {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[RequestKind]int)
	}
	m.calls[kind]++
	err := m.Err
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *MockFetcher) FetchSchemes(ctx context.Context) ([]model.Scheme, error) {
	if err := m.begin(ctx, KindSchemes); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Scheme, len(m.SchemeList))
	copy(out, m.SchemeList)
	return out, nil
}

func (m *MockFetcher) FetchLatestNAV(ctx context.Context, code int) (*model.SchemeDetails, error) {
	if err := m.begin(ctx, KindLatest); err != nil {
		return nil, err
	}
	d, err := m.lookup(code, LatestRequest(code))
	if err != nil {
		return nil, err
	}
	if len(d.Data) > 1 {
		d.Data = d.Data[:1]
	}
	return d, nil
}

func (m *MockFetcher) FetchHistoricalNAV(ctx context.Context, code int) (*model.SchemeDetails, error) {
	if err := m.begin(ctx, KindHistory); err != nil {
		return nil, err
	}
	return m.lookup(code, HistoricalRequest(code))
}

func (m *MockFetcher) lookup(code int, r Request) (*model.SchemeDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Details[code]
	if !ok {
		return nil, &FetchError{Request: r, StatusCode: 404, Err: fmt.Errorf("scheme %d not found", code)}
	}
	cp := *d
	cp.Data = append([]model.RawNavRecord(nil), d.Data...)
	return &cp, nil
}

// GenerateHistory builds days of daily NAV rows ending at end, newest first.
// Values drift upward with a weekly wobble.
func GenerateHistory(end time.Time, days int, base float64) []model.RawNavRecord {
	rows := make([]model.RawNavRecord, days)
	for i := 0; i < days; i++ {
		age := days - 1 - i
		p := base * (1 + float64(age)*0.0005 + 0.01*math.Sin(float64(age)/7))
		rows[i] = model.RawNavRecord{
			Date: end.AddDate(0, 0, -i).Format("02-01-2006"),
			NAV:  fmt.Sprintf("%.4f", p),
		}
	}
	return rows
}

// Collector runs the analytics pipeline on top of a Fetcher:
// fetch, normalize, filter, compute.
type Collector struct {
	Fetcher    Fetcher
	RiskConfig calculator.RiskConfig
	log        zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, risk calculator.RiskConfig, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		RiskConfig: risk,
		log:        log.With().Str("component", "collector").Logger(),
	}
}

func (c *Collector) Schemes(ctx context.Context) ([]model.Scheme, error) {
	schemes, err := c.Fetcher.FetchSchemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch schemes: %w", err)
	}
	return schemes, nil
}

func (c *Collector) Latest(ctx context.Context, code int) (*model.SchemeDetails, error) {
	d, err := c.Fetcher.FetchLatestNAV(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetch latest nav: %w", err)
	}
	return d, nil
}

// Series returns the scheme metadata and its normalized NAV series restricted to w.
func (c *Collector) Series(ctx context.Context, code int, w model.RangeWindow) (model.SchemeMeta, model.NavSeries, error) {
	d, err := c.Fetcher.FetchHistoricalNAV(ctx, code)
	if err != nil {
		return model.SchemeMeta{}, nil, fmt.Errorf("fetch historical nav: %w", err)
	}
	full := series.Normalize(d.Data)
	if dropped := len(d.Data) - len(full); dropped > 0 {
		c.log.Debug().Int("scheme", code).Int("dropped", dropped).Msg("rows dropped during normalization")
	}
	return d.Meta, series.Filter(full, w), nil
}

// Chart builds the chart payload for a window. smaPeriod <= 1 disables the overlay.
func (c *Collector) Chart(ctx context.Context, code int, w model.RangeWindow, smaPeriod int) (*model.ChartView, error) {
	meta, s, err := c.Series(ctx, code, w)
	if err != nil {
		return nil, err
	}
	return &model.ChartView{
		Scheme:  meta,
		Window:  w.String(),
		Points:  s,
		Stats:   calculator.ComputeNavStats(s),
		Overlay: calculator.MovingAverage(s, smaPeriod),
	}, nil
}

func (c *Collector) Risk(ctx context.Context, code int, w model.RangeWindow) (model.RiskMetricsResult, error) {
	_, s, err := c.Series(ctx, code, w)
	if err != nil {
		return model.RiskMetricsResult{}, err
	}
	return calculator.ComputeRisk(s, c.RiskConfig), nil
}

// SIP projects sched against the scheme's full history.
func (c *Collector) SIP(ctx context.Context, code int, sched model.SipSchedule) (model.SipResult, error) {
	_, s, err := c.Series(ctx, code, model.RangeWindow{Period: model.PeriodAll})
	if err != nil {
		return model.SipResult{}, err
	}
	res, err := calculator.ProjectSIP(s, sched)
	if err != nil {
		return model.SipResult{}, fmt.Errorf("project sip: %w", err)
	}
	return res, nil
}

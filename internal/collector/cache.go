package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"NAVigator/internal/model"
	"NAVigator/internal/recorder"
)

// DefaultTTL is how long a fetched payload stays fresh.
const DefaultTTL = 5 * time.Minute

// CacheEntry is one stored payload.
type CacheEntry struct {
	Key      string
	Payload  any
	StoredAt time.Time
}

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Errors  uint64 `json:"errors"`
}

// CachedFetcher wraps a Fetcher with a per-request TTL cache. A failed
// remote call is returned to the caller; expired entries are never served.
//
// Payloads are shared between callers and must be treated as read-only.
type CachedFetcher struct {
	next     Fetcher
	ttl      time.Duration
	now      func() time.Time
	recorder recorder.Recorder
	log      zerolog.Logger
	dedupe   bool
	group    singleflight.Group

	mu      sync.RWMutex
	entries map[string]CacheEntry

	hits   atomic.Uint64
	misses atomic.Uint64
	errs   atomic.Uint64
}

// CacheOption configures a CachedFetcher.
type CacheOption func(*CachedFetcher)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) CacheOption {
	return func(c *CachedFetcher) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock injects the time source used for freshness checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedFetcher) { c.now = now }
}

func WithRecorder(r recorder.Recorder) CacheOption {
	return func(c *CachedFetcher) { c.recorder = r }
}

func WithLogger(l zerolog.Logger) CacheOption {
	return func(c *CachedFetcher) { c.log = l.With().Str("component", "cache").Logger() }
}

// WithInflightDedupe makes concurrent misses for the same key share one
// remote call. Off by default: each miss calls the source and the last
// response to arrive is the one stored.
func WithInflightDedupe(on bool) CacheOption {
	return func(c *CachedFetcher) { c.dedupe = on }
}

// NewCachedFetcher wraps next.
func NewCachedFetcher(next Fetcher, opts ...CacheOption) *CachedFetcher {
	c := &CachedFetcher{
		next:    next,
		ttl:     DefaultTTL,
		now:     time.Now,
		log:     zerolog.Nop(),
		entries: make(map[string]CacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedFetcher) Name() string { return c.next.Name() }

// TTL returns the freshness window.
func (c *CachedFetcher) TTL() time.Duration { return c.ttl }

// Fetch serves r from the cache when a fresh entry exists, otherwise calls
// the wrapped source exactly once and stores the result on success.
func (c *CachedFetcher) Fetch(ctx context.Context, r Request) (any, error) {
	key := r.Key()
	started := time.Now()

	if payload, ok := c.lookup(key); ok {
		c.hits.Add(1)
		c.record(key, recorder.OutcomeHit, started, nil)
		return payload, nil
	}
	c.misses.Add(1)

	var (
		payload any
		err     error
	)
	if c.dedupe {
		payload, err, _ = c.group.Do(key, func() (any, error) { return c.load(ctx, r) })
	} else {
		payload, err = c.load(ctx, r)
	}
	if err != nil {
		c.errs.Add(1)
		c.record(key, recorder.OutcomeError, started, err)
		return nil, err
	}
	c.record(key, recorder.OutcomeMiss, started, nil)
	return payload, nil
}

func (c *CachedFetcher) FetchSchemes(ctx context.Context) ([]model.Scheme, error) {
	v, err := c.Fetch(ctx, SchemesRequest())
	if err != nil {
		return nil, err
	}
	schemes, ok := v.([]model.Scheme)
	if !ok {
		return nil, fmt.Errorf("cache: unexpected payload %T for schemes", v)
	}
	return schemes, nil
}

func (c *CachedFetcher) FetchLatestNAV(ctx context.Context, code int) (*model.SchemeDetails, error) {
	return c.details(ctx, LatestRequest(code))
}

func (c *CachedFetcher) FetchHistoricalNAV(ctx context.Context, code int) (*model.SchemeDetails, error) {
	return c.details(ctx, HistoricalRequest(code))
}

func (c *CachedFetcher) details(ctx context.Context, r Request) (*model.SchemeDetails, error) {
	v, err := c.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*model.SchemeDetails)
	if !ok {
		return nil, fmt.Errorf("cache: unexpected payload %T for %s", v, r.Key())
	}
	return d, nil
}

// Sweep evicts expired entries and returns how many were removed.
func (c *CachedFetcher) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !c.fresh(e) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *CachedFetcher) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return CacheStats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Errors:  c.errs.Load(),
	}
}

func (c *CachedFetcher) lookup(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.fresh(e) {
		return nil, false
	}
	return e.Payload, true
}

func (c *CachedFetcher) fresh(e CacheEntry) bool {
	return c.now().Sub(e.StoredAt) < c.ttl
}

func (c *CachedFetcher) load(ctx context.Context, r Request) (any, error) {
	payload, err := c.call(ctx, r)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{Request: r, Err: err}
		}
		return nil, err
	}

	key := r.Key()
	c.mu.Lock()
	c.entries[key] = CacheEntry{Key: key, Payload: payload, StoredAt: c.now()}
	c.mu.Unlock()
	return payload, nil
}

func (c *CachedFetcher) call(ctx context.Context, r Request) (any, error) {
	switch r.Kind {
	case KindSchemes:
		return c.next.FetchSchemes(ctx)
	case KindLatest:
		return c.next.FetchLatestNAV(ctx, r.SchemeCode)
	case KindHistory:
		return c.next.FetchHistoricalNAV(ctx, r.SchemeCode)
	}
	return nil, fmt.Errorf("unknown request kind %q", r.Kind)
}

func (c *CachedFetcher) record(key string, outcome recorder.Outcome, started time.Time, err error) {
	evt := c.log.Debug()
	if err != nil {
		evt = c.log.Warn().Err(err)
	}
	evt.Str("key", key).Str("outcome", string(outcome)).Dur("took", time.Since(started)).Msg("fetch")

	if c.recorder == nil {
		return
	}
	fe := &recorder.FetchEvent{
		At:       started,
		Key:      key,
		Source:   c.next.Name(),
		Outcome:  outcome,
		Duration: time.Since(started),
	}
	if err != nil {
		fe.Error = err.Error()
	}
	if rerr := c.recorder.RecordFetch(fe); rerr != nil {
		c.log.Warn().Err(rerr).Str("key", key).Msg("record fetch failed")
	}
}

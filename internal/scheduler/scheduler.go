package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"NAVigator/internal/calculator"
	"NAVigator/internal/collector"
	"NAVigator/internal/model"
	"NAVigator/internal/notifier"
	"NAVigator/internal/recorder"
	"NAVigator/internal/series"
)

// digestConcurrency bounds concurrent scheme fetches while building a digest.
const digestConcurrency = 4

// Scheduler manages the cron tasks and answers Telegram commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Cache     *collector.CachedFetcher
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Watchlist []int
	Window    model.RangeWindow
	Ctx       context.Context

	now func() time.Time
	log zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, cache *collector.CachedFetcher,
	n notifier.Notifier, rec recorder.Recorder, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Cache:     cache,
		Notifier:  n,
		Recorder:  rec,
		Window:    model.RangeWindow{Period: model.Period1Y},
		Ctx:       ctx,
		now:       time.Now,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the cache sweep and the watchlist digest.
func (s *Scheduler) RegisterAll(sweepCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunDigestNow builds and sends the digest immediately and returns its text.
func (s *Scheduler) RunDigestNow() string {
	return s.digest()
}

func (s *Scheduler) sweepTask() {
	if n := s.Cache.Sweep(); n > 0 {
		s.log.Debug().Int("evicted", n).Msg("cache sweep")
	}
}

func (s *Scheduler) digestTask() {
	s.log.Info().Ints("schemes", s.Watchlist).Msg("running digest task")
	s.digest()
}

func (s *Scheduler) digest() string {
	report := notifier.FormatDigest(s.now(), s.BuildDigest(s.Ctx))
	s.trySend(report)
	return report
}

// BuildDigest computes stats and risk for every watchlist scheme. A failing
// scheme is reported in its entry and does not affect the others.
func (s *Scheduler) BuildDigest(ctx context.Context) []notifier.DigestEntry {
	entries := make([]notifier.DigestEntry, len(s.Watchlist))
	var g errgroup.Group
	g.SetLimit(digestConcurrency)
	for i, code := range s.Watchlist {
		g.Go(func() error {
			e := notifier.DigestEntry{Code: code, Window: s.Window.String()}
			meta, nav, err := s.Collector.Series(ctx, code, s.Window)
			if err != nil {
				s.log.Error().Err(err).Int("scheme", code).Msg("digest fetch")
				e.Err = err
			} else {
				e.Name = meta.SchemeName
				e.Stats = calculator.ComputeNavStats(nav)
				e.Risk = calculator.ComputeRisk(nav, s.Collector.RiskConfig)
				e.RSI, _ = calculator.RSI(nav, calculator.DefaultRSIPeriod)
			}
			entries[i] = e
			return nil
		})
	}
	_ = g.Wait()
	return entries
}

const helpText = "Available commands:\n" +
	"• /risk &lt;code&gt; [range]\n" +
	"• /sip &lt;code&gt; &lt;amount&gt; &lt;start&gt; [end] [weekly|monthly|quarterly]\n" +
	"• /digest\n" +
	"• /cache"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i] // "/risk@navigator_bot"
	}
	args := fields[1:]

	switch name {
	case "/risk":
		return s.riskCommand(ctx, args)
	case "/sip":
		return s.sipCommand(ctx, args)
	case "/digest":
		s.digest()
		return ""
	case "/cache":
		recent, err := s.Recorder.RecentFetches(5)
		if err != nil {
			s.log.Warn().Err(err).Msg("read fetch log")
		}
		return notifier.FormatCacheStatus(s.Cache.Stats(), s.Cache.TTL(), recent)
	default:
		return helpText
	}
}

func (s *Scheduler) riskCommand(ctx context.Context, args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return "usage: /risk &lt;code&gt; [range]"
	}
	code, err := strconv.Atoi(args[0])
	if err != nil || code <= 0 {
		return fmt.Sprintf("❌ invalid scheme code %q", args[0])
	}
	window := s.Window
	if len(args) == 2 {
		if window, err = series.ParseRangeWindow(args[1]); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
	}
	meta, nav, err := s.Collector.Series(ctx, code, window)
	if err != nil {
		s.log.Error().Err(err).Int("scheme", code).Msg("risk command")
		return "❌ failed to fetch scheme details, try again later"
	}
	return notifier.FormatRiskReport(meta, window.String(), calculator.ComputeNavStats(nav),
		calculator.ComputeRisk(nav, s.Collector.RiskConfig))
}

func (s *Scheduler) sipCommand(ctx context.Context, args []string) string {
	if len(args) < 3 || len(args) > 5 {
		return "usage: /sip &lt;code&gt; &lt;amount&gt; &lt;start&gt; [end] [frequency]"
	}
	code, err := strconv.Atoi(args[0])
	if err != nil || code <= 0 {
		return fmt.Sprintf("❌ invalid scheme code %q", args[0])
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Sprintf("❌ invalid amount %q", args[1])
	}
	sched := model.SipSchedule{Amount: amount, Frequency: model.FrequencyMonthly}
	if sched.Start, err = series.ParseDay(args[2]); err != nil {
		return fmt.Sprintf("❌ invalid start date %q", args[2])
	}
	for _, a := range args[3:] {
		if d, derr := series.ParseDay(a); derr == nil {
			sched.End = d
			continue
		}
		if sched.Frequency, err = calculator.ParseFrequency(a); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
	}

	meta, nav, err := s.Collector.Series(ctx, code, model.RangeWindow{Period: model.PeriodAll})
	if err != nil {
		s.log.Error().Err(err).Int("scheme", code).Msg("sip command")
		return "❌ failed to fetch scheme details, try again later"
	}
	res, err := calculator.ProjectSIP(nav, sched)
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	return notifier.FormatSipReport(meta, sched, res)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}

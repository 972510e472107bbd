package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"NAVigator/internal/collector"
	"NAVigator/internal/model"
	"NAVigator/internal/recorder"
)

// DigestEntry is one watchlist scheme in a digest. Err is set when the scheme could not be fetched.
type DigestEntry struct {
	Code   int
	Name   string
	Window string
	Stats  model.NavStats
	Risk   model.RiskMetricsResult
	RSI    float64
	Err    error
}

func trend(positive bool) string {
	if positive {
		return "📈"
	}
	return "📉"
}

// FormatRiskReport formats risk metrics and window stats for one scheme.
func FormatRiskReport(meta model.SchemeMeta, window string, st model.NavStats, r model.RiskMetricsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n", trend(st.Positive), html.EscapeString(meta.SchemeName))
	if meta.SchemeCategory != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n", html.EscapeString(meta.SchemeCategory))
	}
	fmt.Fprintf(&b, "Window: %s\n\n", window)

	fmt.Fprintf(&b, "NAV: %.4f → %.4f (%+.2f%%)\n", st.First, st.Last, st.ChangePercent)
	if !st.HighDate.IsZero() {
		fmt.Fprintf(&b, "High: %.4f on %s\n", st.High, st.HighDate.Format(model.DateLayout))
		fmt.Fprintf(&b, "Low: %.4f on %s\n\n", st.Low, st.LowDate.Format(model.DateLayout))
	}

	b.WriteString("⚖️ <b>Risk</b>\n")
	fmt.Fprintf(&b, "  Std dev (ann.): %.2f\n", r.StandardDeviation)
	fmt.Fprintf(&b, "  Sharpe: %.2f\n", r.SharpeRatio)
	fmt.Fprintf(&b, "  Alpha: %.2f\n", r.Alpha)
	fmt.Fprintf(&b, "  Beta: %.2f | R²: %.2f\n", r.Beta, r.RSquared)
	return b.String()
}

// FormatSipReport formats a SIP projection.
func FormatSipReport(meta model.SchemeMeta, sched model.SipSchedule, res model.SipResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <b>SIP</b> | %s\n", html.EscapeString(meta.SchemeName))
	fmt.Fprintf(&b, "₹%s %s", sched.Amount.StringFixed(2), sched.Frequency)
	if n := len(res.Installments); n > 0 {
		fmt.Fprintf(&b, " from %s to %s (%d installments)",
			res.Installments[0].Date.Format(model.DateLayout),
			res.Installments[n-1].Date.Format(model.DateLayout), n)
	}
	b.WriteString("\n\n")

	if res.TotalInvested.IsZero() {
		b.WriteString("No installment fell inside the available NAV history.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Invested: ₹%s\n", res.TotalInvested.StringFixed(2))
	fmt.Fprintf(&b, "Units: %s\n", res.UnitsAccumulated.StringFixed(4))
	fmt.Fprintf(&b, "Current value: ₹%s\n", res.CurrentValue.StringFixed(2))
	fmt.Fprintf(&b, "Absolute return: %+.2f%%\n", res.AbsoluteReturn*100)
	fmt.Fprintf(&b, "Annualized: %+.2f%%\n", res.AnnualizedReturn*100)
	return b.String()
}

// FormatDigest formats the watchlist digest.
func FormatDigest(at time.Time, entries []DigestEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>NAVigator digest</b> | %s\n\n", at.Format(model.DateLayout))
	if len(entries) == 0 {
		b.WriteString("Watchlist is empty.\n")
		return b.String()
	}
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("Scheme %d", e.Code)
		}
		if e.Err != nil {
			fmt.Fprintf(&b, "⚠️ <b>%s</b>: %s\n\n", html.EscapeString(name), html.EscapeString(e.Err.Error()))
			continue
		}
		fmt.Fprintf(&b, "%s <b>%s</b> (%d)\n", trend(e.Stats.Positive), html.EscapeString(name), e.Code)
		fmt.Fprintf(&b, "  %s: %.4f (%+.2f%%)\n", e.Window, e.Stats.Last, e.Stats.ChangePercent)
		fmt.Fprintf(&b, "  σ %.2f | Sharpe %.2f | α %.2f | RSI %.0f\n\n",
			e.Risk.StandardDeviation, e.Risk.SharpeRatio, e.Risk.Alpha, e.RSI)
	}
	return b.String()
}

// FormatCacheStatus formats cache counters and the most recent fetches.
func FormatCacheStatus(st collector.CacheStats, ttl time.Duration, recent []recorder.FetchEvent) string {
	var b strings.Builder
	b.WriteString("🗄 <b>Cache</b>\n\n")
	fmt.Fprintf(&b, "Entries: %d (ttl %s)\n", st.Entries, ttl)
	fmt.Fprintf(&b, "Hits: %d | Misses: %d | Errors: %d\n", st.Hits, st.Misses, st.Errors)
	if len(recent) > 0 {
		b.WriteString("\nRecent fetches:\n")
		for _, e := range recent {
			fmt.Fprintf(&b, "  %s %-5s %s %dms\n", e.At.Format("15:04:05"), e.Outcome, html.EscapeString(e.Key), e.Duration.Milliseconds())
		}
	}
	return b.String()
}

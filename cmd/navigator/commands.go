package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"NAVigator/internal/calculator"
	"NAVigator/internal/catalog"
	"NAVigator/internal/model"
	"NAVigator/internal/notifier"
	"NAVigator/internal/scheduler"
	"NAVigator/internal/series"
)

// --- Schemes Command ---

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List schemes, optionally filtered by fund house, plan, option or type",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		defer a.Close()

		schemes, err := a.col.Schemes(cmd.Context())
		if err != nil {
			return err
		}
		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			return printJSON(catalog.Summarize(schemes))
		}
		var f catalog.FacetFilter
		f.AMC, _ = cmd.Flags().GetStringSlice("amc")
		f.PlanType, _ = cmd.Flags().GetStringSlice("plan")
		f.DividendOption, _ = cmd.Flags().GetStringSlice("option")
		f.FundType, _ = cmd.Flags().GetStringSlice("type")
		return printJSON(catalog.Filter(schemes, f))
	},
}

func init() {
	schemesCmd.Flags().StringSlice("amc", nil, "fund house filter (repeatable)")
	schemesCmd.Flags().StringSlice("plan", nil, "plan type filter: Direct, Regular")
	schemesCmd.Flags().StringSlice("option", nil, "dividend option filter: Growth, IDCW, Other")
	schemesCmd.Flags().StringSlice("type", nil, "fund type filter: Equity, Debt, Hybrid, ...")
	schemesCmd.Flags().Bool("summary", false, "print catalogue counts instead of the list")
}

// --- NAV Command ---

var navCmd = &cobra.Command{
	Use:   "nav [code]",
	Short: "Print the NAV series of a scheme over a range, with stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := parseCode(args[0])
		if err != nil {
			return err
		}
		window, err := rangeFlag(cmd)
		if err != nil {
			return err
		}
		sma, _ := cmd.Flags().GetInt("sma")
		if sma < 0 {
			return fmt.Errorf("invalid sma period %d", sma)
		}

		a := newApp()
		defer a.Close()
		view, err := a.col.Chart(cmd.Context(), code, window, sma)
		if err != nil {
			return err
		}
		return printJSON(view)
	},
}

func init() {
	navCmd.Flags().String("range", "", "1M, 3M, 6M, 1Y, 3Y, 5Y, ALL or YYYY-MM-DD..YYYY-MM-DD (default: analytics.default_range)")
	navCmd.Flags().Int("sma", 0, "simple moving average overlay period (0 disables)")
}

// --- Risk Command ---

var riskCmd = &cobra.Command{
	Use:   "risk [code]",
	Short: "Compute risk metrics of a scheme over a range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := parseCode(args[0])
		if err != nil {
			return err
		}
		window, err := rangeFlag(cmd)
		if err != nil {
			return err
		}

		a := newApp()
		defer a.Close()
		metrics, err := a.col.Risk(cmd.Context(), code, window)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"window":  window.String(),
			"metrics": metrics,
		})
	},
}

func init() {
	riskCmd.Flags().String("range", "", "1M, 3M, 6M, 1Y, 3Y, 5Y, ALL or YYYY-MM-DD..YYYY-MM-DD (default: analytics.default_range)")
}

// --- SIP Command ---

var sipCmd = &cobra.Command{
	Use:   "sip [code]",
	Short: "Project a systematic investment plan against a scheme's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := parseCode(args[0])
		if err != nil {
			return err
		}
		sched, err := scheduleFlags(cmd)
		if err != nil {
			return err
		}

		a := newApp()
		defer a.Close()
		res, err := a.col.SIP(cmd.Context(), code, sched)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func init() {
	sipCmd.Flags().String("amount", "", "contribution per installment (required)")
	sipCmd.Flags().String("frequency", "monthly", "weekly, monthly or quarterly")
	sipCmd.Flags().String("start", "", "first installment date, YYYY-MM-DD (default: first NAV)")
	sipCmd.Flags().String("end", "", "last installment date, YYYY-MM-DD (default: latest NAV)")
	_ = sipCmd.MarkFlagRequired("amount")
}

// --- Digest Command ---

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build the watchlist digest once; --send also delivers it",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := series.ParseRangeWindow(cfg.Watchlist.Range)
		if err != nil {
			return err
		}
		send, _ := cmd.Flags().GetBool("send")

		a := newApp()
		defer a.Close()

		var n notifier.Notifier = notifier.NewLogNotifier(log)
		if send && cfg.TelegramEnabled() {
			n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sched := scheduler.NewScheduler(ctx, a.col, a.cache, n, a.rec, log)
		sched.Watchlist = cfg.Watchlist.Schemes
		sched.Window = window

		if send {
			fmt.Println(sched.RunDigestNow())
			return nil
		}
		fmt.Println(notifier.FormatDigest(time.Now(), sched.BuildDigest(ctx)))
		return nil
	},
}

func init() {
	digestCmd.Flags().Bool("send", false, "deliver the digest through the configured notifier")
}

func parseCode(s string) (int, error) {
	code, err := strconv.Atoi(s)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("invalid scheme code %q", s)
	}
	return code, nil
}

func rangeFlag(cmd *cobra.Command) (model.RangeWindow, error) {
	raw, _ := cmd.Flags().GetString("range")
	if raw == "" {
		raw = cfg.Analytics.DefaultRange
	}
	return series.ParseRangeWindow(raw)
}

func scheduleFlags(cmd *cobra.Command) (model.SipSchedule, error) {
	var sched model.SipSchedule
	raw, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return sched, fmt.Errorf("invalid amount %q", raw)
	}
	sched.Amount = amount
	freq, _ := cmd.Flags().GetString("frequency")
	if sched.Frequency, err = calculator.ParseFrequency(freq); err != nil {
		return sched, err
	}
	if v, _ := cmd.Flags().GetString("start"); v != "" {
		if sched.Start, err = series.ParseDay(v); err != nil {
			return sched, err
		}
	}
	if v, _ := cmd.Flags().GetString("end"); v != "" {
		if sched.End, err = series.ParseDay(v); err != nil {
			return sched, err
		}
	}
	return sched, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

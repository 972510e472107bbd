package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"NAVigator/internal/calculator"
	"NAVigator/internal/catalog"
	"NAVigator/internal/collector"
	"NAVigator/internal/model"
	"NAVigator/internal/series"
)

const (
	msgSchemesUnavailable = "failed to fetch mutual fund schemes, try again later"
	msgSchemeUnavailable  = "failed to fetch scheme details, try again later"
)

// Handler serves the scheme and analytics API.
type Handler struct {
	collector     *collector.Collector
	cache         *collector.CachedFetcher
	defaultWindow model.RangeWindow
	log           zerolog.Logger
}

func NewHandler(col *collector.Collector, cache *collector.CachedFetcher, defaultWindow model.RangeWindow, log zerolog.Logger) *Handler {
	if defaultWindow == (model.RangeWindow{}) {
		defaultWindow = model.RangeWindow{Period: model.Period1Y}
	}
	return &Handler{
		collector:     col,
		cache:         cache,
		defaultWindow: defaultWindow,
		log:           log.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes registers the routes under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schemes", func(r chi.Router) {
		r.Get("/", h.handleSchemes)
		r.Get("/summary", h.handleSummary)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/latest", h.handleLatest)
			r.Get("/nav", h.handleNav)
			r.Get("/risk", h.handleRisk)
			r.Get("/sip", h.handleSIP)
		})
	})
	r.Get("/cache", h.handleCache)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "navigator",
	})
}

func (h *Handler) handleSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.collector.Schemes(r.Context())
	if err != nil {
		h.fetchFailed(w, err, msgSchemesUnavailable)
		return
	}
	q := r.URL.Query()
	filtered := catalog.Filter(schemes, catalog.FacetFilter{
		AMC:            listParam(q["amc"]),
		PlanType:       listParam(q["plan"]),
		DividendOption: listParam(q["option"]),
		FundType:       listParam(q["type"]),
	})
	h.writeData(w, filtered, map[string]any{"count": len(filtered), "total": len(schemes)})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.collector.Schemes(r.Context())
	if err != nil {
		h.fetchFailed(w, err, msgSchemesUnavailable)
		return
	}
	h.writeData(w, catalog.Summarize(schemes), nil)
}

type latestResponse struct {
	Scheme model.SchemeMeta `json:"scheme"`
	Latest *model.NavPoint  `json:"latest"`
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	code, ok := h.schemeCode(w, r)
	if !ok {
		return
	}
	d, err := h.collector.Latest(r.Context(), code)
	if err != nil {
		h.fetchFailed(w, err, msgSchemeUnavailable)
		return
	}
	resp := latestResponse{Scheme: d.Meta}
	if pts := series.Normalize(d.Data); len(pts) > 0 {
		last := pts[len(pts)-1]
		resp.Latest = &last
	}
	h.writeData(w, resp, nil)
}

func (h *Handler) handleNav(w http.ResponseWriter, r *http.Request) {
	code, ok := h.schemeCode(w, r)
	if !ok {
		return
	}
	window, ok := h.window(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	sma := 0
	if v := q.Get("sma"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid sma period %q", v))
			return
		}
		sma = n
	}
	zoom, pan, err := parseViewport(q["zoom"], q.Get("pan"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.collector.Chart(r.Context(), code, window, sma)
	if err != nil {
		h.fetchFailed(w, err, msgSchemeUnavailable)
		return
	}
	if len(zoom) > 0 || pan != 0 {
		vp := series.NewViewport(view.Points)
		for _, op := range zoom {
			if op == "in" {
				vp = vp.ZoomIn()
			} else {
				vp = vp.ZoomOut()
			}
		}
		vp = vp.Pan(pan)
		view.Points = vp.Apply(view.Points)
		view.Window = vp.Window().String()
		view.Stats = calculator.ComputeNavStats(view.Points)
		view.Overlay = calculator.MovingAverage(view.Points, sma)
	}
	h.writeData(w, view, map[string]any{"points": len(view.Points)})
}

type riskResponse struct {
	Window  string                  `json:"window"`
	Metrics model.RiskMetricsResult `json:"metrics"`
}

func (h *Handler) handleRisk(w http.ResponseWriter, r *http.Request) {
	code, ok := h.schemeCode(w, r)
	if !ok {
		return
	}
	window, ok := h.window(w, r)
	if !ok {
		return
	}
	m, err := h.collector.Risk(r.Context(), code, window)
	if err != nil {
		h.fetchFailed(w, err, msgSchemeUnavailable)
		return
	}
	h.writeData(w, riskResponse{Window: window.String(), Metrics: m}, nil)
}

func (h *Handler) handleSIP(w http.ResponseWriter, r *http.Request) {
	code, ok := h.schemeCode(w, r)
	if !ok {
		return
	}
	sched, err := parseSchedule(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.collector.SIP(r.Context(), code, sched)
	switch {
	case errors.Is(err, calculator.ErrInvalidSchedule):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.fetchFailed(w, err, msgSchemeUnavailable)
		return
	}
	h.writeData(w, res, nil)
}

func (h *Handler) handleCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusNotFound, "cache not configured")
		return
	}
	h.writeData(w, h.cache.Stats(), map[string]any{"ttl": h.cache.TTL().String()})
}

func parseSchedule(r *http.Request) (model.SipSchedule, error) {
	q := r.URL.Query()
	var sched model.SipSchedule
	raw := q.Get("amount")
	if raw == "" {
		return sched, errors.New("amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return sched, fmt.Errorf("invalid amount %q", raw)
	}
	sched.Amount = amount
	if sched.Frequency, err = calculator.ParseFrequency(q.Get("frequency")); err != nil {
		return sched, err
	}
	if v := q.Get("start"); v != "" {
		if sched.Start, err = series.ParseDay(v); err != nil {
			return sched, err
		}
	}
	if v := q.Get("end"); v != "" {
		if sched.End, err = series.ParseDay(v); err != nil {
			return sched, err
		}
	}
	return sched, nil
}

// parseViewport reads zoom steps ("in"/"out", repeatable or comma-separated)
// and a pan offset in days.
func parseViewport(zoom []string, pan string) ([]string, time.Duration, error) {
	ops := listParam(zoom)
	for i, op := range ops {
		op = strings.ToLower(op)
		if op != "in" && op != "out" {
			return nil, 0, fmt.Errorf("invalid zoom step %q", op)
		}
		ops[i] = op
	}
	if pan == "" {
		return ops, 0, nil
	}
	days, err := strconv.Atoi(pan)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid pan %q, want days", pan)
	}
	return ops, time.Duration(days) * 24 * time.Hour, nil
}

func (h *Handler) window(w http.ResponseWriter, r *http.Request) (model.RangeWindow, bool) {
	v := r.URL.Query().Get("range")
	if v == "" {
		return h.defaultWindow, true
	}
	win, err := series.ParseRangeWindow(v)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return model.RangeWindow{}, false
	}
	return win, true
}

func (h *Handler) schemeCode(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "code")
	code, err := strconv.Atoi(raw)
	if err != nil || code <= 0 {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid scheme code %q", raw))
		return 0, false
	}
	return code, true
}

func (h *Handler) fetchFailed(w http.ResponseWriter, err error, msg string) {
	h.log.Error().Err(err).Msg("upstream fetch failed")
	h.writeError(w, http.StatusBadGateway, msg)
}

// listParam flattens repeated and comma-separated query values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *Handler) writeData(w http.ResponseWriter, data any, meta map[string]any) {
	if meta == nil {
		meta = make(map[string]any, 1)
	}
	meta["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"data":     data,
		"metadata": meta,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

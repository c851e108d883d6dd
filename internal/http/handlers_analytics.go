package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "bizspese/internal/log"
)

func (s *Server) handleWalletSummary(w http.ResponseWriter, r *http.Request) {
	m, err := parseMonth(r.PathValue("month"), r.PathValue("year"))
	if err != nil {
		writeError(w, r, applog.OpSummary, err)
		return
	}
	s.serveAnalytics(w, r, applog.OpSummary, func(ctx context.Context) (any, error) {
		return s.svc.Analytics.WalletSummary(ctx, m.Year, int(m.Month))
	})
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	month, err := parseOptionalMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.OpBreakdown, err)
		return
	}
	s.serveAnalytics(w, r, applog.OpBreakdown, func(ctx context.Context) (any, error) {
		return s.svc.Analytics.CategoryBreakdown(ctx, month)
	})
}

func (s *Server) handleExpenseTrends(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r.PathValue("days"))
	if err != nil {
		writeError(w, r, applog.OpTrends, err)
		return
	}
	s.serveAnalytics(w, r, applog.OpTrends, func(ctx context.Context) (any, error) {
		return s.svc.Analytics.ExpenseTrends(ctx, days)
	})
}

// serveAnalytics answers from the response cache when possible. The key
// includes today's date because summaries and trends depend on it.
func (s *Server) serveAnalytics(w http.ResponseWriter, r *http.Request, op string, compute func(context.Context) (any, error)) {
	key := s.now().Format(time.DateOnly) + " " + r.URL.Path + "?" + r.URL.Query().Encode()
	if data, ok := s.analytics.get(key); ok {
		NewJSONResponse().Header("X-Cache", "HIT").Raw(data).Write(w)
		return
	}

	gen := s.analytics.generation()
	v, err := compute(r.Context())
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	s.analytics.put(key, gen, data)
	NewJSONResponse().Header("X-Cache", "MISS").Raw(data).Write(w)
}

// mutated drops cached analytics after a successful write.
func (s *Server) mutated() {
	s.analytics.invalidate()
}

package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Afrawles/teamdash/internal/report"
)

// Fetcher pulls fresh records for the refresh action.
type Fetcher interface {
	Generate(ctx context.Context, months []report.MonthRequest) ([]report.Record, map[string]error)
}

// Server renders the interactive dashboard over the currently loaded
// snapshot. The snapshot is the only mutable state; it is swapped wholesale
// by the refresh handler and every read derives from the snapshot it grabbed.
type Server struct {
	log        *slog.Logger
	engine     *report.Engine
	fetcher    Fetcher
	monthsBack int

	mu    sync.RWMutex
	ds    report.Dataset
	cache *reportCache
}

func NewServer(log *slog.Logger, engine *report.Engine, fetcher Fetcher, monthsBack int, cacheTTL time.Duration) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log:        log,
		engine:     engine,
		fetcher:    fetcher,
		monthsBack: monthsBack,
		cache:      newReportCache(cacheTTL),
	}
}

// Load seeds the server with an initial snapshot.
func (s *Server) Load(ds report.Dataset) {
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
}

func (s *Server) snapshot() report.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Router assembles the dashboard routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/charts", s.handleCharts)
	r.Get("/api/summary", s.handleSummary)
	r.Post("/refresh", s.handleRefresh)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"records": s.snapshot().Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds := s.snapshot()
	if ds.Len() == 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><h1>Team Performance Dashboard</h1>`+
			`<p>No data loaded yet.</p>`+
			`<form method="post" action="/refresh"><button type="submit">Fetch &amp; Analyze Live Data</button></form>`+
			`</body></html>`)
		return
	}

	yw, m, err := s.selection(ds, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep := s.buildReport(ds, yw, m)

	weeks := ds.Weeks()
	weekLabels := make([]string, len(weeks))
	for i, w := range weeks {
		weekLabels[i] = w.String()
	}
	months := ds.Months()
	monthLabels := make([]string, len(months))
	for i, m := range months {
		monthLabels[i] = m.String()
	}

	chartsLink := fmt.Sprintf("/charts?week=%s&month=%s", url.QueryEscape(yw.String()), url.QueryEscape(m.String()))

	weekRecords := ds.InWeek(yw)
	assignees := s.engine.Assignees(weekRecords)
	member := r.URL.Query().Get("member")
	if member == "" && len(assignees) > 0 {
		member = assignees[0].Value
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderHTML(w, report.HTMLData{
		Report:      rep,
		ChartsLink:  chartsLink,
		Weeks:       weekLabels,
		Months:      monthLabels,
		Assignees:   assignees,
		DrillMember: member,
		DrillRows:   s.engine.DrillDown(weekRecords, member),
	}); err != nil {
		s.log.Error("render dashboard failed", "error", err)
	}
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	ds := s.snapshot()
	if ds.Len() == 0 {
		http.Error(w, "no data loaded", http.StatusNotFound)
		return
	}

	yw, m, err := s.selection(ds, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep := s.buildReport(ds, yw, m)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.ChartsPage(rep).Render(w); err != nil {
		s.log.Error("render charts failed", "error", err)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds := s.snapshot()
	if ds.Len() == 0 {
		http.Error(w, "no data loaded", http.StatusNotFound)
		return
	}

	yw, m, err := s.selection(ds, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep := s.buildReport(ds, yw, m)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	months := report.LastMonths(time.Now().UTC(), s.monthsBack)
	records, failures := s.fetcher.Generate(r.Context(), months)

	if len(records) == 0 && len(failures) > 0 {
		msgs := make(map[string]string, len(failures))
		for unit, err := range failures {
			msgs[unit] = err.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"errors": msgs})
		return
	}

	s.mu.Lock()
	s.ds = s.ds.Merge(records)
	total := s.ds.Len()
	s.mu.Unlock()

	s.log.Info("snapshot refreshed", "fetched", len(records), "total", total, "failed_units", len(failures))

	if r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"fetched":      len(records),
			"total":        total,
			"failed_units": len(failures),
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// selection resolves the requested week/month, defaulting to the newest
// buckets in the snapshot.
func (s *Server) selection(ds report.Dataset, q url.Values) (report.YearWeek, report.Month, error) {
	weeks := ds.Weeks()
	months := ds.Months()

	yw := weeks[0]
	if v := q.Get("week"); v != "" {
		parsed, err := report.ParseYearWeek(v)
		if err != nil {
			return report.YearWeek{}, report.Month{}, err
		}
		yw = parsed
	}

	m := months[0]
	if v := q.Get("month"); v != "" {
		parsed, err := report.ParseMonth(v)
		if err != nil {
			return report.YearWeek{}, report.Month{}, err
		}
		m = parsed
	}

	return yw, m, nil
}

func (s *Server) buildReport(ds report.Dataset, yw report.YearWeek, m report.Month) report.Report {
	key := fmt.Sprintf("%s|%s|%s", ds.ID(), yw, m)
	if rep, ok := s.cache.get(key); ok {
		return rep
	}
	rep := s.engine.BuildReport(ds, yw, m)
	s.cache.put(key, rep)
	return rep
}

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"bytes", rw.size,
			"duration", time.Since(start).String(),
		)
	})
}

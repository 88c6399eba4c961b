package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MonthRequest names one (year, month) fetch unit.
type MonthRequest struct {
	Year  int
	Month time.Month
}

func (m MonthRequest) String() string {
	return fmt.Sprintf("%d-%02d", m.Year, int(m.Month))
}

// LastMonths returns the n months ending at now, current month first.
func LastMonths(now time.Time, n int) []MonthRequest {
	reqs := make([]MonthRequest, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		dt := first.AddDate(0, -i, 0)
		reqs = append(reqs, MonthRequest{Year: dt.Year(), Month: dt.Month()})
	}
	return reqs
}

// Generator fetches records from the configured sources and aggregates
// whatever months succeed. A failed month is reported per unit and excluded;
// the fetch as a whole comes back empty only when every unit failed.
type Generator struct {
	Sources []RecordSource
	Logger  *slog.Logger
}

func NewGenerator(logger *slog.Logger, sources ...RecordSource) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Sources: sources, Logger: logger}
}

// Generate fetches the requested months from every source. The returned map
// is keyed "source/year-month" and holds the per-unit failures.
func (g *Generator) Generate(ctx context.Context, months []MonthRequest) ([]Record, map[string]error) {
	var all []Record
	failures := make(map[string]error)

	for _, src := range g.Sources {
		select {
		case <-ctx.Done():
			failures[src.Name()] = ctx.Err()
			return all, failures
		default:
		}

		if err := src.HealthCheck(); err != nil {
			g.Logger.Warn("source unavailable", "source", src.Name(), "error", err)
			failures[src.Name()] = fmt.Errorf("health check failed: %w", err)
			continue
		}

		for _, m := range months {
			records, err := src.FetchRecords(ctx, m.Year, m.Month)
			if err != nil {
				g.Logger.Warn("month fetch failed", "source", src.Name(), "month", m.String(), "error", err)
				failures[src.Name()+"/"+m.String()] = err
				continue
			}
			g.Logger.Info("month fetched", "source", src.Name(), "month", m.String(), "records", len(records))
			all = append(all, records...)
		}
	}

	return all, failures
}

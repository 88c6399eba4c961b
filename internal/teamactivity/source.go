package teamactivity

import (
	"context"
	"fmt"
	"time"

	"github.com/Afrawles/teamdash/internal/report"
)

// Source adapts the reporting-API client to the report package's
// RecordSource interface.
type Source struct {
	Client *Client
}

func NewSource(cfg Config) *Source {
	return &Source{Client: NewClient(cfg)}
}

var _ report.RecordSource = (*Source)(nil)

func (s *Source) Name() string {
	return "teamactivity"
}

func (s *Source) HealthCheck() error {
	return s.Client.HealthCheck()
}

// FetchRecords pulls one month's payload and parses it. A payload that does
// not parse fails the whole month; that month contributes nothing.
func (s *Source) FetchRecords(ctx context.Context, year int, month time.Month) ([]report.Record, error) {
	raw, err := s.Client.FetchMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	records, err := report.ParseRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %d-%02d payload: %w", year, int(month), err)
	}
	return records, nil
}

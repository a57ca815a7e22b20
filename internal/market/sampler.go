// Package market runs the end-of-day valuation worker: a polling loop that
// snapshots every currency's derived value at market open and close, persists
// one historical record per currency per trading day, and fans the stored
// records out to the chart exporter and the Kafka announcer.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Starkiller645/economist/internal/config"
	"github.com/Starkiller645/economist/internal/domain/currency"
)

// CurrencyLister fetches the full currency list for a boundary snapshot
type CurrencyLister interface {
	List(ctx context.Context, limit int, sort currency.SortKey) ([]currency.Currency, error)
}

// Snapshot maps currency ids to their full state at a boundary crossing.
type Snapshot map[int64]currency.Currency

// Sampler is the two-state trading-day machine. A day starts Closed; the
// first tick strictly inside the open/close window takes the opening
// snapshot and moves to Open, and the first tick strictly after the closing
// boundary takes the closing snapshot and moves back to Closed. The open
// flag only advances after a successful fetch, so a failed fetch is retried
// on the next tick.
type Sampler struct {
	lister  CurrencyLister
	limit   int
	opening time.Duration // boundary offsets from midnight UTC
	closing time.Duration
	logger  *slog.Logger

	open        bool
	openingData Snapshot
	closingData Snapshot
}

// NewSampler builds a sampler from the market configuration
func NewSampler(cfg *config.MarketConfig, lister CurrencyLister, logger *slog.Logger) (*Sampler, error) {
	openingClock, err := cfg.OpeningClock()
	if err != nil {
		return nil, fmt.Errorf("invalid market opening time: %w", err)
	}
	closingClock, err := cfg.ClosingClock()
	if err != nil {
		return nil, fmt.Errorf("invalid market closing time: %w", err)
	}

	return &Sampler{
		lister:  lister,
		limit:   cfg.SnapshotLimit,
		opening: sinceMidnight(openingClock),
		closing: sinceMidnight(closingClock),
		logger:  logger,
	}, nil
}

// Tick evaluates the boundary conditions for now (UTC). When the closing
// boundary is crossed it returns the day's matched snapshot pair and true;
// on every other tick it returns false.
func (s *Sampler) Tick(ctx context.Context, now time.Time) (Snapshot, Snapshot, bool) {
	tod := timeOfDay(now.UTC())

	if !s.open && tod > s.opening && tod < s.closing {
		snapshot, err := s.snapshot(ctx)
		if err != nil {
			s.logger.Error("Couldn't fetch currency data at opening", "error", err)
			return nil, nil, false
		}
		s.openingData = snapshot
		s.open = true
		s.logger.Info("Logged opening snapshot", "currencies", len(snapshot), "time", now.UTC().Format(time.TimeOnly))
		return nil, nil, false
	}

	if s.open && tod > s.closing {
		snapshot, err := s.snapshot(ctx)
		if err != nil {
			s.logger.Error("Couldn't fetch currency data at closing", "error", err)
			return nil, nil, false
		}
		s.closingData = snapshot
		s.open = false
		s.logger.Info("Logged closing snapshot", "currencies", len(snapshot), "time", now.UTC().Format(time.TimeOnly))
		return s.openingData, s.closingData, true
	}

	return nil, nil, false
}

// Open reports whether the sampler currently considers the market open.
func (s *Sampler) Open() bool {
	return s.open
}

func (s *Sampler) snapshot(ctx context.Context) (Snapshot, error) {
	// Code sort keeps the snapshot page deterministic across both boundaries.
	currencies, err := s.lister.List(ctx, s.limit, currency.SortByCode)
	if err != nil {
		return nil, err
	}

	snapshot := make(Snapshot, len(currencies))
	for _, c := range currencies {
		snapshot[c.ID] = c
	}
	return snapshot, nil
}

func sinceMidnight(clock time.Time) time.Duration {
	return time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second
}

func timeOfDay(t time.Time) time.Duration {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return t.Sub(midnight)
}

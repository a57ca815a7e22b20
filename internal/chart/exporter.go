package chart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Starkiller645/economist/internal/config"
	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/record"
)

// HistoryLister fetches a currency's recent records, most recent first
type HistoryLister interface {
	ListRecent(ctx context.Context, currencyID int64, limit int) ([]record.Record, error)
}

// ArtifactPublisher ships a rendered chart to the external store
type ArtifactPublisher interface {
	Publish(ctx context.Context, currencyID, recordID int64, png []byte) error
}

// Exporter renders a currency's recent valuation history and publishes the
// resulting chart, keyed by the record that completed the trading day.
type Exporter struct {
	history   HistoryLister
	publisher ArtifactPublisher
	limit     int
	logger    *slog.Logger
}

// NewExporter creates a chart exporter
func NewExporter(cfg *config.ChartConfig, history HistoryLister, publisher ArtifactPublisher, logger *slog.Logger) *Exporter {
	return &Exporter{
		history:   history,
		publisher: publisher,
		limit:     cfg.HistoryLimit,
		logger:    logger,
	}
}

// Export fetches recent history, renders the chart and publishes it.
// Errors here are the caller's to log; they must never fail a daily cycle.
func (e *Exporter) Export(ctx context.Context, cur currency.Currency, rec record.Record) error {
	records, err := e.history.ListRecent(ctx, cur.ID, e.limit)
	if err != nil {
		return fmt.Errorf("failed to fetch record history for %s: %w", cur.Code, err)
	}

	png, err := Render(cur.Code, records)
	if err != nil {
		return err
	}

	if err := e.publisher.Publish(ctx, cur.ID, rec.ID, png); err != nil {
		return err
	}

	e.logger.Info("Exported chart", "currency_code", cur.Code, "record_id", rec.ID, "points", len(records))
	return nil
}

package market

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/record"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// RecordInserter persists one daily valuation record
type RecordInserter interface {
	Insert(ctx context.Context, currencyID int64, openingValue, closingValue float64) (*record.Record, error)
}

// Exporter publishes a chart artifact for a freshly stored record
type Exporter interface {
	Export(ctx context.Context, cur currency.Currency, rec record.Record) error
}

// Announcer broadcasts a stored record to downstream consumers
type Announcer interface {
	Publish(ctx context.Context, rec *record.Record) error
}

// Materializer turns a day's matched snapshot pair into stored records.
// A single currency's failure never aborts the rest of the batch, and
// neither announcement nor chart export failures count against the
// materialization itself.
type Materializer struct {
	records   RecordInserter
	exporter  Exporter
	announcer Announcer
	pool      *ants.Pool
	logger    *slog.Logger
}

// NewMaterializer creates a materializer with a worker pool of the given
// size for chart export fan-out.
func NewMaterializer(records RecordInserter, exporter Exporter, announcer Announcer, poolSize int, logger *slog.Logger) (*Materializer, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &Materializer{
		records:   records,
		exporter:  exporter,
		announcer: announcer,
		pool:      pool,
		logger:    logger,
	}, nil
}

// Materialize inserts one record for every currency present in both the
// opening and closing snapshots, then drains the export pool so the caller's
// cycle does not overlap the next tick. Currencies missing from the closing
// snapshot (deleted intra-day, or a partial closing fetch) are skipped
// silently.
func (m *Materializer) Materialize(ctx context.Context, opening, closing Snapshot) {
	logger := m.logger.With("cycle_id", uuid.NewString())
	logger.Info("Materializing daily records", "opening_currencies", len(opening), "closing_currencies", len(closing))

	ids := make([]int64, 0, len(opening))
	for id := range opening {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var wg sync.WaitGroup
	for _, id := range ids {
		openState := opening[id]
		closeState, ok := closing[id]
		if !ok {
			logger.Debug("Currency absent from closing snapshot, skipping", "currency_id", id, "currency_code", openState.Code)
			continue
		}

		rec, err := m.records.Insert(ctx, id, openState.Value, closeState.Value)
		if err != nil {
			logger.Error("Couldn't insert record", "currency_id", id, "currency_code", openState.Code, "error", err)
			continue
		}
		logger.Info("Inserted new record",
			"record_id", rec.ID,
			"currency_code", closeState.Code,
			"opening_value", rec.OpeningValue,
			"closing_value", rec.ClosingValue,
			"growth", rec.Growth,
		)

		if m.announcer != nil {
			if err := m.announcer.Publish(ctx, rec); err != nil {
				logger.Error("Couldn't announce record", "record_id", rec.ID, "error", err)
			}
		}

		if m.exporter != nil {
			cur := closeState
			stored := *rec
			wg.Add(1)
			if err := m.pool.Submit(func() {
				defer wg.Done()
				if err := m.exporter.Export(ctx, cur, stored); err != nil {
					logger.Error("Couldn't export chart", "record_id", stored.ID, "currency_code", cur.Code, "error", err)
				}
			}); err != nil {
				wg.Done()
				logger.Error("Couldn't submit chart export to pool", "record_id", stored.ID, "error", err)
			}
		}
	}

	wg.Wait()
}

// Shutdown releases the export worker pool.
func (m *Materializer) Shutdown() {
	m.pool.Release()
}

// Running returns the number of in-flight export workers.
func (m *Materializer) Running() int {
	return m.pool.Running()
}

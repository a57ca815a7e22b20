package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/record"
)

// stubInserter mimics the database's derived columns and records inserts.
type stubInserter struct {
	mu      sync.Mutex
	nextID  int64
	inserts []record.Record
	failFor map[int64]error
}

func (s *stubInserter) Insert(_ context.Context, currencyID int64, openingValue, closingValue float64) (*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failFor[currencyID]; ok {
		return nil, err
	}

	s.nextID++
	delta := closingValue - openingValue
	rec := record.Record{
		ID:           s.nextID,
		Date:         time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		CurrencyID:   currencyID,
		OpeningValue: openingValue,
		ClosingValue: closingValue,
		DeltaValue:   delta,
		Growth:       record.GrowthOf(delta),
	}
	s.inserts = append(s.inserts, rec)
	return &rec, nil
}

type stubExporter struct {
	mu      sync.Mutex
	exports []record.Record
	err     error
}

func (s *stubExporter) Export(_ context.Context, _ currency.Currency, rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.exports = append(s.exports, rec)
	return nil
}

type stubAnnouncer struct {
	mu        sync.Mutex
	announced []int64
	err       error
}

func (s *stubAnnouncer) Publish(_ context.Context, rec *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.announced = append(s.announced, rec.ID)
	return nil
}

func newTestMaterializer(t *testing.T, inserter *stubInserter, exporter *stubExporter, announcer *stubAnnouncer) *Materializer {
	t.Helper()
	m, err := NewMaterializer(inserter, exporter, announcer, 4, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m
}

func TestMaterializer_RecordsFullDay(t *testing.T) {
	inserter := &stubInserter{}
	exporter := &stubExporter{}
	announcer := &stubAnnouncer{}
	m := newTestMaterializer(t, inserter, exporter, announcer)

	// Currency A gains value over the day; currency B has no reserves and
	// stays worthless.
	opening := Snapshot{
		1: {ID: 1, Code: "AAA", Reserves: 100, Circulation: 50, Value: 2.0},
		2: {ID: 2, Code: "BBB", Reserves: 0, Circulation: 10, Value: 0},
	}
	closing := Snapshot{
		1: {ID: 1, Code: "AAA", Reserves: 150, Circulation: 50, Value: 3.0},
		2: {ID: 2, Code: "BBB", Reserves: 0, Circulation: 10, Value: 0},
	}

	m.Materialize(context.Background(), opening, closing)

	require.Len(t, inserter.inserts, 2)

	recA := inserter.inserts[0]
	assert.Equal(t, int64(1), recA.CurrencyID)
	assert.Equal(t, 2.0, recA.OpeningValue)
	assert.Equal(t, 3.0, recA.ClosingValue)
	assert.Equal(t, 1.0, recA.DeltaValue)
	assert.Equal(t, int16(1), recA.Growth)

	recB := inserter.inserts[1]
	assert.Equal(t, int64(2), recB.CurrencyID)
	assert.Equal(t, 0.0, recB.OpeningValue)
	assert.Equal(t, 0.0, recB.ClosingValue)
	assert.Equal(t, int16(0), recB.Growth)

	// Every stored record was announced and exported.
	assert.ElementsMatch(t, []int64{recA.ID, recB.ID}, announcer.announced)
	assert.Len(t, exporter.exports, 2)
}

func TestMaterializer_SkipsCurrenciesAbsentFromClosing(t *testing.T) {
	inserter := &stubInserter{}
	exporter := &stubExporter{}
	m := newTestMaterializer(t, inserter, exporter, &stubAnnouncer{})

	opening := Snapshot{
		1: {ID: 1, Code: "AAA", Value: 2.0},
		2: {ID: 2, Code: "GON", Value: 1.0}, // deleted intra-day
	}
	closing := Snapshot{
		1: {ID: 1, Code: "AAA", Value: 2.5},
	}

	m.Materialize(context.Background(), opening, closing)

	require.Len(t, inserter.inserts, 1)
	assert.Equal(t, int64(1), inserter.inserts[0].CurrencyID)
}

func TestMaterializer_InsertFailureDoesNotAbortBatch(t *testing.T) {
	inserter := &stubInserter{failFor: map[int64]error{1: errors.New("duplicate record")}}
	exporter := &stubExporter{}
	announcer := &stubAnnouncer{}
	m := newTestMaterializer(t, inserter, exporter, announcer)

	opening := Snapshot{
		1: {ID: 1, Code: "AAA", Value: 2.0},
		2: {ID: 2, Code: "BBB", Value: 1.0},
	}
	closing := Snapshot{
		1: {ID: 1, Code: "AAA", Value: 2.5},
		2: {ID: 2, Code: "BBB", Value: 1.5},
	}

	m.Materialize(context.Background(), opening, closing)

	// Only the healthy currency produced a record, and only its record was
	// announced and exported.
	require.Len(t, inserter.inserts, 1)
	assert.Equal(t, int64(2), inserter.inserts[0].CurrencyID)
	assert.Len(t, announcer.announced, 1)
	assert.Len(t, exporter.exports, 1)
}

func TestMaterializer_AnnounceFailureDoesNotBlockExport(t *testing.T) {
	inserter := &stubInserter{}
	exporter := &stubExporter{}
	announcer := &stubAnnouncer{err: errors.New("broker unavailable")}
	m := newTestMaterializer(t, inserter, exporter, announcer)

	opening := Snapshot{1: {ID: 1, Code: "AAA", Value: 2.0}}
	closing := Snapshot{1: {ID: 1, Code: "AAA", Value: 2.5}}

	m.Materialize(context.Background(), opening, closing)

	require.Len(t, inserter.inserts, 1)
	assert.Len(t, exporter.exports, 1)
}

func TestMaterializer_ExportFailureIsContained(t *testing.T) {
	inserter := &stubInserter{}
	exporter := &stubExporter{err: errors.New("image server down")}
	m := newTestMaterializer(t, inserter, exporter, &stubAnnouncer{})

	opening := Snapshot{
		1: {ID: 1, Code: "AAA", Value: 2.0},
		2: {ID: 2, Code: "BBB", Value: 1.0},
	}
	closing := Snapshot{
		1: {ID: 1, Code: "AAA", Value: 2.5},
		2: {ID: 2, Code: "BBB", Value: 1.5},
	}

	// Both records are still stored even though every export fails.
	m.Materialize(context.Background(), opening, closing)
	assert.Len(t, inserter.inserts, 2)
}

package chart

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/record"
)

type stubHistory struct {
	records  []record.Record
	err      error
	gotID    int64
	gotLimit int
}

func (s *stubHistory) ListRecent(_ context.Context, currencyID int64, limit int) ([]record.Record, error) {
	s.gotID = currencyID
	s.gotLimit = limit
	return s.records, s.err
}

type stubPublisher struct {
	err           error
	gotCurrencyID int64
	gotRecordID   int64
	gotPNG        []byte
}

func (s *stubPublisher) Publish(_ context.Context, currencyID, recordID int64, png []byte) error {
	s.gotCurrencyID = currencyID
	s.gotRecordID = recordID
	s.gotPNG = png
	return s.err
}

func TestExporter_Export(t *testing.T) {
	cur := currency.Currency{ID: 7, Code: "TKD"}
	rec := record.Record{ID: 42, CurrencyID: 7, ClosingValue: 2.0}

	t.Run("renders history and publishes", func(t *testing.T) {
		history := &stubHistory{records: []record.Record{rec}}
		publisher := &stubPublisher{}
		exporter := NewExporter(chartConfig("http://store"), history, publisher, newTestLogger())

		err := exporter.Export(context.Background(), cur, rec)
		require.NoError(t, err)

		assert.Equal(t, int64(7), history.gotID)
		assert.Equal(t, 14, history.gotLimit)
		assert.Equal(t, int64(7), publisher.gotCurrencyID)
		assert.Equal(t, int64(42), publisher.gotRecordID)
		assert.True(t, bytes.HasPrefix(publisher.gotPNG, pngMagic))
	})

	t.Run("history failure propagates", func(t *testing.T) {
		history := &stubHistory{err: errors.New("db down")}
		exporter := NewExporter(chartConfig("http://store"), history, &stubPublisher{}, newTestLogger())

		err := exporter.Export(context.Background(), cur, rec)
		assert.ErrorContains(t, err, "failed to fetch record history")
	})

	t.Run("publish failure propagates", func(t *testing.T) {
		history := &stubHistory{records: []record.Record{rec}}
		publisher := &stubPublisher{err: errors.New("store down")}
		exporter := NewExporter(chartConfig("http://store"), history, publisher, newTestLogger())

		err := exporter.Export(context.Background(), cur, rec)
		assert.ErrorContains(t, err, "store down")
	})
}

package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starkiller645/economist/internal/domain/record"
)

// pngMagic is the PNG file signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func day(offset int) time.Time {
	return time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func history(closings ...float64) []record.Record {
	// Most recent first, matching repository ordering.
	records := make([]record.Record, 0, len(closings))
	for i, v := range closings {
		records = append(records, record.Record{
			ID:           int64(len(closings) - i),
			Date:         day(-i),
			CurrencyID:   1,
			ClosingValue: v,
		})
	}
	return records
}

func TestRender(t *testing.T) {
	t.Run("full history", func(t *testing.T) {
		png, err := Render("TKD", history(3.0, 2.5, 2.0, 2.2))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("single record", func(t *testing.T) {
		png, err := Render("TKD", history(1.5))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("no records", func(t *testing.T) {
		png, err := Render("TKD", nil)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})
}

func TestTrendColor(t *testing.T) {
	tests := []struct {
		name     string
		closings []float64
		want     interface{}
	}{
		{"strong gain", []float64{2.5, 2.0}, gainColor},
		{"strong decline", []float64{2.0, 2.5}, declineColor},
		{"move inside threshold", []float64{2.125, 2.0}, neutralColor},
		{"flat", []float64{2.0, 2.0}, neutralColor},
		{"single record", []float64{2.0}, neutralColor},
		{"no records", nil, neutralColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendColor(history(tt.closings...)))
		})
	}
}

func TestSeriesOf(t *testing.T) {
	t.Run("reverses into ascending order", func(t *testing.T) {
		xs, ys := seriesOf(history(3.0, 2.0, 1.0))
		require.Len(t, xs, 3)
		assert.True(t, xs[0].Before(xs[1]) && xs[1].Before(xs[2]))
		assert.Equal(t, []float64{1.0, 2.0, 3.0}, ys)
	})

	t.Run("pads sparse history flat", func(t *testing.T) {
		xs, ys := seriesOf(history(2.0))
		require.Len(t, xs, 2)
		assert.Equal(t, []float64{2.0, 2.0}, ys)
		assert.True(t, xs[0].Before(xs[1]))
	})

	t.Run("empty history still yields two points", func(t *testing.T) {
		xs, ys := seriesOf(nil)
		assert.Len(t, xs, 2)
		assert.Equal(t, []float64{0, 0}, ys)
	})
}

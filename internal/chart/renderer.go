// Package chart renders and publishes end-of-day valuation charts. Export
// failures are reported to the caller but never abort the worker's daily
// cycle; a missing chart only means a stale image on the external store.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Starkiller645/economist/internal/domain/record"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// trendThreshold is the minimum closing-value move between the two most
	// recent records before the line is drawn in a gain/decline color.
	trendThreshold = 0.2

	// axisHeadroom keeps the series off the top edge of the chart.
	axisHeadroom = 1.0

	chartWidth  = 800
	chartHeight = 400
)

var (
	gainColor    = drawing.Color{R: 0x2e, G: 0xcc, B: 0x71, A: 255}
	declineColor = drawing.Color{R: 0xe7, G: 0x4c, B: 0x3c, A: 255}
	neutralColor = drawing.Color{R: 0x95, G: 0xa5, B: 0xa6, A: 255}
)

// Render plots closing value against record date for the given records
// (most recent first) and returns the chart as a PNG. Zero or one records
// still render as an empty/flat chart.
func Render(currencyCode string, records []record.Record) ([]byte, error) {
	xs, ys := seriesOf(records)

	maxClosing := 0.0
	for _, rec := range records {
		if rec.ClosingValue > maxClosing {
			maxClosing = rec.ClosingValue
		}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s closing value", currencyCode),
		Width:  chartWidth,
		Height: chartHeight,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxClosing + axisHeadroom,
			},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: currencyCode,
				Style: chart.Style{
					StrokeColor: TrendColor(records),
					StrokeWidth: 2.5,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart for %s: %w", currencyCode, err)
	}

	return buf.Bytes(), nil
}

// TrendColor picks the line color from the short-term trend: gain when the
// latest close beats the prior close by more than the threshold, decline when
// it falls short by more than the threshold, neutral otherwise or when fewer
// than two records exist.
func TrendColor(records []record.Record) drawing.Color {
	if len(records) < 2 {
		return neutralColor
	}

	move := records[0].ClosingValue - records[1].ClosingValue
	switch {
	case move > trendThreshold:
		return gainColor
	case move < -trendThreshold:
		return declineColor
	default:
		return neutralColor
	}
}

// seriesOf converts most-recent-first records into an ascending time series.
// The renderer needs two points minimum, so sparse history is padded flat.
func seriesOf(records []record.Record) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(records))
	ys := make([]float64, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		xs = append(xs, records[i].Date)
		ys = append(ys, records[i].ClosingValue)
	}

	switch len(xs) {
	case 0:
		today := time.Now().UTC().Truncate(24 * time.Hour)
		xs = append(xs, today.AddDate(0, 0, -1), today)
		ys = append(ys, 0, 0)
	case 1:
		xs = append([]time.Time{xs[0].AddDate(0, 0, -1)}, xs[0])
		ys = append([]float64{ys[0]}, ys[0])
	}

	return xs, ys
}

package service

import (
	"time"

	"signal_engine/internal/models"
)

// makeSeries builds a snapshot from close prices. Every bar carries the
// given per-column indicator values (short slices are right-aligned to
// the most recent bars).
func makeSeries(tf string, closes []float64, volumes []float64, indicators map[string][]float64) models.MarketSeries {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		vol := 1000.0
		if volumes != nil {
			vol = volumes[i]
		}
		bars[i] = models.Bar{
			Start:      start.Add(time.Duration(i) * time.Hour),
			End:        start.Add(time.Duration(i+1) * time.Hour),
			Open:       c,
			High:       c + 1,
			Low:        c - 1,
			Close:      c,
			Volume:     vol,
			Indicators: map[string]float64{},
		}
		for name, vals := range indicators {
			off := len(closes) - len(vals)
			if i >= off {
				bars[i].Indicators[name] = vals[i-off]
			}
		}
	}
	return models.MarketSeries{Symbol: "BTC-USDT", Timeframe: tf, Bars: bars}
}

// repeat returns n copies of v.
func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// withLast replaces the final value of a fresh copy of xs.
func withLast(xs []float64, v float64) []float64 {
	out := append([]float64(nil), xs...)
	out[len(out)-1] = v
	return out
}

func defaultCommon() CommonParams {
	resolved, err := commonSchema().Resolve(nil)
	if err != nil {
		panic(err)
	}
	return commonFromResolved(resolved)
}

func mustEngine(variant string, raw map[string]interface{}, pred Predictor) *Engine {
	e, err := New(variant, raw, pred)
	if err != nil {
		panic(err)
	}
	return e
}

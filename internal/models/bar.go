package models

import (
	"math"
	"time"
)

// Bar — одна закрытая свеча плюс посчитанные апстримом индикаторы.
// Индикаторы приходят готовыми (rsi, sma_20, macd, volatility, ...),
// движок сам ничего по OHLCV не считает.
type Bar struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`

	Indicators map[string]float64 `json:"indicators"`
}

// Indicator возвращает значение индикатора свечи.
// ok=false если колонки нет или значение NaN/Inf.
func (b Bar) Indicator(name string) (float64, bool) {
	v, ok := b.Indicators[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MarketSeries — неизменяемый снапшот рынка на момент вызова движка.
// Порядок хронологический, последняя свеча — самая свежая.
type MarketSeries struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Bars      []Bar  `json:"bars"`
}

func (s MarketSeries) Len() int { return len(s.Bars) }

// Last возвращает самую свежую свечу.
func (s MarketSeries) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Closes — цены закрытия в хронологическом порядке.
func (s MarketSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// IndicatorSeries собирает колонку индикатора по всем свечам.
// ok=false если хотя бы у одной свечи значения нет — для детекторов
// частичная колонка бесполезна.
func (s MarketSeries) IndicatorSeries(name string) ([]float64, bool) {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		v, ok := b.Indicator(name)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// TailIndicator — как IndicatorSeries, но только последние n свечей.
func (s MarketSeries) TailIndicator(name string, n int) ([]float64, bool) {
	if n <= 0 || n > len(s.Bars) {
		n = len(s.Bars)
	}
	tail := MarketSeries{Bars: s.Bars[len(s.Bars)-n:]}
	return tail.IndicatorSeries(name)
}

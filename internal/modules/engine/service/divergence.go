package service

import "signal_engine/internal/models"

// DetectDivergence ищет расхождение цены и осциллятора на окне window.
// Экстремумы строгие, края окна не считаются. Меньше двух впадин (бычий
// случай) или двух пиков (медвежий) — DivergenceNone, неоднозначных
// состояний нет.
//
// Бычья: последняя ценовая впадина ниже предыдущей, осциллятор в тех же
// точках наоборот выше — цена слабеет, осциллятор крепнет. Медвежья —
// симметрично по пикам.
func DetectDivergence(prices, osc []float64, window int) models.DivergenceKind {
	n := len(prices)
	if len(osc) < n {
		n = len(osc)
	}
	if window > 0 && n > window {
		prices = prices[n-window:]
		osc = osc[n-window:]
		n = window
	}
	if n < 3 {
		return models.DivergenceNone
	}

	troughs := localExtrema(prices, false)
	if len(troughs) >= 2 {
		last, prev := troughs[len(troughs)-1], troughs[len(troughs)-2]
		if prices[last] < prices[prev] && osc[last] > osc[prev] {
			return models.DivergenceBullish
		}
	}

	peaks := localExtrema(prices, true)
	if len(peaks) >= 2 {
		last, prev := peaks[len(peaks)-1], peaks[len(peaks)-2]
		if prices[last] > prices[prev] && osc[last] < osc[prev] {
			return models.DivergenceBearish
		}
	}

	return models.DivergenceNone
}

// localExtrema возвращает индексы строгих пиков (peaks=true) или впадин.
func localExtrema(xs []float64, peaks bool) []int {
	var out []int
	for i := 1; i < len(xs)-1; i++ {
		if peaks {
			if xs[i] > xs[i-1] && xs[i] > xs[i+1] {
				out = append(out, i)
			}
		} else {
			if xs[i] < xs[i-1] && xs[i] < xs[i+1] {
				out = append(out, i)
			}
		}
	}
	return out
}

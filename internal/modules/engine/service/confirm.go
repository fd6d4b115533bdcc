package service

import (
	"fmt"

	"signal_engine/internal/models"
)

// Анализаторы подтверждений. Каждый — чистая функция снапшота,
// возвращающая подписанный вклад: + за движение вверх, − за вниз.
// Направление сигнала они не меняют, только величину (это дело
// комбинатора).

// VolumeConfirmation сравнивает текущий объём со скользящим средним.
// Нулевое среднее — вырожденный вход, ratio по умолчанию 1.0 (нейтрально).
func VolumeConfirmation(s models.MarketSeries, p CommonParams) models.ConfirmationResult {
	last, ok := s.Last()
	if !ok {
		return models.ConfirmationResult{Reason: "volume: no bars"}
	}

	bars := s.Bars[:len(s.Bars)-1]
	if len(bars) > p.VolumeLookback {
		bars = bars[len(bars)-p.VolumeLookback:]
	}

	var sum float64
	for _, b := range bars {
		sum += b.Volume
	}

	ratio := 1.0
	if len(bars) > 0 && sum > 0 {
		ratio = last.Volume / (sum / float64(len(bars)))
	}

	switch {
	case ratio >= p.VolumeThreshold:
		scale := ratio / p.VolumeThreshold
		if scale > 2.0 {
			scale = 2.0
		}
		return models.ConfirmationResult{
			Contribution: p.VolumeWeight * scale,
			Reason:       fmt.Sprintf("volume surge x%.2f", ratio),
		}
	case ratio < p.VolumeLowCutoff:
		// фиксированный штраф, комбинатор превратит его в демпфирование
		return models.ConfirmationResult{
			Contribution: -p.VolumeWeight,
			Reason:       fmt.Sprintf("volume thin x%.2f", ratio),
		}
	default:
		return models.ConfirmationResult{Reason: fmt.Sprintf("volume normal x%.2f", ratio)}
	}
}

// MomentumConfirmation — процентное изменение цены за период против порога.
func MomentumConfirmation(s models.MarketSeries, p CommonParams) models.ConfirmationResult {
	n := s.Len()
	if n <= p.MomentumPeriod {
		return models.ConfirmationResult{Reason: "momentum: not enough bars"}
	}

	cur := s.Bars[n-1].Close
	base := s.Bars[n-1-p.MomentumPeriod].Close
	if base <= 0 {
		return models.ConfirmationResult{Reason: "momentum: degenerate base price"}
	}

	change := (cur - base) / base
	switch {
	case change >= p.MomentumThreshold:
		return models.ConfirmationResult{
			Contribution: p.MomentumWeight,
			Reason:       fmt.Sprintf("momentum +%.2f%%/%db", change*100, p.MomentumPeriod),
		}
	case change <= -p.MomentumThreshold:
		return models.ConfirmationResult{
			Contribution: -p.MomentumWeight,
			Reason:       fmt.Sprintf("momentum %.2f%%/%db", change*100, p.MomentumPeriod),
		}
	default:
		return models.ConfirmationResult{Reason: fmt.Sprintf("momentum flat %.2f%%", change*100)}
	}
}

// Веса горизонтов тренда: короткий решает больше всех.
const (
	trendShortWeight  = 0.5
	trendMediumWeight = 0.3
	trendLongWeight   = 0.2
)

// TrendConfirmation — взвешенная смесь дельт цены по трём горизонтам,
// нормированных текущей ценой.
func TrendConfirmation(s models.MarketSeries, p CommonParams) models.ConfirmationResult {
	n := s.Len()
	if n <= p.TrendLong {
		return models.ConfirmationResult{Reason: "trend: not enough bars"}
	}

	cur := s.Bars[n-1].Close
	if cur <= 0 {
		return models.ConfirmationResult{Reason: "trend: degenerate price"}
	}

	delta := func(h int) float64 { return (cur - s.Bars[n-1-h].Close) / cur }
	score := trendShortWeight*delta(p.TrendShort) +
		trendMediumWeight*delta(p.TrendMedium) +
		trendLongWeight*delta(p.TrendLong)

	switch {
	case score >= p.TrendThreshold:
		return models.ConfirmationResult{
			Contribution: p.TrendWeight,
			Reason:       fmt.Sprintf("trend up %.4f", score),
		}
	case score <= -p.TrendThreshold:
		return models.ConfirmationResult{
			Contribution: -p.TrendWeight,
			Reason:       fmt.Sprintf("trend down %.4f", score),
		}
	default:
		return models.ConfirmationResult{Reason: fmt.Sprintf("trend flat %.4f", score)}
	}
}

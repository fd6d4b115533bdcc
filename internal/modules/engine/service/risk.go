package service

import (
	"fmt"
	"math"

	"signal_engine/internal/models"
)

// Колонка волатильности, которую заполняет апстрим.
const volatilityColumn = "volatility"

// ApplyRisk — финальное вето. Проверки в фиксированном порядке, первая
// сработавшая останавливает:
//  1. текущая волатильность против скользящего среднего выше потолка
//  2. гэп между двумя последними закрытиями выше порога
//  3. пер-подписочный потолок волатильности (оверрайд)
//
// Риск-менеджер умеет только заменять сделку на HOLD. Входной HOLD
// возвращается нетронутым — его reason-цепочка не переписывается.
// Паника внутри ветирования деградирует в пропуск сигнала как есть.
func ApplyRisk(sig models.Signal, s models.MarketSeries, p CommonParams, ov *models.RiskOverrides) (out models.Signal) {
	if sig.Action == models.SideHold {
		return sig
	}

	out = sig
	defer func() {
		if r := recover(); r != nil {
			out = sig // риск сломался — сигнал проходит без изменений
		}
	}()

	ratio, haveRatio := volatilityRatio(s, p.VolatilityLookback)

	if haveRatio && ratio > p.VolatilityCeiling {
		return veto(sig, fmt.Sprintf("high volatility (x%.2f > x%.2f avg)", ratio, p.VolatilityCeiling))
	}

	if gap, ok := lastCloseGap(s); ok && gap > p.GapThreshold {
		return veto(sig, fmt.Sprintf("price gap %.2f%% > %.2f%%", gap*100, p.GapThreshold*100))
	}

	if ov != nil && ov.MaxVolatilityRatio != nil && haveRatio && ratio > *ov.MaxVolatilityRatio {
		return veto(sig, fmt.Sprintf("volatility x%.2f above subscription override x%.2f", ratio, *ov.MaxVolatilityRatio))
	}

	return sig
}

func veto(sig models.Signal, why string) models.Signal {
	return models.Signal{
		Action:   models.SideHold,
		Strength: 0,
		Type:     models.TagRiskVeto,
		Reason:   fmt.Sprintf("risk veto: %s | was %s: %s", why, sig.Action, sig.Reason),
	}
}

// volatilityRatio — текущая волатильность к среднему за lookback
// предыдущих свечей. Вырожденные входы (нет колонки, нулевое среднее)
// трактуются нейтрально: проверка просто не проводится.
func volatilityRatio(s models.MarketSeries, lookback int) (float64, bool) {
	n := s.Len()
	if n < 2 {
		return 0, false
	}
	cur, ok := s.Bars[n-1].Indicator(volatilityColumn)
	if !ok {
		return 0, false
	}

	bars := s.Bars[:n-1]
	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}

	var sum float64
	cnt := 0
	for _, b := range bars {
		if v, ok := b.Indicator(volatilityColumn); ok {
			sum += v
			cnt++
		}
	}
	if cnt == 0 || sum <= 0 {
		return 0, false
	}
	return cur / (sum / float64(cnt)), true
}

func lastCloseGap(s models.MarketSeries) (float64, bool) {
	n := s.Len()
	if n < 2 {
		return 0, false
	}
	prev := s.Bars[n-2].Close
	if prev <= 0 {
		return 0, false
	}
	return math.Abs(s.Bars[n-1].Close-prev) / prev, true
}

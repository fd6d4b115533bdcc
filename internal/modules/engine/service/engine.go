package service

import (
	"fmt"

	"signal_engine/internal/helper"
	"signal_engine/internal/models"
)

// Engine — чистая функция (снапшот, статичная конфигурация) -> Action.
// Никакого состояния между вызовами: один и тот же снапшот даёт бит в
// бит одинаковый результат, инстансы можно гонять параллельно без
// какой-либо синхронизации.
type Engine struct {
	variant string
	src     Source
	common  CommonParams
	minBars int
}

func (e *Engine) Variant() string { return e.variant }

// MinBars — наибольший lookback конвейера; меньше свечей — это не
// ошибка, а законный HOLD.
func (e *Engine) MinBars() int { return e.minBars }

// Evaluate прогоняет снапшот через конвейер:
// детекторы и подтверждения (независимо) -> первичный сигнал ->
// комбинатор -> риск-вето. ov — пер-подписочный оверрайд риска, можно nil.
//
// Сбой отдельного детектора/анализатора гасится на его границе и
// превращается в нейтральный вклад — один сломанный индикатор не
// роняет весь конвейер.
func (e *Engine) Evaluate(s models.MarketSeries, ov *models.RiskOverrides) models.Action {
	var lastClose float64
	if last, ok := s.Last(); ok {
		lastClose = last.Close
	}

	if s.Len() < e.minBars {
		return models.Hold(models.TagNoSignal,
			fmt.Sprintf("insufficient data: %d bars, need %d", s.Len(), e.minBars), lastClose)
	}

	last, _ := s.Last()
	for _, name := range e.src.RequiredIndicators() {
		if _, ok := last.Indicator(name); !ok {
			return models.Hold(models.TagNoSignal,
				fmt.Sprintf("required indicator %q absent", name), lastClose)
		}
	}

	primary := e.safePrimary(s)
	if primary.Action == models.SideHold {
		// риск никогда не апгрейдит HOLD, комбинатор направление не меняет
		return models.Action{
			Action:     models.SideHold,
			Magnitude:  lastClose,
			Reason:     primary.Reason,
			Type:       primary.Type,
			Confidence: helper.Clamp01(primary.Strength),
		}
	}

	in := Inputs{
		Volume:     safeConfirm("volume", func() models.ConfirmationResult { return VolumeConfirmation(s, e.common) }),
		Momentum:   safeConfirm("momentum", func() models.ConfirmationResult { return MomentumConfirmation(s, e.common) }),
		Trend:      safeConfirm("trend", func() models.ConfirmationResult { return TrendConfirmation(s, e.common) }),
		Divergence: e.safeDivergence(s),
	}

	combined := Combine(primary, in, s.Timeframe, e.common)
	final := ApplyRisk(combined, s, e.common, ov)

	return models.Action{
		Action:     final.Action,
		Magnitude:  lastClose,
		Reason:     final.Reason,
		Type:       final.Type,
		Confidence: helper.Clamp01(final.Strength),
	}
}

func (e *Engine) safePrimary(s models.MarketSeries) (sig models.Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = holdSignal(fmt.Sprintf("signal source %s failed: %v", e.src.Name(), r))
		}
	}()
	return e.src.Generate(s)
}

func safeConfirm(name string, fn func() models.ConfirmationResult) (res models.ConfirmationResult) {
	defer func() {
		if r := recover(); r != nil {
			res = models.ConfirmationResult{Reason: fmt.Sprintf("%s analyzer failed: %v", name, r)}
		}
	}()
	return fn()
}

func (e *Engine) safeDivergence(s models.MarketSeries) (kind models.DivergenceKind) {
	defer func() {
		if r := recover(); r != nil {
			kind = models.DivergenceNone
		}
	}()

	// дивергенция не обязательна: нет колонки осциллятора — нейтрально
	osc, ok := s.TailIndicator(e.common.Oscillator, e.common.DivergenceWindow)
	if !ok {
		return models.DivergenceNone
	}
	closes := s.Closes()
	if len(closes) > e.common.DivergenceWindow {
		closes = closes[len(closes)-e.common.DivergenceWindow:]
	}
	return DetectDivergence(closes, osc, e.common.DivergenceWindow)
}

func maxInt(xs ...int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

package service

import (
	"fmt"

	"signal_engine/internal/models"
)

// Source — источник первичного сигнала. Правила и ML-модель отдают один
// и тот же Signal, комбинатор и риск-менеджер дальше не различают,
// откуда он пришёл.
type Source interface {
	Generate(s models.MarketSeries) models.Signal

	// RequiredIndicators — колонки, без которых источник не работает.
	RequiredIndicators() []string
	// Warmup — минимум свечей для осмысленного сигнала.
	Warmup() int
	Name() string
}

// Predictor — внешняя модель: направление плюс уверенность [0,1].
// Реализация вне движка (коллаборатор), движок только гейтит по
// минимальной уверенности.
type Predictor interface {
	Predict(s models.MarketSeries) (side models.Side, confidence float64, err error)
}

func holdSignal(reason string) models.Signal {
	return models.Signal{Action: models.SideHold, Strength: 0, Reason: reason, Type: models.TagNoSignal}
}

// ---------------- crossover ----------------

type crossoverSource struct {
	p CrossoverParams
}

func (c *crossoverSource) Name() string { return VariantCrossover }

func (c *crossoverSource) RequiredIndicators() []string {
	return []string{smaKey(c.p.ShortPeriod), smaKey(c.p.LongPeriod), smaKey(c.p.TrendPeriod)}
}

func (c *crossoverSource) Warmup() int {
	// пересечению нужна предыстория окна сканирования
	return c.p.ScanWindow + 1
}

// Generate — приоритеты сверху вниз, первый сработавший выигрывает:
//  1. пересечение (буст, если цена на подтверждающей стороне трендовой MA)
//  2. разлёт средних за пределами шумовой полосы — слабый сигнал 0.3
//  3. HOLD / NO_SIGNAL
func (c *crossoverSource) Generate(s models.MarketSeries) models.Signal {
	// колонки нужны только на окне сканирования плюс одна свеча предыстории
	short, ok := s.TailIndicator(smaKey(c.p.ShortPeriod), c.p.ScanWindow+1)
	if !ok {
		return holdSignal("crossover: short MA column incomplete")
	}
	long, ok := s.TailIndicator(smaKey(c.p.LongPeriod), c.p.ScanWindow+1)
	if !ok {
		return holdSignal("crossover: long MA column incomplete")
	}

	last, _ := s.Last()

	if det := DetectCrossover(short, long, c.p.ScanWindow, c.p.StrengthCap); det.Detected {
		var action models.Side
		var tag string
		if det.Kind == models.CrossGolden {
			action, tag = models.SideBuy, models.TagGoldenCross
		} else {
			action, tag = models.SideSell, models.TagDeathCross
		}

		strength := 0.6 + det.Strength*0.2
		confirm := ""
		if trendMA, ok := last.Indicator(smaKey(c.p.TrendPeriod)); ok && trendConfirms(action, last.Close, trendMA) {
			strength = 0.8 + det.Strength*0.2
			confirm = ", trend MA confirms"
		}

		return models.Signal{
			Action:   action,
			Strength: strength,
			Type:     tag,
			Reason: fmt.Sprintf("%s cross %db ago, det=%.2f%s",
				det.Kind, det.PeriodsAgo, det.Strength, confirm),
		}
	}

	// без пересечения: смотрим на разлёт средних
	sep := 0.0
	if l := long[len(long)-1]; l > 0 {
		sep = (short[len(short)-1] - l) / l
	}
	if sep > c.p.SeparationBand {
		return models.Signal{
			Action:   models.SideBuy,
			Strength: 0.3,
			Type:     models.TagTrendContinue,
			Reason:   fmt.Sprintf("MA separation +%.2f%%", sep*100),
		}
	}
	if sep < -c.p.SeparationBand {
		return models.Signal{
			Action:   models.SideSell,
			Strength: 0.3,
			Type:     models.TagTrendContinue,
			Reason:   fmt.Sprintf("MA separation %.2f%%", sep*100),
		}
	}

	return holdSignal("no crossover, MAs inside noise band")
}

func trendConfirms(action models.Side, close, trendMA float64) bool {
	if action == models.SideBuy {
		return close > trendMA
	}
	return close < trendMA
}

// ---------------- oscillator ----------------

type oscillatorSource struct {
	p      OscillatorParams
	column string
}

func (o *oscillatorSource) Name() string { return VariantOscillator }

func (o *oscillatorSource) RequiredIndicators() []string { return []string{o.column} }

func (o *oscillatorSource) Warmup() int { return 2 }

func (o *oscillatorSource) Generate(s models.MarketSeries) models.Signal {
	last, ok := s.Last()
	if !ok {
		return holdSignal("oscillator: empty series")
	}
	v, ok := last.Indicator(o.column)
	if !ok {
		return holdSignal(fmt.Sprintf("oscillator: %q missing on last bar", o.column))
	}

	switch {
	case v <= o.p.ExtremeOversold:
		return models.Signal{
			Action:   models.SideBuy,
			Strength: 0.9,
			Type:     models.TagExtremeOversold,
			Reason:   fmt.Sprintf("%s=%.1f <= extreme oversold %.1f", o.column, v, o.p.ExtremeOversold),
		}
	case v <= o.p.Oversold:
		return models.Signal{
			Action:   models.SideBuy,
			Strength: 0.6,
			Type:     models.TagOversold,
			Reason:   fmt.Sprintf("%s=%.1f <= oversold %.1f", o.column, v, o.p.Oversold),
		}
	case v >= o.p.ExtremeOverbought:
		return models.Signal{
			Action:   models.SideSell,
			Strength: 0.9,
			Type:     models.TagExtremeOverbought,
			Reason:   fmt.Sprintf("%s=%.1f >= extreme overbought %.1f", o.column, v, o.p.ExtremeOverbought),
		}
	case v >= o.p.Overbought:
		return models.Signal{
			Action:   models.SideSell,
			Strength: 0.6,
			Type:     models.TagOverbought,
			Reason:   fmt.Sprintf("%s=%.1f >= overbought %.1f", o.column, v, o.p.Overbought),
		}
	default:
		return holdSignal(fmt.Sprintf("%s=%.1f in neutral zone", o.column, v))
	}
}

// ---------------- model ----------------

type modelSource struct {
	p    ModelParams
	pred Predictor
}

func (m *modelSource) Name() string { return VariantModel }

func (m *modelSource) RequiredIndicators() []string { return nil }

func (m *modelSource) Warmup() int { return 2 }

func (m *modelSource) Generate(s models.MarketSeries) models.Signal {
	side, conf, err := m.pred.Predict(s)
	if err != nil {
		return holdSignal(fmt.Sprintf("model error: %v", err))
	}
	if side != models.SideBuy && side != models.SideSell {
		return holdSignal("model declined to call a direction")
	}
	if conf < m.p.MinModelConfidence {
		return models.Signal{
			Action:   models.SideHold,
			Strength: 0,
			Type:     models.TagLowConfidence,
			Reason:   fmt.Sprintf("model %s conf %.2f < min %.2f", side, conf, m.p.MinModelConfidence),
		}
	}

	return models.Signal{
		Action:   side,
		Strength: conf,
		Type:     models.TagModelForecast,
		Reason:   fmt.Sprintf("model %s conf %.2f", side, conf),
	}
}

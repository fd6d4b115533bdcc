package service

import "fmt"

// Варианты стратегий.
const (
	VariantCrossover  = "crossover"
	VariantOscillator = "oscillator"
	VariantModel      = "model"
)

// CommonParams — общий для всех вариантов блок: подтверждения,
// дивергенция, комбинатор, риск. Неизменяемо после конструирования.
type CommonParams struct {
	VolumeLookback  int
	VolumeThreshold float64
	VolumeLowCutoff float64
	VolumeWeight    float64

	MomentumPeriod    int
	MomentumThreshold float64
	MomentumWeight    float64

	TrendShort     int
	TrendMedium    int
	TrendLong      int
	TrendThreshold float64
	TrendWeight    float64

	Oscillator       string
	DivergenceWindow int
	DivergenceBonus  float64

	MinConfidence     float64
	ShortTFMultiplier float64
	LongTFMultiplier  float64

	VolatilityLookback int
	VolatilityCeiling  float64
	GapThreshold       float64
}

type CrossoverParams struct {
	ShortPeriod    int
	LongPeriod     int
	TrendPeriod    int
	ScanWindow     int
	SeparationBand float64
	StrengthCap    float64
}

type OscillatorParams struct {
	Oversold          float64
	Overbought        float64
	ExtremeOversold   float64
	ExtremeOverbought float64
}

type ModelParams struct {
	MinModelConfidence float64
}

func commonFromResolved(r map[string]interface{}) CommonParams {
	return CommonParams{
		VolumeLookback:  r["volume_lookback"].(int),
		VolumeThreshold: r["volume_threshold"].(float64),
		VolumeLowCutoff: r["volume_low_cutoff"].(float64),
		VolumeWeight:    r["volume_weight"].(float64),

		MomentumPeriod:    r["momentum_period"].(int),
		MomentumThreshold: r["momentum_threshold"].(float64),
		MomentumWeight:    r["momentum_weight"].(float64),

		TrendShort:     r["trend_short"].(int),
		TrendMedium:    r["trend_medium"].(int),
		TrendLong:      r["trend_long"].(int),
		TrendThreshold: r["trend_threshold"].(float64),
		TrendWeight:    r["trend_weight"].(float64),

		Oscillator:       r["oscillator"].(string),
		DivergenceWindow: r["divergence_window"].(int),
		DivergenceBonus:  r["divergence_bonus"].(float64),

		MinConfidence:     r["min_confidence"].(float64),
		ShortTFMultiplier: r["short_tf_multiplier"].(float64),
		LongTFMultiplier:  r["long_tf_multiplier"].(float64),

		VolatilityLookback: r["volatility_lookback"].(int),
		VolatilityCeiling:  r["volatility_ceiling"].(float64),
		GapThreshold:       r["gap_threshold"].(float64),
	}
}

// validateCross проверяет согласованность полей, которую схема по
// отдельным границам не видит.
func validateCross(p CrossoverParams) error {
	if p.ShortPeriod >= p.LongPeriod {
		return &ConfigurationError{Field: "short_period", Reason: "must be < long_period"}
	}
	return nil
}

func validateOsc(p OscillatorParams) error {
	if p.ExtremeOversold > p.Oversold {
		return &ConfigurationError{Field: "extreme_oversold", Reason: "must be <= oversold"}
	}
	if p.ExtremeOverbought < p.Overbought {
		return &ConfigurationError{Field: "extreme_overbought", Reason: "must be >= overbought"}
	}
	if p.Oversold >= p.Overbought {
		return &ConfigurationError{Field: "oversold", Reason: "must be < overbought"}
	}
	return nil
}

// smaKey — имя колонки скользящей средней в снапшоте.
func smaKey(period int) string { return fmt.Sprintf("sma_%d", period) }

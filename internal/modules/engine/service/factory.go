package service

import "fmt"

// New конструирует движок варианта по сырым параметрам подписки.
// Вся валидация (закрытая схема, границы, согласованность полей)
// происходит здесь, до первого вызова Evaluate. Predictor нужен только
// варианту model, остальные его игнорируют.
func New(variant string, raw map[string]interface{}, pred Predictor) (*Engine, error) {
	schema, ok := SchemaFor(variant)
	if !ok {
		return nil, fmt.Errorf("unknown strategy variant %q", variant)
	}

	resolved, err := schema.Resolve(raw)
	if err != nil {
		return nil, err
	}
	common := commonFromResolved(resolved)

	var src Source
	switch variant {
	case VariantCrossover:
		p := CrossoverParams{
			ShortPeriod:    resolved["short_period"].(int),
			LongPeriod:     resolved["long_period"].(int),
			TrendPeriod:    resolved["trend_period"].(int),
			ScanWindow:     resolved["scan_window"].(int),
			SeparationBand: resolved["separation_band"].(float64),
			StrengthCap:    resolved["strength_cap"].(float64),
		}
		if err := validateCross(p); err != nil {
			return nil, err
		}
		src = &crossoverSource{p: p}

	case VariantOscillator:
		p := OscillatorParams{
			Oversold:          resolved["oversold"].(float64),
			Overbought:        resolved["overbought"].(float64),
			ExtremeOversold:   resolved["extreme_oversold"].(float64),
			ExtremeOverbought: resolved["extreme_overbought"].(float64),
		}
		if err := validateOsc(p); err != nil {
			return nil, err
		}
		src = &oscillatorSource{p: p, column: common.Oscillator}

	case VariantModel:
		if pred == nil {
			return nil, &ConfigurationError{Field: "predictor", Reason: "model variant requires a predictor"}
		}
		src = &modelSource{
			p:    ModelParams{MinModelConfidence: resolved["model_min_confidence"].(float64)},
			pred: pred,
		}
	}

	return &Engine{
		variant: variant,
		src:     src,
		common:  common,
		minBars: maxInt(
			src.Warmup(),
			common.VolumeLookback+1,
			common.MomentumPeriod+1,
			common.TrendLong+1,
			common.VolatilityLookback+1,
		),
	}, nil
}

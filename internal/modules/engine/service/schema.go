package service

import (
	"fmt"
	"math"
	"sort"
)

// ParamSpec — описание одного поля закрытой схемы конфигурации.
// Числовые поля обязаны попадать в [Min,Max], строковые проверяются
// только по типу.
type ParamSpec struct {
	Type        string // "int" | "float" | "string"
	Min         float64
	Max         float64
	Default     interface{}
	Description string
}

// Schema — закрытая схема варианта стратегии: неизвестные поля отклоняются.
type Schema map[string]ParamSpec

// ConfigurationError — значение вне схемы. Ловится при конструировании,
// до первого вызова движка.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config field %q: %s", e.Field, e.Reason)
}

// Resolve валидирует сырые параметры и возвращает полный набор значений
// (дефолты на месте пропущенных полей).
func (s Schema) Resolve(raw map[string]interface{}) (map[string]interface{}, error) {
	for key := range raw {
		if _, ok := s[key]; !ok {
			return nil, &ConfigurationError{Field: key, Reason: "unknown field"}
		}
	}

	out := make(map[string]interface{}, len(s))
	// стабильный порядок обхода, чтобы первая ошибка была детерминирована
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		spec := s[key]
		v, present := raw[key]
		if !present {
			// дефолты гоняем через ту же коэрцию, что и сырые значения:
			// int-литерал в float-поле не должен ломать ассерты фабрики
			switch spec.Type {
			case "float":
				f, _ := toFloat(spec.Default)
				out[key] = f
			default:
				out[key] = spec.Default
			}
			continue
		}

		switch spec.Type {
		case "string":
			sv, ok := v.(string)
			if !ok {
				return nil, &ConfigurationError{Field: key, Reason: fmt.Sprintf("expected string, got %T", v)}
			}
			if sv == "" {
				return nil, &ConfigurationError{Field: key, Reason: "empty string"}
			}
			out[key] = sv

		case "int":
			f, ok := toFloat(v)
			if !ok || f != math.Trunc(f) {
				return nil, &ConfigurationError{Field: key, Reason: fmt.Sprintf("expected int, got %v", v)}
			}
			if f < spec.Min || f > spec.Max {
				return nil, &ConfigurationError{
					Field:  key,
					Reason: fmt.Sprintf("%v out of bounds [%v, %v]", v, spec.Min, spec.Max),
				}
			}
			out[key] = int(f)

		case "float":
			f, ok := toFloat(v)
			if !ok {
				return nil, &ConfigurationError{Field: key, Reason: fmt.Sprintf("expected float, got %T", v)}
			}
			if f < spec.Min || f > spec.Max {
				return nil, &ConfigurationError{
					Field:  key,
					Reason: fmt.Sprintf("%v out of bounds [%v, %v]", v, spec.Min, spec.Max),
				}
			}
			out[key] = f

		default:
			return nil, &ConfigurationError{Field: key, Reason: "unsupported spec type " + spec.Type}
		}
	}
	return out, nil
}

// toFloat — yaml/json дают int, int64, float64 вперемешку.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// Общие поля всех вариантов: подтверждения, дивергенция, комбинатор, риск.
func commonSchema() Schema {
	return Schema{
		"volume_lookback":     {Type: "int", Min: 2, Max: 500, Default: 20, Description: "rolling window for average volume"},
		"volume_threshold":    {Type: "float", Min: 1.0, Max: 10.0, Default: 1.5, Description: "volume ratio treated as surge"},
		"volume_low_cutoff":   {Type: "float", Min: 0.1, Max: 1.0, Default: 0.6, Description: "volume ratio treated as thin market"},
		"volume_weight":       {Type: "float", Min: 0.0, Max: 1.0, Default: 0.1, Description: "base contribution of the volume analyzer"},
		"momentum_period":     {Type: "int", Min: 1, Max: 200, Default: 10, Description: "bars for momentum percentage change"},
		"momentum_threshold":  {Type: "float", Min: 0.0, Max: 1.0, Default: 0.02, Description: "minimum abs momentum to contribute"},
		"momentum_weight":     {Type: "float", Min: 0.0, Max: 1.0, Default: 0.1, Description: "contribution of the momentum analyzer"},
		"trend_short":         {Type: "int", Min: 1, Max: 100, Default: 5, Description: "short trend horizon, bars"},
		"trend_medium":        {Type: "int", Min: 2, Max: 200, Default: 10, Description: "medium trend horizon, bars"},
		"trend_long":          {Type: "int", Min: 3, Max: 500, Default: 20, Description: "long trend horizon, bars"},
		"trend_threshold":     {Type: "float", Min: 0.0, Max: 1.0, Default: 0.01, Description: "minimum abs trend score to contribute"},
		"trend_weight":        {Type: "float", Min: 0.0, Max: 1.0, Default: 0.15, Description: "contribution of the trend analyzer"},
		"oscillator":          {Type: "string", Default: "rsi", Description: "indicator column used for divergence"},
		"divergence_window":   {Type: "int", Min: 5, Max: 200, Default: 20, Description: "bars scanned for price/oscillator divergence"},
		"divergence_bonus":    {Type: "float", Min: 0.0, Max: 1.0, Default: 0.1, Description: "additive bonus when divergence confirms the action"},
		"min_confidence":      {Type: "float", Min: 0.0, Max: 1.0, Default: 0.5, Description: "weak-signal gate: below this a trade becomes HOLD"},
		"short_tf_multiplier": {Type: "float", Min: 0.1, Max: 2.0, Default: 0.8, Description: "strength multiplier for timeframes <= 5m"},
		"long_tf_multiplier":  {Type: "float", Min: 0.1, Max: 2.0, Default: 1.1, Description: "strength multiplier for timeframes >= 1d"},
		"volatility_lookback": {Type: "int", Min: 2, Max: 500, Default: 20, Description: "rolling window for average volatility"},
		"volatility_ceiling":  {Type: "float", Min: 1.0, Max: 20.0, Default: 3.0, Description: "volatility ratio above which risk vetoes"},
		"gap_threshold":       {Type: "float", Min: 0.0, Max: 1.0, Default: 0.05, Description: "close-to-close gap above which risk vetoes"},
	}
}

func crossoverSchema() Schema {
	s := commonSchema()
	s["short_period"] = ParamSpec{Type: "int", Min: 2, Max: 200, Default: 10, Description: "short moving average period (sma_<n> column)"}
	s["long_period"] = ParamSpec{Type: "int", Min: 3, Max: 500, Default: 30, Description: "long moving average period (sma_<n> column)"}
	s["trend_period"] = ParamSpec{Type: "int", Min: 5, Max: 500, Default: 50, Description: "secondary reference moving average period"}
	s["scan_window"] = ParamSpec{Type: "int", Min: 1, Max: 50, Default: 5, Description: "recent bars scanned for a crossover"}
	s["separation_band"] = ParamSpec{Type: "float", Min: 0.0, Max: 0.5, Default: 0.01, Description: "noise band for the no-crossover weak signal"}
	s["strength_cap"] = ParamSpec{Type: "float", Min: 0.001, Max: 1.0, Default: 0.05, Description: "MA separation mapped to full detector strength"}
	return s
}

func oscillatorSchema() Schema {
	s := commonSchema()
	s["oversold"] = ParamSpec{Type: "float", Min: 0, Max: 100, Default: 30.0, Description: "oscillator level treated as oversold"}
	s["overbought"] = ParamSpec{Type: "float", Min: 0, Max: 100, Default: 70.0, Description: "oscillator level treated as overbought"}
	s["extreme_oversold"] = ParamSpec{Type: "float", Min: 0, Max: 100, Default: 20.0, Description: "oscillator level treated as extreme oversold"}
	s["extreme_overbought"] = ParamSpec{Type: "float", Min: 0, Max: 100, Default: 80.0, Description: "oscillator level treated as extreme overbought"}
	return s
}

func modelSchema() Schema {
	s := commonSchema()
	s["model_min_confidence"] = ParamSpec{Type: "float", Min: 0.0, Max: 1.0, Default: 0.6, Description: "prediction confidence below which the source holds"}
	return s
}

// SchemaFor возвращает схему варианта (для валидации и отдачи наружу).
func SchemaFor(variant string) (Schema, bool) {
	switch variant {
	case VariantCrossover:
		return crossoverSchema(), true
	case VariantOscillator:
		return oscillatorSchema(), true
	case VariantModel:
		return modelSchema(), true
	default:
		return nil, false
	}
}

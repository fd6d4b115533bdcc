package service

import (
	"errors"
	"testing"
)

func TestSchemaRejectsUnknownField(t *testing.T) {
	_, err := New(VariantCrossover, map[string]interface{}{"fast_period": 9}, nil)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "fast_period" {
		t.Fatalf("error must name the offending field, got %q", cfgErr.Field)
	}
}

func TestSchemaRejectsOutOfBounds(t *testing.T) {
	cases := []map[string]interface{}{
		{"scan_window": 0},
		{"scan_window": 100},
		{"min_confidence": 1.5},
		{"gap_threshold": -0.1},
	}
	for i, raw := range cases {
		if _, err := New(VariantCrossover, raw, nil); err == nil {
			t.Errorf("case %d: expected a bounds error for %v", i, raw)
		}
	}
}

func TestSchemaRejectsWrongType(t *testing.T) {
	if _, err := New(VariantCrossover, map[string]interface{}{"scan_window": "five"}, nil); err == nil {
		t.Fatal("expected a type error for a string scan_window")
	}
	if _, err := New(VariantCrossover, map[string]interface{}{"scan_window": 2.5}, nil); err == nil {
		t.Fatal("expected a type error for a fractional scan_window")
	}
	if _, err := New(VariantOscillator, map[string]interface{}{"oscillator": 14}, nil); err == nil {
		t.Fatal("expected a type error for a numeric oscillator column")
	}
}

func TestSchemaFillsDefaults(t *testing.T) {
	e, err := New(VariantCrossover, nil, nil)
	if err != nil {
		t.Fatalf("New with empty params: %v", err)
	}
	if e.common.VolumeLookback != 20 || e.common.MinConfidence != 0.5 {
		t.Fatalf("defaults not applied: %+v", e.common)
	}
	if e.MinBars() < 21 {
		t.Fatalf("MinBars must cover the largest lookback, got %d", e.MinBars())
	}
}

func TestSchemaIntFromYAMLInt64(t *testing.T) {
	// yaml.v2 decodes numbers as int, json as float64 — both must pass
	if _, err := New(VariantCrossover, map[string]interface{}{"scan_window": int64(7)}, nil); err != nil {
		t.Fatalf("int64: %v", err)
	}
	if _, err := New(VariantCrossover, map[string]interface{}{"scan_window": float64(7)}, nil); err != nil {
		t.Fatalf("float64 with integral value: %v", err)
	}
}

func TestCrossoverPeriodOrdering(t *testing.T) {
	_, err := New(VariantCrossover, map[string]interface{}{
		"short_period": 50,
		"long_period":  10,
	}, nil)
	if err == nil {
		t.Fatal("short_period >= long_period must be rejected")
	}
}

func TestOscillatorLevelOrdering(t *testing.T) {
	_, err := New(VariantOscillator, map[string]interface{}{
		"oversold":   80.0,
		"overbought": 70.0,
	}, nil)
	if err == nil {
		t.Fatal("oversold >= overbought must be rejected")
	}

	_, err = New(VariantOscillator, map[string]interface{}{
		"extreme_oversold": 40.0,
		"oversold":         30.0,
	}, nil)
	if err == nil {
		t.Fatal("extreme_oversold above oversold must be rejected")
	}
}

func TestModelVariantRequiresPredictor(t *testing.T) {
	if _, err := New(VariantModel, nil, nil); err == nil {
		t.Fatal("model variant without a predictor must be rejected")
	}
}

func TestUnknownVariant(t *testing.T) {
	if _, err := New("martingale", nil, nil); err == nil {
		t.Fatal("unknown variant must be rejected")
	}
}

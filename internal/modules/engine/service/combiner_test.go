package service

import (
	"math"
	"strings"
	"testing"

	"signal_engine/internal/models"
)

func buySignal(strength float64) models.Signal {
	return models.Signal{Action: models.SideBuy, Strength: strength, Reason: "primary", Type: models.TagGoldenCross}
}

func TestCombinePositiveVolumeAdds(t *testing.T) {
	p := defaultCommon()
	in := Inputs{Volume: models.ConfirmationResult{Contribution: 0.15, Reason: "volume surge x2.0"}}

	out := Combine(buySignal(0.6), in, "1h", p)
	if math.Abs(out.Strength-0.75) > 1e-9 {
		t.Fatalf("expected 0.75, got %.4f", out.Strength)
	}
}

func TestCombineNegativeVolumeDamps(t *testing.T) {
	p := defaultCommon()
	in := Inputs{Volume: models.ConfirmationResult{Contribution: -0.1, Reason: "volume thin x0.4"}}

	out := Combine(buySignal(0.6), in, "1h", p)
	if math.Abs(out.Strength-0.6*volumeDamping) > 1e-9 {
		t.Fatalf("expected %.4f after damping, got %.4f", 0.6*volumeDamping, out.Strength)
	}
}

func TestCombineDirectionMatchedOnly(t *testing.T) {
	p := defaultCommon()

	// bearish momentum against a BUY: ignored, never subtracted
	in := Inputs{Momentum: models.ConfirmationResult{Contribution: -0.1, Reason: "momentum down"}}
	out := Combine(buySignal(0.6), in, "1h", p)
	if out.Strength != 0.6 {
		t.Fatalf("opposing momentum must be ignored, got %.4f", out.Strength)
	}
	if out.Action != models.SideBuy {
		t.Fatalf("confirmations must never flip the action, got %s", out.Action)
	}

	// bearish momentum with a SELL: magnitude added
	sell := models.Signal{Action: models.SideSell, Strength: 0.6, Reason: "primary", Type: models.TagDeathCross}
	out = Combine(sell, in, "1h", p)
	if math.Abs(out.Strength-0.7) > 1e-9 {
		t.Fatalf("matching momentum must add its magnitude, got %.4f", out.Strength)
	}
}

func TestCombineDivergenceBonus(t *testing.T) {
	p := defaultCommon()

	out := Combine(buySignal(0.6), Inputs{Divergence: models.DivergenceBullish}, "1h", p)
	if math.Abs(out.Strength-(0.6+p.DivergenceBonus)) > 1e-9 {
		t.Fatalf("expected bullish divergence bonus, got %.4f", out.Strength)
	}

	out = Combine(buySignal(0.6), Inputs{Divergence: models.DivergenceBearish}, "1h", p)
	if out.Strength != 0.6 {
		t.Fatalf("opposing divergence must be ignored, got %.4f", out.Strength)
	}
}

func TestCombineTimeframeMultiplier(t *testing.T) {
	p := defaultCommon()

	out := Combine(buySignal(0.6), Inputs{}, "1m", p)
	if math.Abs(out.Strength-0.6*p.ShortTFMultiplier) > 1e-9 {
		t.Fatalf("1m must be damped x%.2f, got %.4f", p.ShortTFMultiplier, out.Strength)
	}

	out = Combine(buySignal(0.6), Inputs{}, "1d", p)
	if math.Abs(out.Strength-0.6*p.LongTFMultiplier) > 1e-9 {
		t.Fatalf("1d must be boosted x%.2f, got %.4f", p.LongTFMultiplier, out.Strength)
	}

	out = Combine(buySignal(0.6), Inputs{}, "1h", p)
	if out.Strength != 0.6 {
		t.Fatalf("1h must be untouched, got %.4f", out.Strength)
	}
}

func TestCombineClampsToOne(t *testing.T) {
	p := defaultCommon()
	in := Inputs{
		Volume:     models.ConfirmationResult{Contribution: 0.2, Reason: "volume surge"},
		Momentum:   models.ConfirmationResult{Contribution: 0.1, Reason: "momentum up"},
		Trend:      models.ConfirmationResult{Contribution: 0.15, Reason: "trend up"},
		Divergence: models.DivergenceBullish,
	}

	out := Combine(buySignal(0.95), in, "1d", p)
	if out.Strength != 1.0 {
		t.Fatalf("strength must clamp to 1.0, got %.4f", out.Strength)
	}
}

func TestCombineWeakSignalGate(t *testing.T) {
	p := defaultCommon() // min_confidence 0.5

	out := Combine(buySignal(0.3), Inputs{}, "1h", p)
	if out.Action != models.SideHold {
		t.Fatalf("weak signal must be gated to HOLD, got %s", out.Action)
	}
	if out.Strength != 0.3 {
		t.Fatalf("numeric strength must survive the gate, got %.4f", out.Strength)
	}
	if !strings.Contains(out.Reason, "weak signal override") {
		t.Fatalf("reason must mention the override, got %q", out.Reason)
	}
}

func TestCombineHoldPassesThrough(t *testing.T) {
	p := defaultCommon()
	hold := holdSignal("nothing to do")
	in := Inputs{Volume: models.ConfirmationResult{Contribution: 0.5, Reason: "volume surge"}}

	out := Combine(hold, in, "1h", p)
	if out.Action != models.SideHold || out.Strength != 0 {
		t.Fatalf("confirmations must not resurrect a HOLD, got %+v", out)
	}
	if out.Reason != "nothing to do" {
		t.Fatalf("HOLD reason must be untouched, got %q", out.Reason)
	}
}

func TestCombineMonotonicity(t *testing.T) {
	p := defaultCommon()

	prev := -1.0
	for _, c := range []float64{0, 0.02, 0.05, 0.08, 0.1, 0.15} {
		in := Inputs{Momentum: models.ConfirmationResult{Contribution: c, Reason: "momentum up"}}
		out := Combine(buySignal(0.6), in, "1h", p)
		if out.Strength < prev {
			t.Fatalf("growing matching contribution must never lower strength: %.4f < %.4f", out.Strength, prev)
		}
		prev = out.Strength
	}
}

func TestCombineReasonTrail(t *testing.T) {
	p := defaultCommon()
	in := Inputs{
		Volume:     models.ConfirmationResult{Contribution: 0.15, Reason: "volume surge x2.2"},
		Momentum:   models.ConfirmationResult{Contribution: 0.1, Reason: "momentum +3.00%/10b"},
		Divergence: models.DivergenceBullish,
	}

	out := Combine(buySignal(0.6), in, "1m", p)
	for _, want := range []string{"primary", "volume surge", "momentum", "divergence", "tf 1m"} {
		if !strings.Contains(out.Reason, want) {
			t.Errorf("reason trail missing %q: %q", want, out.Reason)
		}
	}
}

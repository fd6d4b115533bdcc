package service

import (
	"strings"
	"testing"

	"signal_engine/internal/models"
)

func calmSeries() models.MarketSeries {
	return makeSeries("1h", repeat(100, 30), nil, map[string][]float64{
		volatilityColumn: repeat(1.0, 30),
	})
}

func TestRiskVolatilityVeto(t *testing.T) {
	p := defaultCommon()
	s := makeSeries("1h", repeat(100, 30), nil, map[string][]float64{
		volatilityColumn: withLast(repeat(1.0, 30), 3.5),
	})

	out := ApplyRisk(buySignal(0.9), s, p, nil)
	if out.Action != models.SideHold {
		t.Fatalf("volatility gate must veto, got %s", out.Action)
	}
	if out.Type != models.TagRiskVeto || !strings.Contains(out.Reason, "high volatility") {
		t.Fatalf("expected a high volatility veto, got %+v", out)
	}
}

func TestRiskGapVeto(t *testing.T) {
	p := defaultCommon()
	s := makeSeries("1h", withLast(repeat(100, 30), 106), nil, map[string][]float64{
		volatilityColumn: repeat(1.0, 30),
	})

	out := ApplyRisk(buySignal(0.9), s, p, nil)
	if out.Action != models.SideHold || !strings.Contains(out.Reason, "price gap") {
		t.Fatalf("6%% gap must veto, got %+v", out)
	}
}

func TestRiskOverrideCeiling(t *testing.T) {
	p := defaultCommon()
	s := makeSeries("1h", repeat(100, 30), nil, map[string][]float64{
		volatilityColumn: withLast(repeat(1.0, 30), 2.0),
	})

	// ratio 2.0 passes the default ceiling 3.0...
	if out := ApplyRisk(buySignal(0.9), s, p, nil); out.Action != models.SideBuy {
		t.Fatalf("default ceiling must pass ratio 2.0, got %+v", out)
	}

	// ...but trips a stricter per-subscription override
	ceiling := 1.5
	ov := &models.RiskOverrides{MaxVolatilityRatio: &ceiling}
	out := ApplyRisk(buySignal(0.9), s, p, ov)
	if out.Action != models.SideHold || !strings.Contains(out.Reason, "override") {
		t.Fatalf("override ceiling must veto and name itself, got %+v", out)
	}
}

func TestRiskCalmPassThrough(t *testing.T) {
	p := defaultCommon()
	sig := buySignal(0.9)

	out := ApplyRisk(sig, calmSeries(), p, nil)
	if out != sig {
		t.Fatalf("calm market must pass the signal unchanged, got %+v", out)
	}
}

func TestRiskNeverTouchesUpstreamHold(t *testing.T) {
	p := defaultCommon()
	hold := models.Signal{Action: models.SideHold, Strength: 0.3, Reason: "weak signal override", Type: models.TagGoldenCross}

	// even with a vetoable market the HOLD reason trail stays intact
	s := makeSeries("1h", withLast(repeat(100, 30), 110), nil, map[string][]float64{
		volatilityColumn: withLast(repeat(1.0, 30), 9.0),
	})
	out := ApplyRisk(hold, s, p, nil)
	if out != hold {
		t.Fatalf("risk must not rewrite an upstream HOLD, got %+v", out)
	}
}

func TestRiskMissingVolatilityIsNeutral(t *testing.T) {
	p := defaultCommon()
	s := makeSeries("1h", repeat(100, 30), nil, nil)

	// no volatility column: check simply does not run
	if out := ApplyRisk(buySignal(0.9), s, p, nil); out.Action != models.SideBuy {
		t.Fatalf("missing volatility column must not veto, got %+v", out)
	}
}

func TestRiskVetoKeepsPriorTrail(t *testing.T) {
	p := defaultCommon()
	sig := models.Signal{Action: models.SideSell, Strength: 0.8, Reason: "death cross; volume surge", Type: models.TagDeathCross}
	s := makeSeries("1h", withLast(repeat(100, 30), 93), nil, map[string][]float64{
		volatilityColumn: repeat(1.0, 30),
	})

	out := ApplyRisk(sig, s, p, nil)
	if out.Action != models.SideHold {
		t.Fatalf("7%% gap must veto, got %s", out.Action)
	}
	if !strings.Contains(out.Reason, "death cross; volume surge") {
		t.Fatalf("veto must keep the prior trail for audit, got %q", out.Reason)
	}
}

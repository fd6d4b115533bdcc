package service

import (
	"math"
	"strings"
	"testing"
)

func TestVolumeConfirmationSurge(t *testing.T) {
	p := defaultCommon()
	vols := withLast(repeat(1000, 30), 2500)
	s := makeSeries("1h", repeat(100, 30), vols, nil)

	res := VolumeConfirmation(s, p)
	// ratio 2.5 over threshold 1.5 -> weight * min(2.5/1.5, 2) = 0.1*1.666
	want := p.VolumeWeight * (2.5 / 1.5)
	if math.Abs(res.Contribution-want) > 1e-9 {
		t.Fatalf("expected contribution %.4f, got %.4f", want, res.Contribution)
	}
	if !strings.Contains(res.Reason, "surge") {
		t.Fatalf("reason should mention the surge, got %q", res.Reason)
	}
}

func TestVolumeConfirmationScaleCapped(t *testing.T) {
	p := defaultCommon()
	vols := withLast(repeat(1000, 30), 50000)
	s := makeSeries("1h", repeat(100, 30), vols, nil)

	res := VolumeConfirmation(s, p)
	if want := p.VolumeWeight * 2.0; math.Abs(res.Contribution-want) > 1e-9 {
		t.Fatalf("scale must cap at 2.0: expected %.4f, got %.4f", want, res.Contribution)
	}
}

func TestVolumeConfirmationThin(t *testing.T) {
	p := defaultCommon()
	vols := withLast(repeat(1000, 30), 300)
	s := makeSeries("1h", repeat(100, 30), vols, nil)

	res := VolumeConfirmation(s, p)
	if res.Contribution != -p.VolumeWeight {
		t.Fatalf("expected fixed negative %.4f, got %.4f", -p.VolumeWeight, res.Contribution)
	}
}

func TestVolumeConfirmationNeutral(t *testing.T) {
	p := defaultCommon()
	s := makeSeries("1h", repeat(100, 30), repeat(1000, 30), nil)

	if res := VolumeConfirmation(s, p); res.Contribution != 0 {
		t.Fatalf("ratio ~1.0 must be neutral, got %.4f", res.Contribution)
	}
}

func TestVolumeConfirmationZeroAverage(t *testing.T) {
	p := defaultCommon()
	vols := withLast(repeat(0, 30), 5000)
	s := makeSeries("1h", repeat(100, 30), vols, nil)

	// zero average volume: ratio defaults to 1.0, neutral, no panic
	if res := VolumeConfirmation(s, p); res.Contribution != 0 {
		t.Fatalf("zero average volume must be neutral, got %.4f", res.Contribution)
	}
}

func TestMomentumConfirmation(t *testing.T) {
	p := defaultCommon()

	up := repeat(100, 30)
	for i := 20; i < 30; i++ {
		up[i] = 100 + float64(i-19) // +10% over the last 10 bars
	}
	s := makeSeries("1h", up, nil, nil)
	if res := MomentumConfirmation(s, p); res.Contribution != p.MomentumWeight {
		t.Fatalf("expected +%.2f for rising momentum, got %.4f", p.MomentumWeight, res.Contribution)
	}

	down := repeat(100, 30)
	for i := 20; i < 30; i++ {
		down[i] = 100 - float64(i-19)
	}
	s = makeSeries("1h", down, nil, nil)
	if res := MomentumConfirmation(s, p); res.Contribution != -p.MomentumWeight {
		t.Fatalf("expected -%.2f for falling momentum, got %.4f", p.MomentumWeight, res.Contribution)
	}

	s = makeSeries("1h", repeat(100, 30), nil, nil)
	if res := MomentumConfirmation(s, p); res.Contribution != 0 {
		t.Fatalf("flat series must be neutral, got %.4f", res.Contribution)
	}
}

func TestMomentumConfirmationNotEnoughBars(t *testing.T) {
	p := defaultCommon()
	s := makeSeries("1h", repeat(100, 5), nil, nil)

	if res := MomentumConfirmation(s, p); res.Contribution != 0 {
		t.Fatalf("short history must be neutral, got %.4f", res.Contribution)
	}
}

func TestTrendConfirmationDirection(t *testing.T) {
	p := defaultCommon()

	// steady climb: every horizon delta positive
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	s := makeSeries("1h", closes, nil, nil)
	if res := TrendConfirmation(s, p); res.Contribution != p.TrendWeight {
		t.Fatalf("expected +%.2f for an uptrend, got %.4f", p.TrendWeight, res.Contribution)
	}

	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	s = makeSeries("1h", closes, nil, nil)
	if res := TrendConfirmation(s, p); res.Contribution != -p.TrendWeight {
		t.Fatalf("expected -%.2f for a downtrend, got %.4f", p.TrendWeight, res.Contribution)
	}
}

func TestTrendConfirmationFlat(t *testing.T) {
	p := defaultCommon()
	s := makeSeries("1h", repeat(100, 30), nil, nil)

	if res := TrendConfirmation(s, p); res.Contribution != 0 {
		t.Fatalf("flat series must be neutral, got %.4f", res.Contribution)
	}
}

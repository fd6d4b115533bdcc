package service

import (
	"testing"

	"signal_engine/internal/models"
)

func TestDetectCrossoverGolden(t *testing.T) {
	short := []float64{98, 98, 98, 98, 98, 102}
	long := repeat(100, 6)

	det := DetectCrossover(short, long, 5, 0.05)
	if !det.Detected {
		t.Fatal("expected a crossover")
	}
	if det.Kind != models.CrossGolden {
		t.Fatalf("expected golden, got %s", det.Kind)
	}
	if det.PeriodsAgo != 0 {
		t.Fatalf("expected crossover on the latest bar, got %d periods ago", det.PeriodsAgo)
	}
	// separation 2/100 = 0.02 against cap 0.05 -> 0.4
	if det.Strength < 0.39 || det.Strength > 0.41 {
		t.Fatalf("expected strength ~0.4, got %.3f", det.Strength)
	}
}

func TestDetectCrossoverDeath(t *testing.T) {
	short := []float64{102, 102, 102, 102, 102, 97}
	long := repeat(100, 6)

	det := DetectCrossover(short, long, 5, 0.05)
	if !det.Detected || det.Kind != models.CrossDeath {
		t.Fatalf("expected death cross, got %+v", det)
	}
}

func TestDetectCrossoverNone(t *testing.T) {
	short := repeat(102, 6)
	long := repeat(100, 6)

	det := DetectCrossover(short, long, 5, 0.05)
	if det.Detected {
		t.Fatalf("expected no crossover, got %+v", det)
	}
	if det.Strength != 0 {
		t.Fatalf("detected=false must imply strength=0, got %.3f", det.Strength)
	}
}

func TestDetectCrossoverMostRecentWins(t *testing.T) {
	// death at index 2, golden at index 4: the fresher one wins
	short := []float64{101, 101, 99, 99, 101, 101}
	long := repeat(100, 6)

	det := DetectCrossover(short, long, 5, 0.05)
	if !det.Detected || det.Kind != models.CrossGolden {
		t.Fatalf("expected the most recent (golden) crossover, got %+v", det)
	}
	if det.PeriodsAgo != 1 {
		t.Fatalf("expected periodsAgo=1, got %d", det.PeriodsAgo)
	}
}

func TestDetectCrossoverOutsideWindow(t *testing.T) {
	// crossover happened 4 bars ago, window is only 2
	short := []float64{98, 102, 102, 102, 102, 102}
	long := repeat(100, 6)

	if det := DetectCrossover(short, long, 2, 0.05); det.Detected {
		t.Fatalf("crossover outside scan window must not fire, got %+v", det)
	}
}

func TestDetectCrossoverStrengthCapped(t *testing.T) {
	short := []float64{90, 120}
	long := repeat(100, 2)

	det := DetectCrossover(short, long, 5, 0.05)
	if !det.Detected {
		t.Fatal("expected a crossover")
	}
	if det.Strength != 1.0 {
		t.Fatalf("separation beyond cap must clamp strength to 1, got %.3f", det.Strength)
	}
}

func TestDetectCrossoverShortInput(t *testing.T) {
	if det := DetectCrossover([]float64{100}, []float64{100}, 5, 0.05); det.Detected {
		t.Fatal("single point cannot contain a crossover")
	}
	if det := DetectCrossover(nil, nil, 5, 0.05); det.Detected {
		t.Fatal("empty input cannot contain a crossover")
	}
}

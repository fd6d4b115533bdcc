package service

import (
	"math"

	"signal_engine/internal/models"
)

// DetectCrossover сканирует последние window свечей с самой свежей назад
// и возвращает первое (самое свежее) пересечение короткой и длинной
// скользящих. Сила = разлёт средних в точке пересечения, нормированный
// капом в [0,1].
func DetectCrossover(short, long []float64, window int, strengthCap float64) models.DetectionResult {
	n := len(short)
	if len(long) < n {
		n = len(long)
	}
	if n < 2 || window <= 0 {
		return models.DetectionResult{}
	}

	oldest := n - window
	if oldest < 1 {
		oldest = 1
	}

	for i := n - 1; i >= oldest; i-- {
		prev := short[i-1] - long[i-1]
		cur := short[i] - long[i]

		var kind models.CrossKind
		switch {
		case prev <= 0 && cur > 0:
			kind = models.CrossGolden
		case prev >= 0 && cur < 0:
			kind = models.CrossDeath
		default:
			continue
		}

		return models.DetectionResult{
			Detected:   true,
			Kind:       kind,
			PeriodsAgo: n - 1 - i,
			Strength:   crossStrength(short[i], long[i], strengthCap),
		}
	}
	return models.DetectionResult{}
}

func crossStrength(short, long, cap float64) float64 {
	if long <= 0 || cap <= 0 {
		return 0
	}
	sep := math.Abs(short-long) / long
	if sep > cap {
		sep = cap
	}
	return sep / cap
}

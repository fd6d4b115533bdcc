package helper

import (
	"strings"
	"time"
)

// NormTF приводит таймфрейм к каноническому виду: "60M"/"1H" -> "1h" и т.п.
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1h":
		return "1h"
	case "1440m", "24h", "1d":
		return "1d"
	default:
		return s
	}
}

// TFDuration — длительность одной свечи таймфрейма.
// Неизвестный таймфрейм -> 0, вызывающий решает сам.
func TFDuration(tf string) time.Duration {
	switch NormTF(tf) {
	case "1m":
		return time.Minute
	case "3m":
		return 3 * time.Minute
	case "5m":
		return 5 * time.Minute
	case "10m":
		return 10 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "2h":
		return 2 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "6h":
		return 6 * time.Hour
	case "12h":
		return 12 * time.Hour
	case "1d":
		return 24 * time.Hour
	case "1w":
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Clamp01 зажимает x в [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// SeriesKey — ключ потока "symbol:tf" для роутинга снапшотов.
func SeriesKey(symbol, tf string) string { return symbol + ":" + NormTF(tf) }

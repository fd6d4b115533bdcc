package service

import (
	"fmt"
	"strings"
	"time"

	"signal_engine/internal/helper"
	"signal_engine/internal/models"
)

// демпфер силы при тонком объёме
const volumeDamping = 0.8

// Inputs — всё, что комбинатор смешивает с первичным сигналом.
type Inputs struct {
	Volume     models.ConfirmationResult
	Momentum   models.ConfirmationResult
	Trend      models.ConfirmationResult
	Divergence models.DivergenceKind
}

// Combine накапливает силу в фиксированном порядке:
// объём -> momentum -> тренд -> дивергенция -> множитель таймфрейма ->
// кламп -> гейт минимальной уверенности. Направление первичного сигнала
// не меняется никогда, подтверждения двигают только величину.
func Combine(primary models.Signal, in Inputs, timeframe string, p CommonParams) models.Signal {
	if primary.Action == models.SideHold {
		// подтверждения не умеют превращать HOLD в сделку
		primary.Strength = helper.Clamp01(primary.Strength)
		return primary
	}

	strength := primary.Strength
	trail := []string{primary.Reason}

	// 1) объём: плюс аддитивно, минус — демпфирование
	if in.Volume.Contribution > 0 {
		strength += in.Volume.Contribution
		trail = append(trail, in.Volume.Reason)
	} else if in.Volume.Contribution < 0 {
		strength *= volumeDamping
		trail = append(trail, in.Volume.Reason+" (damped)")
	}

	// 2) momentum и тренд — только по направлению сигнала
	if matched, add := directional(primary.Action, in.Momentum); matched {
		strength += add
		trail = append(trail, in.Momentum.Reason)
	}
	if matched, add := directional(primary.Action, in.Trend); matched {
		strength += add
		trail = append(trail, in.Trend.Reason)
	}

	// 3) дивергенция — бонус при совпадении направления
	if divergenceMatches(primary.Action, in.Divergence) {
		strength += p.DivergenceBonus
		trail = append(trail, fmt.Sprintf("%s divergence +%.2f", in.Divergence, p.DivergenceBonus))
	}

	// 4) множитель таймфрейма
	if mult := timeframeMultiplier(timeframe, p); mult != 1.0 {
		strength *= mult
		trail = append(trail, fmt.Sprintf("tf %s x%.2f", helper.NormTF(timeframe), mult))
	}

	// 5) кламп
	strength = helper.Clamp01(strength)

	out := models.Signal{
		Action:   primary.Action,
		Strength: strength,
		Type:     primary.Type,
		Reason:   strings.Join(trail, "; "),
	}

	// 6) гейт: слабый сигнал не торгуем, но численную силу сохраняем
	if strength < p.MinConfidence {
		out.Action = models.SideHold
		out.Reason += fmt.Sprintf("; weak signal override (%.2f < %.2f)", strength, p.MinConfidence)
	}
	return out
}

// directional: вклад засчитывается только если его знак совпадает с
// направлением действия; добавляется всегда величина, не знак.
func directional(action models.Side, c models.ConfirmationResult) (bool, float64) {
	if c.Contribution == 0 {
		return false, 0
	}
	if action == models.SideBuy && c.Contribution > 0 {
		return true, c.Contribution
	}
	if action == models.SideSell && c.Contribution < 0 {
		return true, -c.Contribution
	}
	return false, 0
}

func divergenceMatches(action models.Side, d models.DivergenceKind) bool {
	return (action == models.SideBuy && d == models.DivergenceBullish) ||
		(action == models.SideSell && d == models.DivergenceBearish)
}

// timeframeMultiplier: короткие ТФ шумные — режем, дневки и длиннее —
// чуть доверяем больше.
func timeframeMultiplier(tf string, p CommonParams) float64 {
	d := helper.TFDuration(tf)
	switch {
	case d <= 0:
		return 1.0
	case d <= 5*time.Minute:
		return p.ShortTFMultiplier
	case d >= 24*time.Hour:
		return p.LongTFMultiplier
	default:
		return 1.0
	}
}

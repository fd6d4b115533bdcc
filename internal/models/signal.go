package models

// Side действия движка: "BUY"/"SELL"/"HOLD".
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	SideHold Side = "HOLD"
)

// Категориальные теги сигналов.
const (
	TagNoSignal         = "NO_SIGNAL"
	TagGoldenCross      = "GOLDEN_CROSS"
	TagDeathCross       = "DEATH_CROSS"
	TagTrendContinue    = "TREND_CONTINUATION"
	TagOversold         = "OVERSOLD"
	TagOverbought       = "OVERBOUGHT"
	TagExtremeOversold  = "EXTREME_OVERSOLD"
	TagExtremeOverbought = "EXTREME_OVERBOUGHT"
	TagModelForecast    = "MODEL_FORECAST"
	TagLowConfidence    = "LOW_CONFIDENCE"
	TagRiskVeto         = "RISK_VETO"
)

// CrossKind — тип пересечения скользящих.
type CrossKind int

const (
	CrossNone CrossKind = iota
	CrossGolden
	CrossDeath
)

func (k CrossKind) String() string {
	switch k {
	case CrossGolden:
		return "golden"
	case CrossDeath:
		return "death"
	default:
		return "none"
	}
}

// DetectionResult — результат детектора пересечения.
// Detected=false всегда означает Strength=0.
type DetectionResult struct {
	Detected   bool
	Kind       CrossKind
	PeriodsAgo int
	Strength   float64 // [0,1]
}

// DivergenceKind — расхождение цены и осциллятора.
type DivergenceKind int

const (
	DivergenceNone DivergenceKind = iota
	DivergenceBullish
	DivergenceBearish
)

func (d DivergenceKind) String() string {
	switch d {
	case DivergenceBullish:
		return "bullish"
	case DivergenceBearish:
		return "bearish"
	default:
		return "none"
	}
}

// ConfirmationResult — подписанный вклад одного анализатора.
// Знак: + подтверждает движение вверх, − вниз/ослабляет.
type ConfirmationResult struct {
	Contribution float64
	Reason       string
}

// Signal — промежуточный сигнал до клампа: Strength может временно
// выходить за [0,1], пока комбинатор накапливает вклады.
type Signal struct {
	Action   Side
	Strength float64
	Reason   string
	Type     string
}

// Action — финальное неизменяемое решение движка.
// Confidence всегда в [0,1]. Для HOLD это уверенность в воздержании,
// не размер позиции.
type Action struct {
	Action     Side    `json:"action"`
	Magnitude  float64 `json:"magnitude"` // последняя цена закрытия
	Reason     string  `json:"reason"`
	Type       string  `json:"signal_type"`
	Confidence float64 `json:"confidence"`
}

// Hold — защитный HOLD. По договорённости все fallback-и несут
// confidence 0.0, даже если в источнике это было иначе.
func Hold(tag, reason string, magnitude float64) Action {
	return Action{
		Action:     SideHold,
		Magnitude:  magnitude,
		Reason:     reason,
		Type:       tag,
		Confidence: 0,
	}
}

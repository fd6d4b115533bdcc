package models

// Subscription — подписка пользователя на стратегию: что считать и на чём.
// Params валидируются схемой варианта при создании сессии.
type Subscription struct {
	ID        string                 `yaml:"id"`
	Symbol    string                 `yaml:"symbol"`
	Timeframe string                 `yaml:"timeframe"`
	Variant   string                 `yaml:"variant"` // crossover | oscillator | model
	Params    map[string]interface{} `yaml:"params"`

	Risk *RiskOverrides `yaml:"risk,omitempty"`
}

// RiskOverrides — пер-подписочный оверрайд риск-менеджера.
// nil-поле — оставляем дефолт движка.
type RiskOverrides struct {
	MaxVolatilityRatio *float64 `yaml:"max_volatility_ratio,omitempty" json:"max_volatility_ratio,omitempty"`
}

// EngineAction — решение движка, привязанное к подписке (для аудита/нотификаций).
type EngineAction struct {
	SubscriptionID string `json:"subscription_id"`
	Symbol         string `json:"symbol"`
	Timeframe      string `json:"timeframe"`
	Variant        string `json:"variant"`
	Action         Action `json:"action"`
}

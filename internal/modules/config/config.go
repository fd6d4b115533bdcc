package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"signal_engine/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	feedURLENV        = "FEED_URL"
)

// Config ...
type Config struct {
	DB string

	Service struct {
		Name       string
		HealthAddr string
	}

	Feed struct {
		URL        string
		WindowBars int // сколько свечей держим в скользящем окне снапшота
	}

	Telegram struct {
		Token  string
		ChatID int64
	}

	Tracing struct {
		Enabled bool
		Host    string
		Port    int
	}

	// Внешний форекастер для варианта model. Пустой URL — вариант
	// недоступен, подписки model валят старт.
	Forecast struct {
		URL string
	}

	// Буфер канала решений: переполнился — дропаем с предупреждением.
	ActionBuffer int

	// Подписки живут отдельным yaml-файлом, чтобы их можно было
	// катать без рестарта конфига сервиса.
	SubscriptionsFile string
	Subscriptions     []models.Subscription
}

// NewConfig читает configs/<CONFIG_FILE|values_local.yaml> + ENV-оверрайды.
func NewConfig() (*Config, error) {
	v := viper.New()

	name := os.Getenv(configFilePathENV)
	if name == "" {
		name = "values_local"
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")

	v.SetDefault("service.name", "signal-engine")
	v.SetDefault("service.health_addr", ":8080")
	v.SetDefault("feed.window_bars", 200)
	v.SetDefault("action_buffer", 4096)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)
	v.SetDefault("subscriptions_file", "configs/subscriptions.yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	cfg := &Config{}
	cfg.DB = v.GetString("db_dsn")
	cfg.Service.Name = v.GetString("service.name")
	cfg.Service.HealthAddr = v.GetString("service.health_addr")
	cfg.Feed.URL = v.GetString("feed.url")
	cfg.Feed.WindowBars = v.GetInt("feed.window_bars")
	cfg.Telegram.Token = v.GetString("telegram.token")
	cfg.Telegram.ChatID = v.GetInt64("telegram.chat_id")
	cfg.Tracing.Enabled = v.GetBool("tracing.enabled")
	cfg.Tracing.Host = v.GetString("tracing.host")
	cfg.Tracing.Port = v.GetInt("tracing.port")
	cfg.Forecast.URL = v.GetString("forecast.url")
	cfg.ActionBuffer = v.GetInt("action_buffer")
	cfg.SubscriptionsFile = v.GetString("subscriptions_file")

	// секреты и DSN удобнее держать в ENV
	if token := os.Getenv(tokenTelegramENV); token != "" {
		cfg.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		cfg.DB = dsn
	}
	if url := os.Getenv(feedURLENV); url != "" {
		cfg.Feed.URL = url
	}

	if cfg.Feed.WindowBars < 2 {
		return nil, errors.New("feed.window_bars must be >= 2")
	}

	subs, err := loadSubscriptions(cfg.SubscriptionsFile)
	if err != nil {
		return nil, err
	}
	cfg.Subscriptions = subs

	return cfg, nil
}

// loadSubscriptions — плоский yaml-список подписок.
// Параметры стратегий здесь НЕ валидируются: этим занимается схема
// варианта при создании сессии (fail fast до первого вызова движка).
func loadSubscriptions(path string) ([]models.Subscription, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // пустой список — законно, подписки могут прийти позже
		}
		return nil, errors.Wrap(err, "read subscriptions file")
	}

	var out struct {
		Subscriptions []models.Subscription `yaml:"subscriptions"`
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode subscriptions yaml")
	}
	return out.Subscriptions, nil
}

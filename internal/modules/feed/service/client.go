package service

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"signal_engine/internal/helper"
	"signal_engine/internal/models"
	"signal_engine/internal/modules/config"
	healthsvc "signal_engine/internal/modules/health/service"
	"signal_engine/pkg/logger"
)

// Snapshot — неизменяемый срез рынка, готовый к оценке движком.
type Snapshot struct {
	Symbol    string
	Timeframe string
	Series    models.MarketSeries
}

// Client — WS-клиент индикаторного сервиса: подписывается на пары
// (символ, таймфрейм), собирает закрытые свечи в скользящее окно и
// отдаёт снапшоты наружу. Сырые индикаторы считает апстрим, мы только
// принимаем готовые колонки.
type Client struct {
	cfg   *config.Config
	state *healthsvc.State

	wsDialer *websocket.Dialer

	mu      sync.Mutex
	windows map[string][]models.Bar
}

func NewClient(cfg *config.Config, state *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		state:    state,
		wsDialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		windows:  make(map[string][]models.Bar),
	}
}

// subscribeArg — один аргумент подписки в кадре "op":"subscribe".
type subscribeArg struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

// barFrame — кадр закрытой свечи от индикаторного сервиса.
type barFrame struct {
	Symbol    string     `json:"symbol"`
	Timeframe string     `json:"timeframe"`
	Bar       models.Bar `json:"bar"`
}

// Start держит соединение и шлёт снапшоты в out до отмены контекста.
// Реконнект с паузой, keepalive ping — иначе апстрим рвёт соединение.
func (c *Client) Start(ctx context.Context, out chan<- Snapshot) {
	args := c.subscriptionArgs()
	if len(args) == 0 {
		logger.Warn("feed: no subscriptions, streamer not started")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		logger.Info("feed: connecting %s, %d streams", c.cfg.Feed.URL, len(args))
		conn, _, err := c.wsDialer.DialContext(ctx, c.cfg.Feed.URL, nil)
		if err != nil {
			logger.Error("feed: dial error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		if err := conn.WriteJSON(map[string]any{"op": "subscribe", "args": args}); err != nil {
			logger.Error("feed: subscribe error: %v", err)
			_ = conn.Close()
			time.Sleep(time.Second)
			continue
		}

		c.state.SetWSConnected(true)
		c.readLoop(ctx, conn, out)
		c.state.SetWSConnected(false)

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- Snapshot) {
	defer func() { _ = conn.Close() }()

	stopPing := make(chan struct{})
	defer close(stopPing)
	go func() {
		t := time.NewTicker(20 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopPing:
				return
			case <-t.C:
				_ = conn.WriteJSON(map[string]string{"op": "ping"})
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Error("feed: read error: %v", err)
			return
		}

		var frame barFrame
		if err := sonic.Unmarshal(msg, &frame); err != nil {
			continue // служебные кадры (pong, подтверждения) пропускаем
		}
		if frame.Symbol == "" || frame.Bar.Close <= 0 {
			continue
		}

		snap := c.push(frame)
		c.state.TouchBar(frame.Bar.End)

		select {
		case out <- snap:
		case <-ctx.Done():
			return
		}
	}
}

// push дописывает свечу в окно пары и отдаёт снапшот-копию: раннер и
// движок не должны видеть последующие мутации окна.
func (c *Client) push(frame barFrame) Snapshot {
	tf := helper.NormTF(frame.Timeframe)
	key := helper.SeriesKey(frame.Symbol, tf)

	c.mu.Lock()
	defer c.mu.Unlock()

	w := append(c.windows[key], frame.Bar)
	if limit := c.cfg.Feed.WindowBars; len(w) > limit {
		w = w[len(w)-limit:]
	}
	c.windows[key] = w

	bars := make([]models.Bar, len(w))
	copy(bars, w)

	return Snapshot{
		Symbol:    frame.Symbol,
		Timeframe: tf,
		Series: models.MarketSeries{
			Symbol:    frame.Symbol,
			Timeframe: tf,
			Bars:      bars,
		},
	}
}

// subscriptionArgs — уникальные пары (символ, таймфрейм) из подписок.
func (c *Client) subscriptionArgs() []subscribeArg {
	seen := make(map[string]struct{})
	var args []subscribeArg
	for _, sub := range c.cfg.Subscriptions {
		tf := helper.NormTF(sub.Timeframe)
		key := helper.SeriesKey(sub.Symbol, tf)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		args = append(args, subscribeArg{Symbol: sub.Symbol, Timeframe: tf})
	}
	return args
}

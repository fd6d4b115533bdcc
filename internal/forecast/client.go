package forecast

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"signal_engine/internal/models"
)

// Client — HTTP-клиент внешнего форекастера. Движок видит его через
// интерфейс Predictor и только гейтит по уверенности.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type predictRequest struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Closes    []float64 `json:"closes"`
}

type predictResponse struct {
	Direction  string  `json:"direction"` // BUY | SELL | HOLD
	Confidence float64 `json:"confidence"`
}

func (c *Client) Predict(s models.MarketSeries) (models.Side, float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body, err := sonic.Marshal(predictRequest{
		Symbol:    s.Symbol,
		Timeframe: s.Timeframe,
		Closes:    s.Closes(),
	})
	if err != nil {
		return models.SideHold, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/predict", bytes.NewReader(body))
	if err != nil {
		return models.SideHold, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.SideHold, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SideHold, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return models.SideHold, 0, fmt.Errorf("forecast: status %d: %s", resp.StatusCode, rb)
	}

	var out predictResponse
	if err := sonic.Unmarshal(rb, &out); err != nil {
		return models.SideHold, 0, err
	}

	switch out.Direction {
	case string(models.SideBuy):
		return models.SideBuy, out.Confidence, nil
	case string(models.SideSell):
		return models.SideSell, out.Confidence, nil
	case string(models.SideHold):
		return models.SideHold, out.Confidence, nil
	default:
		return models.SideHold, 0, fmt.Errorf("forecast: unknown direction %q", out.Direction)
	}
}

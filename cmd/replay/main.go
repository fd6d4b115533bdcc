package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"
	"gopkg.in/yaml.v2"

	"signal_engine/internal/helper"
	"signal_engine/internal/models"
	enginesvc "signal_engine/internal/modules/engine/service"
	"signal_engine/pkg/logger"
)

// replayFile — свечи с индикаторами, выгруженные индикаторным
// сервисом в JSON.
type replayFile struct {
	Symbol    string       `json:"symbol"`
	Timeframe string       `json:"timeframe"`
	Bars      []models.Bar `json:"bars"`
}

type options struct {
	barsPath string
	subPath  string
	onlyActs bool
}

func loadBars(path string) (*replayFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rf replayFile
	if err := sonic.Unmarshal(raw, &rf); err != nil {
		return nil, err
	}
	if len(rf.Bars) == 0 {
		return nil, fmt.Errorf("no bars in %s", path)
	}
	return &rf, nil
}

func loadSubscription(path string) (*models.Subscription, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sub models.Subscription
	if err := yaml.Unmarshal(raw, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// replay прогоняет движок по растущим префиксам серии: так видно
// всю цепочку решений, как если бы свечи приходили вживую.
func replay(opts options, rf *replayFile, sub *models.Subscription) error {
	eng, err := enginesvc.New(sub.Variant, sub.Params, nil)
	if err != nil {
		return err
	}

	tf := helper.NormTF(rf.Timeframe)
	for i := 1; i <= len(rf.Bars); i++ {
		series := models.MarketSeries{
			Symbol:    rf.Symbol,
			Timeframe: tf,
			Bars:      rf.Bars[:i],
		}
		act := eng.Evaluate(series, sub.Risk)
		if opts.onlyActs && act.Action == models.SideHold {
			continue
		}
		fmt.Printf("[%3d] %s %s conf=%.2f @ %.4f\n      %s\n",
			i, act.Action, act.Type, act.Confidence, act.Magnitude, act.Reason)
	}
	return nil
}

func main() {
	opts := options{}
	flag.StringVar(&opts.barsPath, "bars", "", "JSON file with bars and indicator columns")
	flag.StringVar(&opts.subPath, "sub", "", "yaml file with a single subscription")
	flag.BoolVar(&opts.onlyActs, "only-actions", false, "skip HOLD lines")
	flag.Parse()

	if opts.barsPath == "" || opts.subPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			func() (*replayFile, error) { return loadBars(opts.barsPath) },
			func() (*models.Subscription, error) { return loadSubscription(opts.subPath) },
		),
		fx.Invoke(func(sd fx.Shutdowner, rf *replayFile, sub *models.Subscription) error {
			if err := replay(opts, rf, sub); err != nil {
				return err
			}
			return sd.Shutdown()
		}),
	)
	app.Run()

	if err := app.Err(); err != nil {
		log.Fatal(err)
	}
}

package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/chartdef-go/charts"
)

type Renderer interface {
	RenderAll(ctx context.Context) ([]charts.Result, error)
}

// Publisher receives every rendered definition, the MQTT publisher and
// the websocket hub both implement it.
type Publisher interface {
	Publish(chartID, library string, body []byte) error
}

func NewPublishTask(logger *slog.Logger, renderer Renderer, publishers ...Publisher) func() {
	return func() {
		logger.Debug("running publish task...")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		results, err := renderer.RenderAll(ctx)
		if err != nil {
			logger.Warn("some charts failed to render", slog.Any("error", err))
		}

		failed := 0
		for _, res := range results {
			for _, p := range publishers {
				if err := p.Publish(res.ChartID, res.Library, res.Body); err != nil {
					failed++
					logger.Error("publishing definition failed",
						slog.String("chart", res.ChartID),
						slog.String("library", res.Library),
						slog.Any("error", err))
				}
			}
		}

		logger.Info("publish task done", slog.Int("definitions", len(results)), slog.Int("failed", failed))
	}
}

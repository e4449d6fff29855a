package publisher

import (
	"context"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
)

// DryRunPublisher logs blocks instead of delivering them.
type DryRunPublisher struct {
	logger *logger.Logger
}

func NewDryRunPublisher(log *logger.Logger) *DryRunPublisher {
	return &DryRunPublisher{logger: log}
}

func (p *DryRunPublisher) Mode() string { return config.ModeDryRun }

func (p *DryRunPublisher) Publish(ctx context.Context, blocks []entity.Block) Report {
	for _, block := range blocks {
		p.logger.InfoContext(ctx, "Dry run block",
			logger.StringField("category", string(block.Category)),
			logger.StringField("sport", block.Sport),
			logger.StringField("text", block.Text))
	}
	return Report{Mode: p.Mode(), Skipped: len(blocks)}
}

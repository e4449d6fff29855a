package strategy

import (
	"context"
	"fmt"
	"time"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/repository"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/utils"
)

// SignalStrategy extracts one kind of signal for a sport.
type SignalStrategy interface {
	Extract(ctx context.Context, sport config.Sport) (*Extraction, error)
	GetType() string
	Category() entity.Category
}

// Extraction is the outcome of one strategy run for one sport.
type Extraction struct {
	Signals []entity.Signal
	Stats   Stats
}

// Stats describes how much of the upstream data could be used.
type Stats struct {
	GamesScanned   int `json:"games_scanned"`
	FetchFailures  int `json:"fetch_failures"`
	RecordsSkipped int `json:"records_skipped"`
}

// gameLoader fetches the games of a sport for today through today + DaysAhead.
type gameLoader struct {
	repo repository.InsideEdgeRepository
	now  func() time.Time
}

func (g gameLoader) load(ctx context.Context, sport config.Sport) ([]entity.Game, error) {
	from := utils.StartOfDay(g.now())
	to := from.AddDate(0, 0, sport.DaysAhead)
	games, err := g.repo.GetGames(ctx, sport.Code, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sport.Code, err)
	}
	return games, nil
}

// nowFunc returns a clock in the configured timezone.
func nowFunc(cfg *config.Config) func() time.Time {
	return func() time.Time { return utils.TimeNowIn(cfg.App.Timezone) }
}

// skipRecord logs a record that could not be evaluated.
func skipRecord(ctx context.Context, log *logger.Logger, strategy string, sport string, err error) {
	log.WarnContext(ctx, "Skipping record",
		logger.StringField("strategy", strategy),
		logger.StringField("sport", sport),
		logger.ErrorField(err))
}

// sportName returns the display name of a sport.
func sportName(sport config.Sport) string {
	if sport.Name != "" {
		return sport.Name
	}
	return sport.Code
}

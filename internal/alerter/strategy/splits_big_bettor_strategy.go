package strategy

import (
	"context"
	"fmt"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/repository"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
)

// SplitsBigBettorStrategy applies the big bettor rule to the DraftKings splits feed.
type SplitsBigBettorStrategy struct {
	logger    *logger.Logger
	repo      repository.SplitsRepository
	threshold float64
}

func NewSplitsBigBettorStrategy(cfg *config.Config, log *logger.Logger, repo repository.SplitsRepository) *SplitsBigBettorStrategy {
	return &SplitsBigBettorStrategy{
		logger:    log,
		repo:      repo,
		threshold: cfg.Thresholds.BigBettor,
	}
}

func (s *SplitsBigBettorStrategy) GetType() string { return config.StrategySplitsBigBettor }

func (s *SplitsBigBettorStrategy) Category() entity.Category { return entity.CategoryBigBettor }

func (s *SplitsBigBettorStrategy) Extract(ctx context.Context, sport config.Sport) (*Extraction, error) {
	out := &Extraction{}
	feed := repository.SplitsFeed{Endpoint: sport.SplitsEndpoint, Key: sport.SplitsKey}
	if feed.Endpoint == "" {
		feed.Endpoint = "big-bettor-alerts-" + sport.Code
	}
	if feed.Key == "" {
		feed.Key = "big_bettor_alerts"
	}

	picks, err := s.repo.GetBigBettorPicks(ctx, feed)
	if err != nil {
		out.Stats.FetchFailures++
		return out, fmt.Errorf("%s: %w", sport.Code, err)
	}

	for _, pick := range picks {
		out.Stats.GamesScanned++
		bets, handle, err := pick.Percentages()
		if err != nil {
			out.Stats.RecordsSkipped++
			skipRecord(ctx, s.logger, s.GetType(), sport.Code, fmt.Errorf("pick %q: %w", pick.Team, err))
			continue
		}
		diff := float64(handle - bets)
		if diff < s.threshold {
			continue
		}

		description := joinNonEmpty(" ", pick.Team, pick.Market)
		if pick.Odds != "" {
			description = fmt.Sprintf("%s (%s)", description, pick.Odds)
		}
		out.Signals = append(out.Signals, entity.Signal{
			Category:    entity.CategoryBigBettor,
			Sport:       sport.Code,
			Description: description,
			Metric:      fmt.Sprintf("%d%% of handle on %d%% of bets (+%d)", handle, bets, handle-bets),
			Detail:      joinNonEmpty(" | ", pick.Game, pick.StartTime),
			Score:       diff,
			Record:      fmt.Sprintf("%d%% bets / %d%% handle", bets, handle),
		})
	}
	return out, nil
}

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

// BigBettorStrategy flags market sides where the share of money staked exceeds
// the share of tickets by at least the threshold.
type BigBettorStrategy struct {
	logger    *logger.Logger
	repo      repository.InsideEdgeRepository
	games     gameLoader
	threshold float64
	location  *time.Location
}

func NewBigBettorStrategy(cfg *config.Config, log *logger.Logger, repo repository.InsideEdgeRepository) *BigBettorStrategy {
	return &BigBettorStrategy{
		logger:    log,
		repo:      repo,
		games:     gameLoader{repo: repo, now: nowFunc(cfg)},
		threshold: cfg.Thresholds.BigBettor,
		location:  utils.LoadLocation(cfg.App.Timezone),
	}
}

func (s *BigBettorStrategy) GetType() string { return config.StrategyBigBettor }

func (s *BigBettorStrategy) Category() entity.Category { return entity.CategoryBigBettor }

func (s *BigBettorStrategy) Extract(ctx context.Context, sport config.Sport) (*Extraction, error) {
	out := &Extraction{}
	games, err := s.games.load(ctx, sport)
	if err != nil {
		out.Stats.FetchFailures++
		return out, err
	}

	for _, game := range games {
		out.Stats.GamesScanned++
		split, err := s.repo.GetPublicMoney(ctx, sport.Code, game.GameID)
		if err != nil {
			out.Stats.FetchFailures++
			continue
		}
		if split == nil {
			continue
		}
		err = utils.Try(func() error {
			out.Signals = append(out.Signals, BigBettorSignals(sport.Code, game, *split, s.threshold, s.location)...)
			return nil
		})
		if err != nil {
			out.Stats.RecordsSkipped++
			skipRecord(ctx, s.logger, s.GetType(), sport.Code, fmt.Errorf("game %s: %w", game.GameID, err))
		}
	}

	s.logger.DebugContext(ctx, "Big bettor extraction finished",
		logger.StringField("sport", sport.Code),
		logger.IntField("games", out.Stats.GamesScanned),
		logger.IntField("signals", len(out.Signals)))
	return out, nil
}

type marketSide struct {
	market string
	team   string
	bets   float64
	stake  float64
	label  string
}

// BigBettorSignals evaluates the four market sides of one game. A side qualifies
// when stake% - bets% >= threshold; a game yields between zero and four signals.
func BigBettorSignals(sport string, game entity.Game, split entity.PublicMoneySplit, threshold float64, loc *time.Location) []entity.Signal {
	odds := game.Odds
	sides := []marketSide{
		{"spread", game.AwayTeam, split.Spread.AwayBetsPct, split.Spread.AwayStakePct, spreadLabel(game.AwayTeam, odds.AwaySpread, odds.AwaySpreadOdds)},
		{"spread", game.HomeTeam, split.Spread.HomeBetsPct, split.Spread.HomeStakePct, spreadLabel(game.HomeTeam, odds.HomeSpread, odds.HomeSpreadOdds)},
		{"moneyline", game.AwayTeam, split.Moneyline.AwayBetsPct, split.Moneyline.AwayStakePct, moneylineLabel(game.AwayTeam, odds.AwayMoneyline)},
		{"moneyline", game.HomeTeam, split.Moneyline.HomeBetsPct, split.Moneyline.HomeStakePct, moneylineLabel(game.HomeTeam, odds.HomeMoneyline)},
	}

	var signals []entity.Signal
	for _, side := range sides {
		if side.bets == 0 && side.stake == 0 {
			continue
		}
		diff := side.stake - side.bets
		if diff < threshold {
			continue
		}
		signals = append(signals, entity.Signal{
			Category:    entity.CategoryBigBettor,
			Sport:       sport,
			Description: side.label,
			Metric:      fmt.Sprintf("%.0f%% of handle on %.0f%% of bets (+%.0f)", side.stake, side.bets, diff),
			Detail:      joinNonEmpty(" | ", game.Matchup(), formatStart(game.StartTime, loc)),
			Score:       diff,
			Record:      fmt.Sprintf("%.0f%% bets / %.0f%% handle", side.bets, side.stake),
		})
	}
	return signals
}

func spreadLabel(team string, line float64, odds int) string {
	if odds == 0 {
		return fmt.Sprintf("%s %s", team, formatLine(line))
	}
	return fmt.Sprintf("%s %s (%s)", team, formatLine(line), formatOdds(odds))
}

func moneylineLabel(team string, odds int) string {
	if odds == 0 {
		return team + " ML"
	}
	return fmt.Sprintf("%s ML (%s)", team, formatOdds(odds))
}

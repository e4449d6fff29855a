package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/repository"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/utils"
)

var titleNoise = strings.NewReplacer(" (Over/Under)", "", " (Yes/No)", "", "Batter ", "", "Pitcher ", "")

// PropRules parameterise prop hit rate qualification for one sport.
type PropRules struct {
	MinSample       int
	Threshold       float64
	UnderExceptions []string
}

func (r PropRules) allowsUnder(propKey string) bool {
	for _, key := range r.UnderExceptions {
		if key == propKey {
			return true
		}
	}
	return false
}

// PropHitRateStrategy flags player props whose historical hit rate clears the sport's threshold.
type PropHitRateStrategy struct {
	logger    *logger.Logger
	repo      repository.InsideEdgeRepository
	games     gameLoader
	minSample int
	threshold float64
}

func NewPropHitRateStrategy(cfg *config.Config, log *logger.Logger, repo repository.InsideEdgeRepository) *PropHitRateStrategy {
	return &PropHitRateStrategy{
		logger:    log,
		repo:      repo,
		games:     gameLoader{repo: repo, now: nowFunc(cfg)},
		minSample: cfg.Thresholds.PropMinSample,
		threshold: cfg.Thresholds.PropHitRate,
	}
}

func (s *PropHitRateStrategy) GetType() string { return config.StrategyPropHitRate }

func (s *PropHitRateStrategy) Category() entity.Category { return entity.CategoryPropHitRate }

// Rules returns the qualification rules for sport.
func (s *PropHitRateStrategy) Rules(sport config.Sport) PropRules {
	return PropRules{
		MinSample:       s.minSample,
		Threshold:       sport.HitRateThreshold(s.threshold),
		UnderExceptions: sport.UnderExceptions,
	}
}

func (s *PropHitRateStrategy) Extract(ctx context.Context, sport config.Sport) (*Extraction, error) {
	out := &Extraction{}
	games, err := s.games.load(ctx, sport)
	if err != nil {
		out.Stats.FetchFailures++
		return out, err
	}

	rules := s.Rules(sport)
	for _, game := range games {
		out.Stats.GamesScanned++
		categories, err := s.repo.GetPlayerProps(ctx, sport.Code, game.GameID)
		if err != nil {
			out.Stats.FetchFailures++
			continue
		}
		signals, skipped := PropSignals(sport.Code, categories, rules)
		out.Signals = append(out.Signals, signals...)
		out.Stats.RecordsSkipped += skipped
	}

	s.logger.DebugContext(ctx, "Prop hit rate extraction finished",
		logger.StringField("sport", sport.Code),
		logger.IntField("games", out.Stats.GamesScanned),
		logger.IntField("signals", len(out.Signals)),
		logger.IntField("skipped", out.Stats.RecordsSkipped))
	return out, nil
}

// PropSignals emits one signal per (prop, player) that clears the rules. Under
// props are only considered for the sport's exception keys. The second return
// value counts malformed entries that were skipped.
func PropSignals(sport string, categories []entity.PropCategory, rules PropRules) ([]entity.Signal, int) {
	var (
		signals []entity.Signal
		skipped int
	)
	for _, category := range categories {
		skipped += category.Malformed
		for _, player := range category.Players {
			var signal *entity.Signal
			err := utils.Try(func() error {
				var err error
				signal, err = evaluateProp(sport, category, player, rules)
				return err
			})
			if err != nil {
				skipped++
				continue
			}
			if signal != nil {
				signals = append(signals, *signal)
			}
		}
	}
	return signals, skipped
}

var errInvalidRecord = errors.New("invalid prop record")

func evaluateProp(sport string, category entity.PropCategory, player entity.PlayerProp, rules PropRules) (*entity.Signal, error) {
	propType := strings.ToLower(player.PropType)
	if propType == "under" && !rules.allowsUnder(category.PropKey) {
		return nil, nil
	}

	record := player.Record
	if record.Total < rules.MinSample || record.Total <= 0 {
		return nil, nil
	}
	if player.PlayerName == "" || record.Hit < 0 || record.Hit > record.Total {
		return nil, fmt.Errorf("%w: %s %s", errInvalidRecord, category.PropKey, player.PlayerName)
	}

	hitRate := float64(record.Hit) / float64(record.Total) * 100
	if hitRate < rules.Threshold {
		return nil, nil
	}

	title := strings.TrimSpace(titleNoise.Replace(category.Title))
	description := strings.Join(strings.Fields(fmt.Sprintf("%s %s %s %s",
		player.PlayerName, titleCase(propType), formatNumber(player.OpeningLine), title)), " ")

	var detail string
	if player.BestPrice != 0 {
		detail = joinNonEmpty(" at ", "Best "+formatOdds(player.BestPrice), player.Sportsbook)
	}

	recordText := fmt.Sprintf("%d-%d", record.Hit, record.Miss)
	return &entity.Signal{
		Category:    entity.CategoryPropHitRate,
		Sport:       sport,
		Description: description,
		Metric:      fmt.Sprintf("%.1f%% (%s)", hitRate, recordText),
		Detail:      detail,
		Score:       hitRate,
		Record:      recordText,
	}, nil
}

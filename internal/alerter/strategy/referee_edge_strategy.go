package strategy

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/repository"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/utils"
)

// BetType is one of the three markets a referee can lean on.
type BetType string

const (
	BetSpread    BetType = "ATS"
	BetMoneyline BetType = "ML"
	BetTotal     BetType = "O/U"
)

const (
	SideHome  = "HOME"
	SideAway  = "AWAY"
	SideOver  = "OVER"
	SideUnder = "UNDER"
)

// RefereeRules parameterise referee edge qualification.
type RefereeRules struct {
	MinROI         float64
	MinRangeSample int
	MinCriteria    int
	Retained       int
}

// RefereeCriterion is one named record that was evaluated for a game.
type RefereeCriterion struct {
	Name   string
	Side   string
	Record entity.RefereeRecord
}

// RefereeEdge is the verdict for one (game, bet type) pair.
type RefereeEdge struct {
	BetType    BetType
	Side       string
	Agreeing   int
	Qualifying int
	Retained   []RefereeCriterion
	Score      float64
}

// EvaluateRefereeMarket returns an edge when at least rules.MinCriteria criteria
// have |ROI| >= rules.MinROI, or nil otherwise. The dominant side is the side with
// the most qualifying criteria; on a tie, the side seen first in criteria order wins.
func EvaluateRefereeMarket(game entity.Game, market entity.RefereeMarket, bet BetType, rules RefereeRules) *RefereeEdge {
	var qualifying []RefereeCriterion
	for _, c := range refereeCriteria(game, market, bet, rules) {
		if math.Abs(c.Record.ROI) >= rules.MinROI && c.Record.ROI != 0 {
			qualifying = append(qualifying, c)
		}
	}
	if len(qualifying) < rules.MinCriteria || len(qualifying) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, c := range qualifying {
		if _, seen := counts[c.Side]; !seen {
			order = append(order, c.Side)
		}
		counts[c.Side]++
	}
	dominant := order[0]
	for _, side := range order[1:] {
		if counts[side] > counts[dominant] {
			dominant = side
		}
	}

	retained := make([]RefereeCriterion, len(qualifying))
	copy(retained, qualifying)
	sort.SliceStable(retained, func(i, j int) bool {
		return math.Abs(retained[i].Record.ROI) > math.Abs(retained[j].Record.ROI)
	})
	if rules.Retained > 0 && len(retained) > rules.Retained {
		retained = retained[:rules.Retained]
	}

	var score float64
	for _, c := range retained {
		score = math.Max(score, math.Abs(c.Record.ROI))
	}

	return &RefereeEdge{
		BetType:    bet,
		Side:       dominant,
		Agreeing:   counts[dominant],
		Qualifying: len(qualifying),
		Retained:   retained,
		Score:      score,
	}
}

// refereeCriteria lists the criteria that apply to this game, in a fixed order:
// overall, conference, home favorite/underdog, then matching line ranges.
func refereeCriteria(game entity.Game, market entity.RefereeMarket, bet BetType, rules RefereeRules) []RefereeCriterion {
	side := func(r entity.RefereeRecord) string {
		if bet == BetTotal {
			if r.ROI >= 0 {
				return SideOver
			}
			return SideUnder
		}
		if r.ROI >= 0 {
			return SideHome
		}
		return SideAway
	}

	criteria := []RefereeCriterion{{Name: "Overall", Side: side(market.Overall), Record: market.Overall}}
	if game.ConferenceGame {
		criteria = append(criteria, RefereeCriterion{Name: "Conference", Side: side(market.Conference), Record: market.Conference})
	}
	switch {
	case game.Odds.HomeMoneyline < 0:
		criteria = append(criteria, RefereeCriterion{Name: "Home favorite", Side: side(market.HomeFavorite), Record: market.HomeFavorite})
	case game.Odds.HomeMoneyline > 0:
		criteria = append(criteria, RefereeCriterion{Name: "Home underdog", Side: side(market.HomeUnderdog), Record: market.HomeUnderdog})
	}

	var line float64
	switch bet {
	case BetSpread:
		line = game.Odds.HomeSpread
	case BetMoneyline:
		line = float64(game.Odds.HomeMoneyline)
	case BetTotal:
		line = game.Odds.Total
	}
	for _, r := range market.Ranges {
		if !r.Contains(line) || r.Sample() < rules.MinRangeSample {
			continue
		}
		criteria = append(criteria, RefereeCriterion{Name: "Range " + r.Label, Side: side(r.RefereeRecord), Record: r.RefereeRecord})
	}
	return criteria
}

// RefereeEdgeStrategy looks for officials whose history leans one way in a game's markets.
type RefereeEdgeStrategy struct {
	logger *logger.Logger
	repo   repository.InsideEdgeRepository
	games  gameLoader
	rules  RefereeRules
}

func NewRefereeEdgeStrategy(cfg *config.Config, log *logger.Logger, repo repository.InsideEdgeRepository) *RefereeEdgeStrategy {
	return &RefereeEdgeStrategy{
		logger: log,
		repo:   repo,
		games:  gameLoader{repo: repo, now: nowFunc(cfg)},
		rules: RefereeRules{
			MinROI:         cfg.Thresholds.RefereeMinROI,
			MinRangeSample: cfg.Thresholds.RefereeMinRangeSample,
			MinCriteria:    cfg.Thresholds.RefereeMinCriteria,
			Retained:       cfg.Thresholds.RefereeRetained,
		},
	}
}

func (s *RefereeEdgeStrategy) GetType() string { return config.StrategyRefereeEdge }

func (s *RefereeEdgeStrategy) Category() entity.Category { return entity.CategoryRefereeEdge }

func (s *RefereeEdgeStrategy) Extract(ctx context.Context, sport config.Sport) (*Extraction, error) {
	out := &Extraction{}
	games, err := s.games.load(ctx, sport)
	if err != nil {
		out.Stats.FetchFailures++
		return out, err
	}

	for _, game := range games {
		out.Stats.GamesScanned++
		stat, err := s.repo.GetRefereeStats(ctx, sport.Code, game.GameID)
		if err != nil {
			out.Stats.FetchFailures++
			continue
		}
		if stat == nil {
			continue
		}
		err = utils.Try(func() error {
			out.Signals = append(out.Signals, RefereeSignals(sport.Code, game, *stat, s.rules)...)
			return nil
		})
		if err != nil {
			out.Stats.RecordsSkipped++
			skipRecord(ctx, s.logger, s.GetType(), sport.Code, fmt.Errorf("game %s: %w", game.GameID, err))
		}
	}
	return out, nil
}

// RefereeSignals evaluates the spread, moneyline and total markets of one game.
func RefereeSignals(sport string, game entity.Game, stat entity.RefereeStat, rules RefereeRules) []entity.Signal {
	markets := []struct {
		bet    BetType
		market entity.RefereeMarket
	}{
		{BetSpread, stat.Spread},
		{BetMoneyline, stat.Moneyline},
		{BetTotal, stat.Total},
	}

	var signals []entity.Signal
	for _, m := range markets {
		edge := EvaluateRefereeMarket(game, m.market, m.bet, rules)
		if edge == nil {
			continue
		}

		criteria := make([]string, 0, len(edge.Retained))
		for _, c := range edge.Retained {
			criteria = append(criteria, fmt.Sprintf("%s %d-%d (%s%% ROI)", c.Name, c.Record.Wins, c.Record.Losses, formatSigned(c.Record.ROI)))
		}

		signals = append(signals, entity.Signal{
			Category:    entity.CategoryRefereeEdge,
			Sport:       sport,
			Description: refereeEdgeLabel(game, edge),
			Metric:      strings.Join(criteria, "; "),
			Detail:      joinNonEmpty(" | ", refereeLabel(stat.RefereeName), game.Matchup()),
			Score:       edge.Score,
			Record:      fmt.Sprintf("%d/%d criteria", edge.Agreeing, edge.Qualifying),
		})
	}
	return signals
}

func refereeEdgeLabel(game entity.Game, edge *RefereeEdge) string {
	switch edge.Side {
	case SideHome:
		return fmt.Sprintf("%s %s", game.HomeTeam, edge.BetType)
	case SideAway:
		return fmt.Sprintf("%s %s", game.AwayTeam, edge.BetType)
	default:
		if game.Odds.Total > 0 {
			return fmt.Sprintf("%s %s", edge.Side, formatNumber(game.Odds.Total))
		}
		return edge.Side
	}
}

func refereeLabel(name string) string {
	if name == "" {
		return ""
	}
	return "Ref: " + name
}

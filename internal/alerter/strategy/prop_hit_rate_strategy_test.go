package strategy

import (
	"context"
	"testing"
	"time"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mlbRules = PropRules{MinSample: 20, Threshold: 70, UnderExceptions: []string{"pitcher_strikeouts", "pitcher_outs"}}

func TestPropSignalsMinimumSample(t *testing.T) {
	categories := []entity.PropCategory{{
		PropKey: "batter_hits",
		Title:   "Batter Hits (Over/Under)",
		Players: []entity.PlayerProp{
			{PlayerName: "Aaron Judge", PropType: "over", OpeningLine: 0.5, Record: entity.PropRecord{Hit: 19, Miss: 0, Total: 19}},
			{PlayerName: "Nobody", PropType: "over", OpeningLine: 0.5, Record: entity.PropRecord{Total: 0}},
		},
	}}
	signals, skipped := PropSignals("mlb", categories, mlbRules)
	assert.Empty(t, signals)
	assert.Zero(t, skipped)
}

func TestPropSignalsQualifying(t *testing.T) {
	categories := []entity.PropCategory{
		{
			PropKey: "batter_hits",
			Title:   "Batter Hits (Over/Under)",
			Players: []entity.PlayerProp{
				{PlayerName: "Aaron Judge", PropType: "over", OpeningLine: 0.5, Record: entity.PropRecord{Hit: 21, Miss: 9, Total: 30}, BestPrice: -120, Sportsbook: "FanDuel"},
				{PlayerName: "Juan Soto", PropType: "over", OpeningLine: 1.5, Record: entity.PropRecord{Hit: 13, Miss: 7, Total: 20}},
				{PlayerName: "Anthony Rizzo", PropType: "under", OpeningLine: 0.5, Record: entity.PropRecord{Hit: 25, Miss: 5, Total: 30}},
			},
		},
		{
			PropKey: "pitcher_strikeouts",
			Title:   "Pitcher Strikeouts (Over/Under)",
			Players: []entity.PlayerProp{
				{PlayerName: "Gerrit Cole", PropType: "under", OpeningLine: 6.5, Record: entity.PropRecord{Hit: 18, Miss: 6, Total: 24}},
			},
		},
		{
			PropKey:   "pitcher_win",
			Title:     "Pitcher Win (Yes/No)",
			Malformed: 2,
			Players: []entity.PlayerProp{
				{PlayerName: "Max Fried", PropType: "yes", OpeningLine: 1, Record: entity.PropRecord{Hit: 16, Miss: 4, Total: 20}},
				{PlayerName: "", PropType: "yes", OpeningLine: 1, Record: entity.PropRecord{Hit: 16, Miss: 4, Total: 20}},
				{PlayerName: "Impossible", PropType: "yes", OpeningLine: 1, Record: entity.PropRecord{Hit: 30, Miss: 0, Total: 20}},
			},
		},
	}

	signals, skipped := PropSignals("mlb", categories, mlbRules)

	require.Len(t, signals, 3)
	assert.Equal(t, 4, skipped)

	assert.Equal(t, "Aaron Judge Over 0.5 Hits", signals[0].Description)
	assert.Equal(t, 70.0, signals[0].Score)
	assert.Equal(t, "21-9", signals[0].Record)
	assert.Equal(t, "70.0% (21-9)", signals[0].Metric)
	assert.Equal(t, "Best -120 at FanDuel", signals[0].Detail)

	assert.Equal(t, "Gerrit Cole Under 6.5 Strikeouts", signals[1].Description)
	assert.InDelta(t, 75.0, signals[1].Score, 0.001)

	assert.Equal(t, "Max Fried Yes 1 Win", signals[2].Description)
	assert.Equal(t, "80.0% (16-4)", signals[2].Metric)
}

func TestPropHitRateStrategyUsesSportThreshold(t *testing.T) {
	props := []entity.PropCategory{{
		PropKey: "player_points",
		Title:   "Points (Over/Under)",
		Players: []entity.PlayerProp{
			{PlayerName: "Jalen Brunson", PropType: "over", OpeningLine: 26.5, Record: entity.PropRecord{Hit: 14, Miss: 6, Total: 20}},
		},
	}}
	repo := &fakeInsideEdge{
		games:    []entity.Game{{GameID: "a"}, {GameID: "b"}},
		props:    map[string][]entity.PropCategory{"a": props},
		failGame: "b",
	}
	s := NewPropHitRateStrategy(testConfig(), logger.NewNop(), repo)
	s.games.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

	out, err := s.Extract(context.Background(), config.Sport{Code: "nba"})
	require.NoError(t, err)
	require.Len(t, out.Signals, 1, "70 clears the default 65 threshold")
	assert.Equal(t, Stats{GamesScanned: 2, FetchFailures: 1}, out.Stats)
	assert.Equal(t, 2, repo.propsCalls)

	out, err = s.Extract(context.Background(), config.Sport{Code: "nba", PropHitRateThreshold: 75})
	require.NoError(t, err)
	assert.Empty(t, out.Signals)
}

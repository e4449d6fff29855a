package formatter

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/strategy"
	"edge-signal-bot/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scores(signals []entity.Signal) []float64 {
	out := make([]float64, len(signals))
	for i, s := range signals {
		out[i] = s.Score
	}
	return out
}

func TestRank(t *testing.T) {
	in := []entity.Signal{{Score: 30}, {Score: 70}, {Score: 50}}
	assert.Equal(t, []float64{70, 50}, scores(Rank(in, 2)))
	assert.Equal(t, []float64{30, 70, 50}, scores(in), "input untouched")
	assert.Equal(t, []float64{70, 50, 30}, scores(Rank(in, 0)))
	assert.Empty(t, Rank(nil, 3))
}

func TestRankStableOnTies(t *testing.T) {
	in := []entity.Signal{
		{Description: "first", Score: 40},
		{Description: "top", Score: 90},
		{Description: "second", Score: 40},
		{Description: "third", Score: 40},
	}
	out := Rank(in, 3)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"top", "first", "second"}, []string{out[0].Description, out[1].Description, out[2].Description})
}

func TestSportEmoji(t *testing.T) {
	assert.Equal(t, "⚾", SportEmoji("MLB"))
	assert.Equal(t, "🏒", SportEmoji("nhl"))
	assert.Equal(t, "🎯", SportEmoji("cricket"))
}

func testConfig() *config.Config {
	return &config.Config{
		Thresholds: config.Thresholds{BigBettor: 25, PropHitRate: 65, RefereeMinROI: 5},
		TopN:       config.TopN{BigBettor: 4, PropHitRate: 5, RefereeEdge: 3},
	}
}

func TestBlockPropsOrderedByHitRate(t *testing.T) {
	f := NewFormatter(testConfig())
	mlb := config.Sport{Code: "mlb", Name: "MLB", PropHitRateThreshold: 70}

	block := f.Block(config.StrategyPropHitRate, entity.CategoryPropHitRate, mlb, []entity.Signal{
		{Description: "Gerrit Cole Under 6.5 Strikeouts", Metric: "75.0% (18-6)", Score: 75},
		{Description: "Aaron Judge Over 0.5 Hits", Metric: "82.3% (51-11)", Score: 82.258},
	})
	require.NotNil(t, block)

	want := strings.Join([]string{
		"⚾ These MLB picks have 70%+ hit rates",
		"",
		"1. Aaron Judge Over 0.5 Hits",
		"   82.3% (51-11)",
		"",
		"2. Gerrit Cole Under 6.5 Strikeouts",
		"   75.0% (18-6)",
		"",
		"Use these for your lays.",
	}, "\n")
	assert.Equal(t, want, block.Text)
	assert.Equal(t, "These MLB picks have 70%+ hit rates", block.Title)
	assert.Equal(t, entity.CategoryPropHitRate, block.Category)
	assert.Equal(t, "mlb", block.Sport)
}

func TestBlockEmptyIsOmitted(t *testing.T) {
	f := NewFormatter(testConfig())
	assert.Nil(t, f.Block(config.StrategyPropHitRate, entity.CategoryPropHitRate, config.Sport{Code: "mlb"}, nil))
}

func TestBlockTruncatesAndUsesOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Copy.BigBettor = config.CategoryCopy{Title: "Sharp money in {sport} ({threshold}+ pt gap)", CTA: "Tail or fade?"}
	f := NewFormatter(cfg)

	var signals []entity.Signal
	for i := 0; i < 6; i++ {
		signals = append(signals, entity.Signal{Description: "side", Metric: "m", Detail: "Yankees @ Red Sox", Score: float64(30 + i)})
	}
	block := f.Block(config.StrategyBigBettor, entity.CategoryBigBettor, config.Sport{Code: "cricket"}, signals)
	require.NotNil(t, block)

	assert.True(t, strings.HasPrefix(block.Text, "🎯 Sharp money in CRICKET (25+ pt gap)\n\n1. side\n   m\n   Yankees @ Red Sox\n"))
	assert.Contains(t, block.Text, "4. side")
	assert.NotContains(t, block.Text, "5. side")
	assert.True(t, strings.HasSuffix(block.Text, "\nTail or fade?"))
}

func TestRenderEmail(t *testing.T) {
	blocks := []entity.Block{
		{Category: entity.CategoryBigBettor, Sport: "nba", Text: "🏀 NBA Big Bettor Alerts\n\n1. Knicks ML (+110)"},
		{Category: entity.CategoryRefereeEdge, Sport: "nfl", Text: "🏈 NFL Referee Edges\n\n1. UNDER 44.5"},
	}
	body := RenderEmail(blocks, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(body, "Betting signals for Monday, October 19, 2026\n"))
	assert.Contains(t, body, "\n=== NBA Big Bettor Alerts ===\n\n🏀 NBA Big Bettor Alerts")
	assert.Contains(t, body, "\n=== NFL Referee Edges ===\n\n🏈 NFL Referee Edges")
	assert.Less(t, strings.Index(body, "NBA"), strings.Index(body, "NFL"))
}

func nflBigBettorSignals(t *testing.T) []entity.Signal {
	t.Helper()
	games := []struct {
		game  entity.Game
		split entity.PublicMoneySplit
	}{
		{
			game: entity.Game{
				GameID: "g1", AwayTeam: "Kansas City Chiefs", HomeTeam: "Buffalo Bills", StartTime: "2026-10-25T20:25:00Z",
				Odds: entity.GameOdds{AwaySpread: 2.5, HomeSpread: -2.5, AwaySpreadOdds: -110, HomeSpreadOdds: -110, AwayMoneyline: 120, HomeMoneyline: -140, Total: 47.5},
			},
			split: entity.PublicMoneySplit{
				Spread:    entity.MarketSplit{AwayBetsPct: 30, AwayStakePct: 62, HomeBetsPct: 70, HomeStakePct: 38},
				Moneyline: entity.MarketSplit{AwayBetsPct: 28, AwayStakePct: 58, HomeBetsPct: 72, HomeStakePct: 42},
			},
		},
		{
			game: entity.Game{
				GameID: "g2", AwayTeam: "San Francisco 49ers", HomeTeam: "Philadelphia Eagles", StartTime: "2026-10-26T00:20:00Z",
				Odds: entity.GameOdds{AwaySpread: 1.5, HomeSpread: -1.5, AwaySpreadOdds: -108, HomeSpreadOdds: -112, AwayMoneyline: 105, HomeMoneyline: -125, Total: 45.5},
			},
			split: entity.PublicMoneySplit{
				Spread:    entity.MarketSplit{AwayBetsPct: 65, AwayStakePct: 34, HomeBetsPct: 35, HomeStakePct: 66},
				Moneyline: entity.MarketSplit{AwayBetsPct: 67, AwayStakePct: 39, HomeBetsPct: 33, HomeStakePct: 61},
			},
		},
	}

	var signals []entity.Signal
	for _, g := range games {
		signals = append(signals, strategy.BigBettorSignals("nfl", g.game, g.split, 25, time.UTC)...)
	}
	require.Len(t, signals, 4)
	return signals
}

func TestBlockFitsTweetLimitWithDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 280, cfg.MessageLimit())
	nfl := config.Sport{Code: "nfl", Name: "NFL"}
	signals := nflBigBettorSignals(t)

	block := NewFormatter(cfg).Block(config.StrategyBigBettor, entity.CategoryBigBettor, nfl, signals)
	require.NotNil(t, block)

	full := Render("🏈 NFL Big Bettor Alerts", Rank(signals, cfg.TopN.BigBettor), "Follow the money.")
	require.Greater(t, utf8.RuneCountInString(full), 280)

	assert.LessOrEqual(t, utf8.RuneCountInString(block.Text), 280)
	assert.True(t, strings.HasPrefix(block.Text, "🏈 NFL Big Bettor Alerts\n\n1. Kansas City Chiefs +2.5 (-110)\n"))
	assert.Contains(t, block.Text, "2. ")
	assert.NotContains(t, block.Text, " @ ", "detail lines are dropped first")
	assert.True(t, strings.HasSuffix(block.Text, "\nFollow the money."))
}

func TestBlockKeepsFullTextForEmail(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Publisher.Mode = config.ModeEmail
	nfl := config.Sport{Code: "nfl", Name: "NFL"}

	block := NewFormatter(cfg).Block(config.StrategyBigBettor, entity.CategoryBigBettor, nfl, nflBigBettorSignals(t))
	require.NotNil(t, block)

	assert.Contains(t, block.Text, "4. ")
	assert.Contains(t, block.Text, "Kansas City Chiefs @ Buffalo Bills")
}

func TestFit(t *testing.T) {
	signals := []entity.Signal{
		{Description: "aaaa", Metric: "m1", Detail: "detail one"},
		{Description: "bbbb", Metric: "m2", Detail: "detail two"},
		{Description: "cccc", Metric: "m3", Detail: "detail three"},
	}
	full := Render("H", signals, "C")
	compact := Render("H", []entity.Signal{
		{Description: "aaaa", Metric: "m1"},
		{Description: "bbbb", Metric: "m2"},
		{Description: "cccc", Metric: "m3"},
	}, "C")

	assert.Equal(t, full, Fit("H", signals, "C", 0))
	assert.Equal(t, full, Fit("H", signals, "C", utf8.RuneCountInString(full)))
	assert.Equal(t, compact, Fit("H", signals, "C", utf8.RuneCountInString(compact)))

	short := Fit("H", signals, "C", utf8.RuneCountInString(compact)-1)
	assert.Contains(t, short, "2. bbbb")
	assert.NotContains(t, short, "cccc")

	assert.Equal(t, "H\n\n1. aaaa\n   m1\n\nC", Fit("H", signals, "C", 1))
	assert.Equal(t, "detail one", signals[0].Detail, "input untouched")
}

func TestSplitsBlockHasItsOwnTitle(t *testing.T) {
	f := NewFormatter(testConfig())
	mlb := config.Sport{Code: "mlb", Name: "MLB"}
	signals := []entity.Signal{{Description: "Yankees ML (+120)", Metric: "m", Score: 30}}

	inside := f.Block(config.StrategyBigBettor, entity.CategoryBigBettor, mlb, signals)
	splits := f.Block(config.StrategySplitsBigBettor, entity.CategoryBigBettor, mlb, signals)
	require.NotNil(t, inside)
	require.NotNil(t, splits)

	assert.Equal(t, "MLB Big Bettor Alerts", inside.Title)
	assert.Equal(t, "MLB DraftKings Big Bettor Alerts", splits.Title)
	assert.Equal(t, config.StrategySplitsBigBettor, splits.Source)

	body := RenderEmail([]entity.Block{*inside, *splits}, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, strings.Count(body, "=== MLB Big Bettor Alerts ==="))
	assert.Equal(t, 1, strings.Count(body, "=== MLB DraftKings Big Bettor Alerts ==="))
}

package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitsPickPercentages(t *testing.T) {
	bets, handle, err := SplitsPick{BetsPct: "25%", HandlePct: " 62 % "}.Percentages()
	require.NoError(t, err)
	assert.Equal(t, 25, bets)
	assert.Equal(t, 62, handle)

	bets, handle, err = SplitsPick{BetsPct: "40", HandlePct: "41%"}.Percentages()
	require.NoError(t, err)
	assert.Equal(t, 40, bets)
	assert.Equal(t, 41, handle)

	_, _, err = SplitsPick{BetsPct: "", HandlePct: "41%"}.Percentages()
	assert.ErrorContains(t, err, "bets_pct")

	_, _, err = SplitsPick{BetsPct: "10%", HandlePct: "n/a"}.Percentages()
	assert.ErrorContains(t, err, "handle_pct")
}

func TestRefereeRange(t *testing.T) {
	r := RefereeRange{Min: -6.5, Max: -3.5, RefereeRecord: RefereeRecord{Wins: 4, Losses: 2}}
	assert.True(t, r.Contains(-3.5))
	assert.True(t, r.Contains(-5))
	assert.False(t, r.Contains(-7))
	assert.Equal(t, 6, r.Sample())
}

func TestMatchup(t *testing.T) {
	assert.Equal(t, "Yankees @ Red Sox", Game{AwayTeam: "Yankees", HomeTeam: "Red Sox"}.Matchup())
}

func TestGameIDAcceptsStringOrNumber(t *testing.T) {
	var games []Game
	require.NoError(t, json.Unmarshal([]byte(`[
		{"game_id":"abc-1","home_team":"Red Sox"},
		{"game_id":745123,"home_team":"Cubs"},
		{"home_team":"Mets"}
	]`), &games))

	require.Len(t, games, 3)
	assert.Equal(t, "abc-1", games[0].GameID)
	assert.Equal(t, "Red Sox", games[0].HomeTeam)
	assert.Equal(t, "745123", games[1].GameID)
	assert.Equal(t, "Cubs", games[1].HomeTeam)
	assert.Empty(t, games[2].GameID)

	var split PublicMoneySplit
	require.NoError(t, json.Unmarshal([]byte(`{"game_id":42,"spread":{"home_bets_pct":40}}`), &split))
	assert.Equal(t, "42", split.GameID)
	assert.Equal(t, 40.0, split.Spread.HomeBetsPct)

	var bad Game
	assert.Error(t, json.Unmarshal([]byte(`{"game_id":{"id":1}}`), &bad))
}

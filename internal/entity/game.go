package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Game is a scheduled game as returned by the InsideRedge games endpoint.
type Game struct {
	GameID         string   `json:"game_id"`
	Name           string   `json:"name"`
	AwayTeam       string   `json:"away_team"`
	HomeTeam       string   `json:"home_team"`
	StartTime      string   `json:"start_time"`
	ConferenceGame bool     `json:"conference_game"`
	Odds           GameOdds `json:"odds"`
}

// GameOdds holds the current lines for a game. Odds are American.
type GameOdds struct {
	AwaySpread     float64 `json:"away_spread"`
	HomeSpread     float64 `json:"home_spread"`
	AwaySpreadOdds int     `json:"away_spread_odds"`
	HomeSpreadOdds int     `json:"home_spread_odds"`
	AwayMoneyline  int     `json:"away_moneyline"`
	HomeMoneyline  int     `json:"home_moneyline"`
	Total          float64 `json:"total"`
}

// UnmarshalJSON accepts game_id as a JSON string or a number.
func (g *Game) UnmarshalJSON(data []byte) error {
	type alias Game
	aux := struct {
		*alias
		GameID json.RawMessage `json:"game_id"`
	}{alias: (*alias)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.GameID)
	if err != nil {
		return fmt.Errorf("game_id: %w", err)
	}
	g.GameID = id
	return nil
}

// UnmarshalJSON accepts game_id as a JSON string or a number.
func (s *PublicMoneySplit) UnmarshalJSON(data []byte) error {
	type alias PublicMoneySplit
	aux := struct {
		*alias
		GameID json.RawMessage `json:"game_id"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.GameID)
	if err != nil {
		return fmt.Errorf("game_id: %w", err)
	}
	s.GameID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var id string
		err := json.Unmarshal(raw, &id)
		return id, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Matchup returns "Away @ Home".
func (g Game) Matchup() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

// PublicMoneySplit is the ticket/handle distribution of a game's spread and moneyline markets.
type PublicMoneySplit struct {
	GameID    string      `json:"game_id"`
	Spread    MarketSplit `json:"spread"`
	Moneyline MarketSplit `json:"moneyline"`
}

// MarketSplit holds percentages (0-100) of tickets and staked money per side.
type MarketSplit struct {
	AwayBetsPct  float64 `json:"away_bets_pct"`
	AwayStakePct float64 `json:"away_stake_pct"`
	HomeBetsPct  float64 `json:"home_bets_pct"`
	HomeStakePct float64 `json:"home_stake_pct"`
}

// SplitsPick is one "big bettor" entry from the DraftKings splits feed.
// Percentages arrive as strings such as "62%".
type SplitsPick struct {
	Game      string `json:"game"`
	Team      string `json:"team"`
	Market    string `json:"market"`
	Odds      string `json:"odds"`
	BetsPct   string `json:"bets_pct"`
	HandlePct string `json:"handle_pct"`
	StartTime string `json:"start_time"`
}

// Percentages parses BetsPct and HandlePct ("62%", "62", " 62 % ") into integers.
func (p SplitsPick) Percentages() (bets, handle int, err error) {
	bets, err = parsePercent(p.BetsPct)
	if err != nil {
		return 0, 0, fmt.Errorf("bets_pct: %w", err)
	}
	handle, err = parsePercent(p.HandlePct)
	if err != nil {
		return 0, 0, fmt.Errorf("handle_pct: %w", err)
	}
	return bets, handle, nil
}

func parsePercent(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, fmt.Errorf("empty percentage")
	}
	return strconv.Atoi(s)
}

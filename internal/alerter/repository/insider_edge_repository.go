package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/metrics"
)

const dateLayout = "2006-01-02"

// InsideEdgeRepository reads games and per-game markets from the InsideRedge API.
// A nil error with an empty result means the upstream had no data.
type InsideEdgeRepository interface {
	GetGames(ctx context.Context, sport string, from, to time.Time) ([]entity.Game, error)
	GetPublicMoney(ctx context.Context, sport, gameID string) (*entity.PublicMoneySplit, error)
	GetPlayerProps(ctx context.Context, sport, gameID string) ([]entity.PropCategory, error)
	GetRefereeStats(ctx context.Context, sport, gameID string) (*entity.RefereeStat, error)
}

type insideEdgeRepository struct {
	baseURL string
	client  *jsonClient
	log     *logger.Logger
}

func NewInsideEdgeRepository(cfg *config.Config, log *logger.Logger, m *metrics.Manager) InsideEdgeRepository {
	headers := map[string]string{"insider-api-key": cfg.InsideEdge.APIKey}
	return &insideEdgeRepository{
		baseURL: strings.TrimRight(cfg.InsideEdge.BaseURL, "/"),
		client:  newJSONClient(log, m, cfg.HTTP.RequestTimeout, cfg.InsideEdge.MaxRequestPerMinute, headers),
		log:     log,
	}
}

func (r *insideEdgeRepository) GetGames(ctx context.Context, sport string, from, to time.Time) ([]entity.Game, error) {
	q := url.Values{}
	q.Set("from", from.Format(dateLayout))
	q.Set("to", to.Format(dateLayout))
	endpoint := fmt.Sprintf("%s/%s/games?%s", r.baseURL, url.PathEscape(sport), q.Encode())

	var resp struct {
		Games []json.RawMessage `json:"games"`
	}
	if err := r.client.getJSON(ctx, "games", endpoint, &resp); err != nil {
		return nil, fmt.Errorf("get %s games: %w", sport, err)
	}

	games := make([]entity.Game, 0, len(resp.Games))
	for i, raw := range resp.Games {
		var game entity.Game
		if err := json.Unmarshal(raw, &game); err != nil || game.GameID == "" {
			r.log.WarnContext(ctx, "Dropping malformed game",
				logger.StringField("sport", sport), logger.IntField("index", i), logger.Field("error", err))
			continue
		}
		games = append(games, game)
	}

	r.log.InfoContext(ctx, "Fetched games", logger.StringField("sport", sport), logger.IntField("count", len(games)))
	return games, nil
}

func (r *insideEdgeRepository) GetPublicMoney(ctx context.Context, sport, gameID string) (*entity.PublicMoneySplit, error) {
	var split entity.PublicMoneySplit
	if err := r.client.getJSON(ctx, "public-money", r.gameURL(sport, gameID, "public-money"), &split); err != nil {
		return nil, fmt.Errorf("get public money for %s: %w", gameID, err)
	}
	return &split, nil
}

func (r *insideEdgeRepository) GetPlayerProps(ctx context.Context, sport, gameID string) ([]entity.PropCategory, error) {
	var raw []struct {
		PropKey string            `json:"prop_key"`
		Title   string            `json:"title"`
		Players []json.RawMessage `json:"players"`
	}
	if err := r.client.getJSON(ctx, "player-props", r.gameURL(sport, gameID, "player-props"), &raw); err != nil {
		return nil, fmt.Errorf("get player props for %s: %w", gameID, err)
	}

	categories := make([]entity.PropCategory, 0, len(raw))
	for _, c := range raw {
		category := entity.PropCategory{PropKey: c.PropKey, Title: c.Title}
		for _, p := range c.Players {
			var player entity.PlayerProp
			if err := json.Unmarshal(p, &player); err != nil {
				category.Malformed++
				continue
			}
			category.Players = append(category.Players, player)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *insideEdgeRepository) GetRefereeStats(ctx context.Context, sport, gameID string) (*entity.RefereeStat, error) {
	var stat entity.RefereeStat
	if err := r.client.getJSON(ctx, "referee-stats", r.gameURL(sport, gameID, "referee-stats"), &stat); err != nil {
		return nil, fmt.Errorf("get referee stats for %s: %w", gameID, err)
	}
	return &stat, nil
}

func (r *insideEdgeRepository) gameURL(sport, gameID, resource string) string {
	return fmt.Sprintf("%s/%s/games/%s/%s", r.baseURL, url.PathEscape(sport), url.PathEscape(gameID), resource)
}

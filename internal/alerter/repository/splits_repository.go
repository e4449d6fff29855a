package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/metrics"
)

// SplitsFeed locates one sport's big bettor list: the endpoint path and the
// top-level key the list is stored under.
type SplitsFeed struct {
	Endpoint string
	Key      string
}

// SplitsRepository reads the DraftKings splits aggregator.
type SplitsRepository interface {
	GetBigBettorPicks(ctx context.Context, feed SplitsFeed) ([]entity.SplitsPick, error)
}

type splitsRepository struct {
	baseURL string
	client  *jsonClient
	log     *logger.Logger
}

func NewSplitsRepository(cfg *config.Config, log *logger.Logger, m *metrics.Manager) SplitsRepository {
	return &splitsRepository{
		baseURL: strings.TrimRight(cfg.Splits.BaseURL, "/"),
		client:  newJSONClient(log, m, cfg.HTTP.RequestTimeout, cfg.Splits.MaxRequestPerMinute, nil),
		log:     log,
	}
}

func (r *splitsRepository) GetBigBettorPicks(ctx context.Context, feed SplitsFeed) ([]entity.SplitsPick, error) {
	endpoint := r.baseURL + "/" + strings.TrimLeft(feed.Endpoint, "/")

	var resp map[string]json.RawMessage
	if err := r.client.getJSON(ctx, "splits", endpoint, &resp); err != nil {
		return nil, fmt.Errorf("get splits %s: %w", feed.Endpoint, err)
	}

	list, ok := resp[feed.Key]
	if !ok || string(list) == "null" {
		r.log.InfoContext(ctx, "Splits feed has no big bettor list", logger.StringField("endpoint", feed.Endpoint), logger.StringField("key", feed.Key))
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(list, &raw); err != nil {
		return nil, fmt.Errorf("get splits %s: %w: key %q is not a list", feed.Endpoint, ErrMalformedBody, feed.Key)
	}

	picks := make([]entity.SplitsPick, 0, len(raw))
	for i, item := range raw {
		var pick entity.SplitsPick
		if err := json.Unmarshal(item, &pick); err != nil {
			r.log.WarnContext(ctx, "Dropping malformed splits pick", logger.StringField("endpoint", feed.Endpoint), logger.IntField("index", i), logger.ErrorField(err))
			continue
		}
		picks = append(picks, pick)
	}
	return picks, nil
}

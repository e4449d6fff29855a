package publisher

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// SocialPublisher posts each block as its own message, spaced by the inter-post delay.
type SocialPublisher struct {
	logger  *logger.Logger
	metrics *metrics.Manager
	poster  Poster
	limiter *rate.Limiter
	posted  *cache.Cache
}

func NewSocialPublisher(cfg *config.Config, log *logger.Logger, m *metrics.Manager, poster Poster) *SocialPublisher {
	limit := rate.Inf
	if cfg.Publisher.InterPostDelay > 0 {
		limit = rate.Every(cfg.Publisher.InterPostDelay)
	}
	ttl := cfg.Publisher.DedupeTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &SocialPublisher{
		logger:  log,
		metrics: m,
		poster:  poster,
		limiter: rate.NewLimiter(limit, 1),
		posted:  cache.New(ttl, 10*time.Minute),
	}
}

func (p *SocialPublisher) Mode() string { return config.ModeSocial }

// Publish posts blocks in order. A failed post is logged and counted and the
// remaining blocks are still attempted. Text already posted within the dedupe
// window is skipped.
func (p *SocialPublisher) Publish(ctx context.Context, blocks []entity.Block) Report {
	report := Report{Mode: p.Mode()}
	for i, block := range blocks {
		key := textKey(block.Text)
		if _, found := p.posted.Get(key); found {
			report.Skipped++
			p.metrics.Delivery(p.Mode(), resultSkipped)
			p.logger.InfoContext(ctx, "Skipping already posted block",
				logger.StringField("category", string(block.Category)), logger.StringField("sport", block.Sport))
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			remaining := len(blocks) - i
			report.Cancelled = remaining
			p.metrics.Delivery(p.Mode(), resultCancelled)
			report.Errors = append(report.Errors, fmt.Sprintf("stopped before %d block(s): %v", remaining, err))
			p.logger.ErrorContext(ctx, "Publishing interrupted", logger.IntField("remaining", remaining), logger.ErrorField(err))
			break
		}

		report.Attempted++
		id, err := p.poster.Post(ctx, block.Text)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s %s: %v", block.Sport, block.Category, err))
			p.metrics.Delivery(p.Mode(), resultFailure)
			p.logger.ErrorContext(ctx, "Failed to post block",
				logger.StringField("category", string(block.Category)),
				logger.StringField("sport", block.Sport),
				logger.ErrorField(err))
			continue
		}

		report.Succeeded++
		report.MessageIDs = append(report.MessageIDs, id)
		p.posted.Set(key, id, cache.DefaultExpiration)
		p.metrics.Delivery(p.Mode(), resultSuccess)
		p.logger.InfoContext(ctx, "Posted block",
			logger.StringField("category", string(block.Category)),
			logger.StringField("sport", block.Sport),
			logger.StringField("message_id", id))
	}

	p.logger.InfoContext(ctx, "Social publishing completed",
		logger.IntField("succeeded", report.Succeeded),
		logger.IntField("attempted", report.Attempted),
		logger.IntField("skipped", report.Skipped),
		logger.IntField("cancelled", report.Cancelled))
	return report
}

func textKey(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

package publisher

import (
	"context"
	"time"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/formatter"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/mailer"
	"edge-signal-bot/pkg/metrics"
	"edge-signal-bot/pkg/utils"
)

// EmailPublisher sends every block of a run as one email.
type EmailPublisher struct {
	logger     *logger.Logger
	metrics    *metrics.Manager
	sender     mailer.Sender
	recipients []string
	subject    string
	now        func() time.Time
}

func NewEmailPublisher(cfg *config.Config, log *logger.Logger, m *metrics.Manager, sender mailer.Sender) *EmailPublisher {
	return &EmailPublisher{
		logger:     log,
		metrics:    m,
		sender:     sender,
		recipients: cfg.Email.Recipients,
		subject:    cfg.Email.Subject,
		now:        func() time.Time { return utils.TimeNowIn(cfg.App.Timezone) },
	}
}

func (p *EmailPublisher) Mode() string { return config.ModeEmail }

// Publish sends nothing when there are no blocks.
func (p *EmailPublisher) Publish(ctx context.Context, blocks []entity.Block) Report {
	report := Report{Mode: p.Mode()}
	if len(blocks) == 0 {
		p.logger.InfoContext(ctx, "No qualifying signals, skipping email")
		return report
	}

	now := p.now()
	subject := p.subject + " - " + now.Format("Jan 2, 2006")
	body := formatter.RenderEmail(blocks, now)

	report.Attempted = 1
	if err := p.sender.Send(ctx, p.recipients, subject, body); err != nil {
		report.Failed = 1
		report.Errors = append(report.Errors, err.Error())
		p.metrics.Delivery(p.Mode(), resultFailure)
		p.logger.ErrorContext(ctx, "Failed to send email", logger.ErrorField(err), logger.IntField("recipients", len(p.recipients)))
		return report
	}

	report.Succeeded = 1
	p.metrics.Delivery(p.Mode(), resultSuccess)
	p.logger.InfoContext(ctx, "Email sent",
		logger.IntField("sections", len(blocks)),
		logger.IntField("recipients", len(p.recipients)))
	return report
}

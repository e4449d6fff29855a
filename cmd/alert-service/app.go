package main

import (
	"fmt"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/formatter"
	"edge-signal-bot/internal/alerter/publisher"
	"edge-signal-bot/internal/alerter/repository"
	"edge-signal-bot/internal/alerter/service"
	"edge-signal-bot/internal/alerter/strategy"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/mailer"
	"edge-signal-bot/pkg/metrics"
	"edge-signal-bot/pkg/telegram"
	"edge-signal-bot/pkg/twitter"
)

// app holds the wired pipeline shared by the run and serve commands.
type app struct {
	cfg          *config.Config
	logger       *logger.Logger
	metrics      *metrics.Manager
	alertService service.AlertService
}

// newApp loads configuration and wires every pipeline component. A non-empty
// mode overrides publisher.mode from the configuration.
func newApp(configPath, mode string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if mode != "" {
		cfg.Publisher.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	m := metrics.New()

	// Initialize repositories
	insideEdgeRepo := repository.NewInsideEdgeRepository(cfg, appLogger, m)
	splitsRepo := repository.NewSplitsRepository(cfg, appLogger, m)

	// Initialize strategies
	strategies := []strategy.SignalStrategy{
		strategy.NewBigBettorStrategy(cfg, appLogger, insideEdgeRepo),
		strategy.NewSplitsBigBettorStrategy(cfg, appLogger, splitsRepo),
		strategy.NewPropHitRateStrategy(cfg, appLogger, insideEdgeRepo),
		strategy.NewRefereeEdgeStrategy(cfg, appLogger, insideEdgeRepo),
	}

	pub, err := newPublisher(cfg, appLogger, m)
	if err != nil {
		return nil, err
	}

	alertService := service.NewAlertService(cfg, appLogger, m, formatter.NewFormatter(cfg), pub, strategies)
	return &app{cfg: cfg, logger: appLogger, metrics: m, alertService: alertService}, nil
}

func newPublisher(cfg *config.Config, log *logger.Logger, m *metrics.Manager) (publisher.Publisher, error) {
	switch cfg.Publisher.Mode {
	case config.ModeSocial:
		poster, err := newPoster(cfg)
		if err != nil {
			return nil, err
		}
		return publisher.NewSocialPublisher(cfg, log, m, poster), nil
	case config.ModeEmail:
		sender := mailer.NewSMTPSender(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.Email.From,
		})
		return publisher.NewEmailPublisher(cfg, log, m, sender), nil
	case config.ModeDryRun:
		return publisher.NewDryRunPublisher(log), nil
	}
	return nil, fmt.Errorf("unknown publisher mode %q", cfg.Publisher.Mode)
}

func newPoster(cfg *config.Config) (publisher.Poster, error) {
	switch cfg.Publisher.SocialProvider {
	case config.ProviderTwitter:
		client, err := twitter.NewClient(twitter.Config{
			BaseURL:        cfg.Twitter.BaseURL,
			ConsumerKey:    cfg.Twitter.ConsumerKey,
			ConsumerSecret: cfg.Twitter.ConsumerSecret,
			AccessToken:    cfg.Twitter.AccessToken,
			AccessSecret:   cfg.Twitter.AccessSecret,
			MaxLength:      cfg.Twitter.MaxLength,
			Timeout:        cfg.HTTP.RequestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize twitter client: %w", err)
		}
		return client, nil
	case config.ProviderTelegram:
		notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram client: %w", err)
		}
		return notifier, nil
	}
	return nil, fmt.Errorf("unknown social provider %q", cfg.Publisher.SocialProvider)
}

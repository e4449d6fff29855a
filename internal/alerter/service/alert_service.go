package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/formatter"
	"edge-signal-bot/internal/alerter/publisher"
	"edge-signal-bot/internal/alerter/strategy"
	"edge-signal-bot/internal/entity"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/metrics"
	"edge-signal-bot/pkg/utils"

	"github.com/google/uuid"
)

var (
	// ErrRunInProgress is returned when a run is requested while another is active.
	ErrRunInProgress = errors.New("a pipeline run is already in progress")
	// ErrUnknownSport is returned by Preview for a sport that is not configured.
	ErrUnknownSport = errors.New("sport is not configured")
)

// AlertService runs the fetch, extract, format and publish pipeline.
type AlertService interface {
	Run(ctx context.Context) (*RunReport, error)
	Preview(ctx context.Context, sport string) (*RunReport, error)
}

// RunReport describes the outcome of one pipeline run.
type RunReport struct {
	RunID      string                    `json:"run_id"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt time.Time                 `json:"finished_at"`
	Signals    map[entity.Category]int   `json:"signals"`
	Stats      map[string]strategy.Stats `json:"stats"`
	Blocks     []entity.Block            `json:"blocks"`
	Delivery   publisher.Report          `json:"delivery"`
}

// NewAlertService creates a new AlertService.
func NewAlertService(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Manager,
	fmtr *formatter.Formatter,
	pub publisher.Publisher,
	strategies []strategy.SignalStrategy,
) AlertService {
	strategyMap := make(map[string]strategy.SignalStrategy)
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}

	return &alertService{
		cfg:        cfg,
		logger:     log,
		metrics:    m,
		formatter:  fmtr,
		publisher:  pub,
		strategies: strategyMap,
		dryRun:     publisher.NewDryRunPublisher(log),
	}
}

type alertService struct {
	cfg        *config.Config
	logger     *logger.Logger
	metrics    *metrics.Manager
	formatter  *formatter.Formatter
	publisher  publisher.Publisher
	dryRun     publisher.Publisher
	strategies map[string]strategy.SignalStrategy
	running    sync.Mutex
}

// Run executes the pipeline for every configured sport and publishes the result.
// Only one run may be active at a time.
func (s *alertService) Run(ctx context.Context) (*RunReport, error) {
	if !s.running.TryLock() {
		s.metrics.Run("busy")
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	report := s.execute(ctx, s.cfg.Sports, s.publisher)
	result := "success"
	switch {
	case report.Delivery.Failed > 0:
		result = "delivery_failed"
	case report.Delivery.Cancelled > 0:
		result = "cancelled"
	}
	s.metrics.Run(result)
	return report, nil
}

// Preview runs the pipeline for one sport without delivering anything.
func (s *alertService) Preview(ctx context.Context, sport string) (*RunReport, error) {
	for _, configured := range s.cfg.Sports {
		if configured.Code == sport {
			return s.execute(ctx, []config.Sport{configured}, s.dryRun), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sport)
}

func (s *alertService) execute(ctx context.Context, sports []config.Sport, pub publisher.Publisher) *RunReport {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Signals:   make(map[entity.Category]int),
		Stats:     make(map[string]strategy.Stats),
		Blocks:    []entity.Block{},
	}
	ctx = logger.WithRunID(ctx, report.RunID)
	s.logger.InfoContext(ctx, "Pipeline run started",
		logger.IntField("sports", len(sports)),
		logger.StringField("mode", pub.Mode()))

sports:
	for _, sport := range sports {
		for _, name := range sport.Strategies {
			if ctx.Err() != nil {
				s.logger.WarnContext(ctx, "Pipeline run cancelled", logger.ErrorField(ctx.Err()))
				break sports
			}
			block := s.extract(ctx, report, sport, name)
			if block != nil {
				report.Blocks = append(report.Blocks, *block)
			}
		}
	}

	report.Delivery = pub.Publish(ctx, report.Blocks)
	report.FinishedAt = time.Now()
	s.logger.InfoContext(ctx, "Pipeline run completed",
		logger.IntField("blocks", len(report.Blocks)),
		logger.IntField("delivered", report.Delivery.Succeeded),
		logger.IntField("failed", report.Delivery.Failed),
		logger.Field("duration", report.FinishedAt.Sub(report.StartedAt)))
	return report
}

func (s *alertService) extract(ctx context.Context, report *RunReport, sport config.Sport, name string) *entity.Block {
	strat, ok := s.strategies[name]
	if !ok {
		s.logger.WarnContext(ctx, "No strategy registered", logger.StringField("strategy", name), logger.StringField("sport", sport.Code))
		return nil
	}

	var extraction *strategy.Extraction
	err := utils.Try(func() error {
		var err error
		extraction, err = strat.Extract(ctx, sport)
		return err
	})
	if extraction != nil {
		report.Stats[sport.Code+"/"+name] = extraction.Stats
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Signal extraction failed",
			logger.StringField("strategy", name),
			logger.StringField("sport", sport.Code),
			logger.ErrorField(err))
		return nil
	}
	if extraction == nil {
		return nil
	}

	category := strat.Category()
	report.Signals[category] += len(extraction.Signals)
	s.metrics.SignalEmitted(string(category), sport.Code, len(extraction.Signals))
	s.logger.InfoContext(ctx, "Signals extracted",
		logger.StringField("strategy", name),
		logger.StringField("sport", sport.Code),
		logger.IntField("signals", len(extraction.Signals)),
		logger.IntField("games", extraction.Stats.GamesScanned),
		logger.IntField("skipped", extraction.Stats.RecordsSkipped))

	return s.formatter.Block(name, category, sport, extraction.Signals)
}

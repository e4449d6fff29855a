package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/alerter/service"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronScheduler triggers pipeline runs on the configured cron schedule.
type CronScheduler struct {
	cfg          *config.Config
	alertService service.AlertService
	logger       *logger.Logger
	cron         *cron.Cron
	schedule     cron.Schedule

	mu  sync.Mutex
	ctx context.Context
}

// NewCronScheduler creates a scheduler for cfg.Scheduler.Cron in the configured timezone.
func NewCronScheduler(cfg *config.Config, alertService service.AlertService, log *logger.Logger) (*CronScheduler, error) {
	schedule, err := cron.ParseStandard(cfg.Scheduler.Cron)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cfg.Scheduler.Cron, err)
	}

	cl := cronLogger{log.Sugar()}
	s := &CronScheduler{
		cfg:          cfg,
		alertService: alertService,
		logger:       log,
		schedule:     schedule,
		ctx:          context.Background(),
		cron: cron.New(
			cron.WithLocation(utils.LoadLocation(cfg.App.Timezone)),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
			cron.WithLogger(cl),
		),
	}
	s.cron.Schedule(schedule, cron.FuncJob(s.Tick))
	return s, nil
}

// Start begins scheduling. Runs started by the scheduler derive from ctx.
func (s *CronScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.StringField("cron", s.cfg.Scheduler.Cron),
		logger.StringField("timezone", s.cfg.App.Timezone),
		logger.Field("next_run", s.Next(time.Now())))
}

// Next returns the first scheduled run after from.
func (s *CronScheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from.In(s.cron.Location()))
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Tick runs the pipeline once, bounded by the run timeout.
func (s *CronScheduler) Tick() {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.cfg.Scheduler.RunTimeout > 0 {
		ctx, cancel = context.WithTimeout(parent, s.cfg.Scheduler.RunTimeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	report, err := s.alertService.Run(ctx)
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			s.logger.Warn("Skipping scheduled run, another run is active")
			return
		}
		s.logger.Error("Scheduled run failed", logger.ErrorField(err))
		return
	}
	s.logger.Info("Scheduled run finished",
		logger.StringField("run_id", report.RunID),
		logger.IntField("blocks", len(report.Blocks)),
		logger.IntField("delivered", report.Delivery.Succeeded))
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	delivery "edge-signal-bot/internal/alerter/delivery/http"
	"edge-signal-bot/internal/alerter/delivery/scheduler"
	_ "edge-signal-bot/internal/alerter/docs"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/utils"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	mode       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the pipeline once and exits",
	Run:   runOnce,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the pipeline on the cron schedule and serves the HTTP API",
	Run:   runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(configPath, mode)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() { _ = a.logger.Sync() }()

	a.logger.Info("Starting one-shot run",
		logger.StringField("name", a.cfg.App.Name),
		logger.StringField("mode", a.cfg.Publisher.Mode))

	if a.cfg.Scheduler.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Scheduler.RunTimeout)
		defer cancel()
	}

	report, err := a.alertService.Run(ctx)
	if err != nil {
		a.logger.Fatal("Run failed", logger.ErrorField(err))
	}
	a.logger.Info("Run finished",
		logger.StringField("run_id", report.RunID),
		logger.IntField("blocks", len(report.Blocks)),
		logger.IntField("attempted", report.Delivery.Attempted),
		logger.IntField("succeeded", report.Delivery.Succeeded),
		logger.IntField("failed", report.Delivery.Failed))
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(configPath, mode)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() { _ = a.logger.Sync() }()

	a.logger.Info("Starting Alert Service",
		logger.StringField("name", a.cfg.App.Name),
		logger.StringField("mode", a.cfg.Publisher.Mode))

	cronScheduler, err := scheduler.NewCronScheduler(a.cfg, a.alertService, a.logger)
	if err != nil {
		a.logger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
	}
	cronScheduler.Start(ctx)

	e := delivery.NewRouter(a.alertService, a.metrics, version, a.logger)

	// Start server
	utils.GoSafe(func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.logger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	})

	<-ctx.Done()

	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	cronScheduler.Stop()

	a.logger.Info("Server exiting")
}

// @title Edge Signal Bot API
// @version 1.0
// @description Preview and trigger betting signal pipeline runs.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:   "alert-service",
		Short: "Finds betting signals and publishes them to social or email",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-alerter.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "Override publisher mode (social, email, dry-run)")

	rootCmd.AddCommand(runCmd, serveCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing alert-service CLI: %s\n", err)
		os.Exit(1)
	}
}

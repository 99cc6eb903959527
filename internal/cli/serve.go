package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoStow/internal/config"
	"github.com/piwi3910/CargoStow/internal/queue"
)

// newServeCmd creates the worker daemon command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the placement worker against the job queue",
		Long: `Polls the Redis pending queue for stowage jobs, runs the placement
engine on each, and stores the result back on the job record. Runs until
interrupted; shutdown takes effect between jobs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}

			log := setupLogger(cfg.Log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := queue.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			defer client.Close()
			log.WithField("redis", cfg.Redis.Address).Info("connected to job queue")

			worker := queue.NewWorker(client, log, cfg.Worker.PollTimeout)
			if err := worker.Run(ctx); err != nil && err != context.Canceled {
				return fmt.Errorf("worker stopped: %w", err)
			}
			return nil
		},
	}
}

// setupLogger builds the structured logger from configuration. When a
// log file is configured, output goes to both stdout and the file.
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, file))
		} else {
			log.WithError(err).Warn("cannot open log file, logging to stdout only")
		}
	}

	return log
}

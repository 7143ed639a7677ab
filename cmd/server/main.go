package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"agrovision/config"
	"agrovision/database"
	"agrovision/pkg/logging"
	reportSvcImp "agrovision/pkg/report/serviceImp"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// 1) Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2) Logger
	logger := logging.New(cfg.LogLevel, cfg.IsProduction())

	// 3) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}

	// 4) Echo + routes
	srv := newServer(cfg, db, logger)

	// 5) Report jobs
	var jobs *cron.Cron
	if cfg.ReportJobsEnabled {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			logger.Warn().Err(err).Str("tz", cfg.Timezone).Msg("unknown timezone, using UTC for report jobs")
			loc = time.UTC
		}
		jobs, err = reportSvcImp.NewScheduler(srv.reports, loc, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("report scheduler")
		}
		jobs.Start()
		logger.Info().Str("tz", loc.String()).Msg("report jobs scheduled")
	}

	// 6) Start
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := srv.e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	// 7) Shutdown
	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.shutdown(shutdownCtx, jobs, db, logger)
}

// shutdown drains the report jobs, then stops HTTP, then closes the DB both use.
func (s *server) shutdown(ctx context.Context, jobs *cron.Cron, db *gorm.DB, log zerolog.Logger) {
	if jobs != nil {
		select {
		case <-jobs.Stop().Done():
		case <-ctx.Done():
			log.Warn().Msg("report job still running at shutdown")
		}
	}
	if err := s.e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}
}

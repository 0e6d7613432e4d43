// Package main runs the microlending API: users, bank accounts, loan pools and loans.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/microlend/cmd/httpserver"
	"github.com/go-petr/microlend/internal/accrualjob"
	"github.com/go-petr/microlend/internal/middleware"
	"github.com/go-petr/microlend/pkg/configpkg"
	"github.com/go-petr/microlend/pkg/dbpkg"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	if err := dbpkg.Migrate(config.MigrationURL, config.DBSource); err != nil {
		logger.Fatal().Err(err).Msg("cannot migrate database")
	}

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	if config.AccrualSchedule != "" {
		job, err := accrualjob.New(config.AccrualSchedule, server.Loans, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("schedule", config.AccrualSchedule).Msg("cannot schedule accrual job")
		}

		job.Start()
		defer func() { <-job.Stop().Done() }()

		logger.Info().Str("schedule", config.AccrualSchedule).Msg("accrual job scheduled")
	}

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("cannot shut down server")
		}
	}()

	logger.Info().Str("address", config.ServerAddress).Msg("MICROLEND API SERVER HAS STARTED")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("cannot start server")
	}

	logger.Info().Msg("server stopped")
}

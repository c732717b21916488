package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"teaminsight/internal/assessment"
	"teaminsight/internal/database"
	"teaminsight/internal/metrics"
	"teaminsight/internal/models"
	"teaminsight/internal/repository"
	"teaminsight/internal/router"
	"teaminsight/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(projectRoot *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, log, err := bootstrap(*projectRoot)
			if err != nil {
				return err
			}
			defer log.Sync()

			conf := manager.Get()
			manager.Watch(log)

			db, err := database.Open(conf.Database, log)
			if err != nil {
				return err
			}

			bank, err := models.LoadQuestionBank(conf.Assessment.QuestionsPath)
			if err != nil {
				return err
			}
			log.Info("Question bank loaded", zap.Int("questions", bank.Len()))

			registry, err := assessment.NewRegistry(conf.Assessment.MaxSessions, bank, func() assessment.Options {
				return assessment.Options{NavigateDelay: manager.Get().Assessment.NavigateDelay}
			})
			if err != nil {
				return err
			}

			sweeper := services.NewSweeper(log, registry, conf.Assessment.SweepInterval, func() time.Duration {
				return manager.Get().Assessment.SessionTTL
			})
			sweeper.Start()
			defer sweeper.Stop()

			engine := router.Setup(router.Deps{
				Log:      log,
				Config:   manager,
				Bank:     bank,
				Registry: registry,
				Scores:   repository.NewScoreRepository(db),
				Users:    repository.NewUserRepository(db),
				Metrics:  metrics.MustNew(prometheus.DefaultRegisterer, registry.Len),
				Gatherer: prometheus.DefaultGatherer,
			})

			srv := &http.Server{
				Addr:              ":" + conf.Server.Port,
				Handler:           engine,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("Server listening on http://localhost:" + conf.Server.Port)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					log.Error("Failed to run server", zap.Error(err))
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Graceful shutdown failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func newMigrateCmd(projectRoot *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			manager, log, err := bootstrap(*projectRoot)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.Open(manager.Get().Database, log)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

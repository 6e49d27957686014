package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sownmark/cmd/app"
	"sownmark/internal/config"
	"sownmark/internal/database"
	"sownmark/internal/logger"
)

var migrateOnStart bool

var rootCmd = &cobra.Command{
	Use:   "sownmark",
	Short: "Sownmark content and lead management API",
	Long: `Sownmark serves the blog, careers, contact, newsletter and marketing
referral APIs, plus the admin endpoints that manage them.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		return database.Migrate(cfg.DB, logger.New(cfg.Log))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func runServe(ctx context.Context) error {
	// setting up config
	cfg := config.LoadConfig()
	log := logger.New(cfg.Log)

	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET is not set")
	}

	if migrateOnStart {
		if err := database.Migrate(cfg.DB, log); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.App(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "database": cfg.DB.DbNAME}).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

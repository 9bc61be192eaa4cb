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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "leaderboard-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, logCloser, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Leaderboard.Log = log
	store, closeStore, err := leaderboard.Open(ctx, cfg.Leaderboard)
	if err != nil {
		log.WithError(err).Error("Failed to open leaderboard")
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Error("Error closing leaderboard store")
		}
	}()

	board := leaderboard.New(store)
	if err := board.SeedIfEmpty(ctx, leaderboard.DefaultSeed); err != nil {
		log.WithError(err).Warn("Failed to seed leaderboard")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(board, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Leaderboard server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server stopped unexpectedly")
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	select {
	case err := <-serveErr:
		return err
	default:
	}
	log.Info("Server exiting")
	return nil
}

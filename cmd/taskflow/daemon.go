package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/cache"
	"github.com/taskflow-ai/taskflow/internal/config"
	"github.com/taskflow-ai/taskflow/internal/llm"
	"github.com/taskflow-ai/taskflow/internal/logger"
	"github.com/taskflow-ai/taskflow/internal/metrics"
	"github.com/taskflow-ai/taskflow/internal/notify"
	"github.com/taskflow-ai/taskflow/internal/planner"
	"github.com/taskflow-ai/taskflow/internal/server"
	"github.com/taskflow-ai/taskflow/internal/store"
)

var (
	listenAddr string
	dbPath     string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the taskflow daemon",
	Long:  `Starts the taskflow daemon which provides the HTTP API for plan generation and task management.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (default from config)")
	daemonCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database (default from config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	addr := listenAddr
	if addr == "" {
		addr = cfg.Addr()
	}
	db := dbPath
	if db == "" {
		db = cfg.Database.Path
	}

	logger.Info("Starting taskflow daemon on %s", addr)

	s, err := store.New(db)
	if err != nil {
		return err
	}

	llmClient, err := llm.NewClient(llm.Options{
		BaseURL:     cfg.Ollama.Host,
		Model:       cfg.Ollama.Model,
		Temperature: cfg.Ollama.Temperature,
		TopP:        cfg.Ollama.TopP,
		MaxTokens:   cfg.Ollama.MaxTokens,
		Timeout:     time.Duration(cfg.Ollama.Timeout) * time.Second,
	})
	if err != nil {
		s.Close()
		return err
	}

	hub := notify.NewHub()
	pl := planner.New(llmClient, hub)

	var planCache *cache.Cache
	if cfg.Cache.Enabled {
		planCache = cache.New(cfg.Cache.Capacity)
	}
	collector := metrics.NewCollector()

	service := server.NewService(s, pl, llmClient, planCache, collector)
	srv := server.NewServer(service, hub, addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		err := srv.Start()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("Received signal %v, initiating graceful shutdown", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error: %v", err)
			s.Close()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error: %v", err)
	}
	if err := s.Close(); err != nil {
		logger.Warn("Database close error: %v", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

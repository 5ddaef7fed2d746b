package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crimson-sun/smsguard/internal/config"
	"github.com/crimson-sun/smsguard/internal/engine"
	"github.com/crimson-sun/smsguard/internal/engine/artifact"
	"github.com/crimson-sun/smsguard/internal/engine/textproc"
	"github.com/crimson-sun/smsguard/internal/logging"
	"github.com/crimson-sun/smsguard/internal/server"
)

func main() {
	// .env is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.Log)

	// Load the classifier artifact once; it lives for the process lifetime.
	// A missing or unloadable artifact is fatal: no traffic until resolved.
	art, err := artifact.LoadONNX(artifact.Config{
		ModelPath:   cfg.Artifact.ModelPath,
		VocabPath:   cfg.Artifact.VocabPath,
		LabelsPath:  cfg.Artifact.LabelsPath,
		LibraryPath: cfg.Artifact.LibraryPath,
	})
	if err != nil {
		log.Fatalf("failed to load classifier artifact: %v", err)
	}
	defer art.Close()

	adapter := artifact.NewAdapter(art)
	resolver := textproc.NewResolver(textproc.NewFilter(textproc.LetterRuns))
	eng := engine.New(resolver, adapter)

	srv := server.New(eng, cfg.Server)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.Server.ListenAddr) }()

	slog.Info("smsguard listening",
		"addr", cfg.Server.ListenAddr,
		"model", cfg.Artifact.ModelPath,
		"labels", art.Labels(),
		"probabilities", adapter.SupportsProbabilities(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("shutdown failed: %v", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}

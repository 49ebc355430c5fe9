// Command harmonium runs the triadic harmonic mind daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ardenlabs/harmonium/internal/api"
	"github.com/ardenlabs/harmonium/internal/brain"
	"github.com/ardenlabs/harmonium/internal/config"
	"github.com/ardenlabs/harmonium/internal/entropy"
	"github.com/ardenlabs/harmonium/internal/harmonic"
	"github.com/ardenlabs/harmonium/internal/llm"
	"github.com/ardenlabs/harmonium/internal/persistence"
	"github.com/ardenlabs/harmonium/internal/respond"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if err != nil {
		slog.Warn("bad log level, using info", "error", err)
	}

	slog.Info("Harmonium — triadic harmonic mind",
		"rule", cfg.Engine.Rule,
		"noise", cfg.Engine.Noise,
		"seed", cfg.Engine.Seed,
	)

	// ── Store ─────────────────────────────────────────────────────────
	// A broken store degrades to memoryless operation; it never aborts.
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		slog.Warn("creating data directory failed", "path", filepath.Dir(cfg.Database.Path), "error", err)
	}
	db, err := persistence.Open(cfg.Database.Path)
	if err != nil {
		slog.Warn("opening store failed, running without persistence", "error", err)
		db = nil
	} else {
		defer db.Close()
		slog.Info("store opened", "path", cfg.Database.Path)
	}

	rec := db.LoadRecord()
	if rec.Interactions > 0 {
		slog.Info("mind state restored",
			"interactions", rec.Interactions,
			"observations", rec.Observations,
			"born", rec.Born.Format(time.RFC3339),
		)
	} else {
		slog.Info("fresh mind", "born", rec.Born.Format(time.RFC3339))
	}

	// ── Engine ────────────────────────────────────────────────────────
	var noise entropy.Source
	if cfg.Engine.Noise == "fractal" {
		noise = entropy.NewFractal(cfg.Engine.Seed)
	} else {
		noise = entropy.NewGaussian(cfg.Engine.Seed)
	}
	engine := harmonic.Restore(harmonic.ParseRule(cfg.Engine.Rule), noise, rec.State)

	// ── Generation backend ────────────────────────────────────────────
	client := llm.NewClient(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Ollama.Timeout())
	if client.Enabled() {
		slog.Info("generation backend configured", "url", cfg.Ollama.URL, "model", client.Model())
	} else {
		slog.Warn("no generation backend — canned responses only")
	}

	// ── Brain worker ──────────────────────────────────────────────────
	selector := respond.NewSelector(client, cfg.Engine.Seed)
	mind := brain.New(engine, selector, db, rec)
	mind.Start()

	if cfg.Idle.Enabled {
		mind.StartWatching(cfg.Idle.Interval())
		slog.Info("idle observation loop started", "interval", cfg.Idle.Interval())
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("admin_key not set — admin endpoints disabled")
	}
	server := &api.Server{
		Brain:    mind,
		DB:       db,
		Port:     cfg.Listen.Port,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	fmt.Printf("\nHarmonium is listening on http://localhost:%d/api/v1/status\n", cfg.Listen.Port)
	fmt.Println("Ctrl+C to stop.")

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx) // drain in-flight turns before the final save
	mind.Stop()                  // final save happens inside the worker

	fmt.Println("Harmonium stopped. Mind state saved.")
}

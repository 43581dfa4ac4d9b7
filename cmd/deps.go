package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/config"
	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/llm"
	"github.com/abhisek/lessonkit/internal/logger"
	"github.com/abhisek/lessonkit/internal/observability"
	"github.com/abhisek/lessonkit/internal/reference"
	"github.com/abhisek/lessonkit/internal/store"
)

// deps is everything a generating command needs.
type deps struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *store.Store
	provider  llm.Provider
	pipeline  *generation.Pipeline
	reference *reference.Loader

	closers []func()
}

// loadConfig reads .env and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Read(envFile)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v, _ := cmd.Flags().GetString("on-failure"); v != "" {
		policy, err := generation.ParsePolicy(v)
		if err != nil {
			return nil, err
		}
		cfg.Policy = policy
	}
	if v, _ := cmd.Flags().GetString("reference-dir"); v != "" {
		cfg.ReferenceDir = v
	}
	if v, _ := cmd.Flags().GetString("reference-pattern"); v != "" {
		cfg.ReferencePattern = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	cfg.DBPath = dbPath
	return cfg, nil
}

// buildDeps validates the configuration and assembles the pipeline. With
// tui set, logs and stdout spans go to a file instead of the terminal.
func buildDeps(cmd *cobra.Command, tui bool) (*deps, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg}
	var spanSink io.Writer = os.Stdout
	if tui {
		path := cfg.LogFile
		if path == "" {
			path = filepath.Join(os.TempDir(), "lessonkit.log")
		}
		d.log, err = logger.NewFile(cfg.LogMode, path)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		spanSink = f
		d.closers = append(d.closers, func() { f.Close() })
	} else {
		d.log, err = logger.New(cfg.LogMode)
		if err != nil {
			return nil, err
		}
	}
	d.closers = append(d.closers, d.log.Sync)

	shutdown := observability.InitOTel(ctx, d.log, observability.OtelConfig{
		ServiceName:  "lessonkit",
		Environment:  cfg.LogMode,
		Version:      version,
		StdoutWriter: spanSink,
	})
	d.closers = append(d.closers, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			d.log.Warn("otel shutdown failed", "error", err)
		}
	})

	var events store.EventRepo
	if cfg.DBPath != "" {
		d.store, err = store.Open(cfg.DBPath)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open request log: %w", err)
		}
		d.closers = append(d.closers, func() { d.store.Close() })
		events = d.store.EventRepo()
	}

	d.provider, err = llm.NewProvider(ctx, cfg.LLM, events, d.log)
	if err != nil {
		d.Close()
		return nil, err
	}

	client := generation.NewClient(d.provider, generation.ClientOptions{
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	}, d.log)
	d.pipeline = generation.NewPipeline(client, cfg.Policy, d.log)

	d.reference, err = reference.NewLoader(reference.Options{Pattern: cfg.ReferencePattern}, d.log)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.log.Debug("dependencies ready",
		"provider", cfg.LLM.Provider,
		"model", d.provider.ModelID(),
		"policy", cfg.Policy.String(),
		"request_log", cfg.DBPath,
	)
	return d, nil
}

// providerLabel is the "provider/model" string shown in the UIs.
func (d *deps) providerLabel() string {
	return d.cfg.LLM.Provider + "/" + d.provider.ModelID()
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// openStore opens the request log for the inspection commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("the LLM request log is disabled")
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/monas-project/crsl/cache"
	"github.com/monas-project/crsl/config"
	"github.com/monas-project/crsl/convergence"
	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/observability/logging"
	"github.com/monas-project/crsl/observability/metrics"
	"github.com/monas-project/crsl/repo"
	"github.com/monas-project/crsl/storage"
)

var rootCmd = &cobra.Command{
	Use:   "crslctl",
	Short: "Operate a CRSL content-versioning repository",
	Long: `crslctl is a small operational tool for the CRSL engine: commit
Create/Update/Delete operations against a genesis document and inspect its
current projected state and commit history.

Configuration is loaded from --config (YAML/JSON) when given, overridden by
CRSL_-prefixed environment variables, defaulting to in-memory storage when
neither is set.`,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (YAML/JSON)")
	rootCmd.AddCommand(commitCmd, historyCmd, stateCmd, versionCmd)
}

// engine bundles the wired Repository with whatever needs closing when the
// command exits (a Redis/Postgres connection; nothing for memory storage).
type engine struct {
	repo  *repo.Repository
	close func() error
}

func (e *engine) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

// loadConfig reads configPath if set, else environment-overridden defaults,
// matching the teacher's serve command's config-or-defaults fallback.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.LoadEnv()
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}
	return config.LoadFromFile(configPath)
}

// buildEngine wires a NodeStore/OperationStore pair per cfg.Storage.Type
// into a Graph, a CRDT Projector, a convergence Registry/ConflictResolver,
// and a Repository instrumented with a structured logger and a Prometheus
// collector when metrics are enabled.
func buildEngine(cfg *config.Config) (*engine, error) {
	var nodeStore graph.NodeStore
	var opStore crdt.OperationStore
	var closers []io.Closer

	switch cfg.Storage.Type {
	case "", "memory":
		nodeStore = storage.NewMemoryNodeStore()
		opStore = storage.NewMemoryOperationStore()

	case "redis":
		redisCfg := storage.DefaultRedisConfig()
		if cfg.Storage.Redis.Host != "" {
			redisCfg.Address = fmt.Sprintf("%s:%d", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port)
		}
		redisCfg.Password = cfg.Storage.Redis.Password
		redisCfg.DB = cfg.Storage.Redis.DB

		ns, err := storage.NewRedisNodeStore(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("dial redis node store: %w", err)
		}
		ops, err := storage.NewRedisOperationStore(redisCfg)
		if err != nil {
			ns.Close()
			return nil, fmt.Errorf("dial redis operation store: %w", err)
		}
		nodeStore, opStore = ns, ops
		closers = append(closers, ns, ops)

	case "postgres":
		pgCfg := storage.DefaultPostgresConfig()
		if cfg.Storage.Postgres.Host != "" {
			pgCfg.Host = cfg.Storage.Postgres.Host
		}
		if cfg.Storage.Postgres.Port != 0 {
			pgCfg.Port = cfg.Storage.Postgres.Port
		}
		if cfg.Storage.Postgres.User != "" {
			pgCfg.User = cfg.Storage.Postgres.User
		}
		pgCfg.Password = cfg.Storage.Postgres.Password
		if cfg.Storage.Postgres.Database != "" {
			pgCfg.Database = cfg.Storage.Postgres.Database
		}
		if cfg.Storage.Postgres.SSLMode != "" {
			pgCfg.SSLMode = cfg.Storage.Postgres.SSLMode
		}
		pgCfg.MaxOpenConns = cfg.Storage.Postgres.MaxOpenConns
		pgCfg.MaxIdleConns = cfg.Storage.Postgres.MaxIdleConns
		pgCfg.ConnMaxLifetime = cfg.Storage.Postgres.ConnMaxLifetime
		pgCfg.AutoMigrate = cfg.Storage.Postgres.AutoMigrate

		ns, err := storage.NewPostgresNodeStore(pgCfg)
		if err != nil {
			return nil, fmt.Errorf("dial postgres node store: %w", err)
		}
		ops, err := storage.NewPostgresOperationStore(pgCfg)
		if err != nil {
			ns.Close()
			return nil, fmt.Errorf("dial postgres operation store: %w", err)
		}
		nodeStore, opStore = ns, ops
		closers = append(closers, ns, ops)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	if cfg.Cache.Enabled && cfg.Storage.Type != "memory" && cfg.Storage.Type != "" {
		nodeStore = cache.NewNodeCache(nodeStore, cache.CacheConfig{
			MaxSize:        cfg.Cache.MaxSize,
			DefaultTTL:     cfg.Cache.DefaultTTL,
			EvictionPolicy: cache.EvictionPolicyLRU,
		})
	}

	g := graph.New(nodeStore)
	projector := crdt.NewProjector(opStore)
	resolver := convergence.NewConflictResolver(g, projector, convergence.NewRegistry())

	logger := logging.NewStructuredLogger(levelFromString(cfg.Logging.Level))

	var collector metrics.Collector = metrics.NewNoopCollector()
	if cfg.Metrics.Enabled {
		collector = metrics.NewPrometheusCollector()
	}

	r := repo.New(g, projector, resolver,
		repo.WithLogger(logger),
		repo.WithMetrics(metrics.NewRepoMetrics(collector)),
	)

	return &engine{
		repo: r,
		close: func() error {
			var first error
			for _, c := range closers {
				if err := c.Close(); err != nil && first == nil {
					first = err
				}
			}
			return first
		},
	}, nil
}

func levelFromString(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

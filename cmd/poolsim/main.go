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

	"github.com/coremud/engine/internal/component"
	"github.com/coremud/engine/internal/config"
	"github.com/coremud/engine/internal/core/ecs"
	coresys "github.com/coremud/engine/internal/core/system"
	"github.com/coremud/engine/internal/data"
	"github.com/coremud/engine/internal/metrics"
	"github.com/coremud/engine/internal/system"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const defaultConfigPath = "config/poolsim.toml"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "poolsim",
		Short:         "Drive the component pools with a simulated tick loop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", configPathFromEnv(),
		"path to the TOML config (env POOLSIM_CONFIG)")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the tick loop until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfgPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "profiles",
		Short: "Print the pool profiles the simulator would use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			table, err := loadPoolTable(cfg.Pools)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range component.Shapes() {
				p := table.Profile(name)
				fmt.Fprintf(out, "%-10s initial=%d resizable=%t increment=%d\n",
					p.Name, p.InitialSize, p.Resizable, p.ResizeIncrement)
			}
			return nil
		},
	})
	return root
}

func configPathFromEnv() string {
	if p := os.Getenv("POOLSIM_CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

// ── Main loop ─────────────────────────────────────────────────────

func run(ctx context.Context, cfgPath string) error {
	// 1. Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Pool profiles and pools
	printSection("pools")

	table, err := loadPoolTable(cfg.Pools)
	if err != nil {
		return err
	}
	printStat("pool profiles", table.Count())

	pools := ecs.NewPoolRegistry(log)
	if err := component.RegisterPools(pools, table, log); err != nil {
		return fmt.Errorf("register pools: %w", err)
	}
	for _, st := range pools.Snapshot() {
		printPool(st)
	}
	fmt.Println()

	// 4. Systems
	printSection("systems")

	work, err := system.NewWorkloadSystem(pools, system.WorkloadConfig{
		Workers:        cfg.Simulation.Workers,
		AcquirePerTick: cfg.Simulation.AcquirePerTick,
		HoldTicks:      cfg.Simulation.HoldTicks,
	}, log)
	if err != nil {
		return fmt.Errorf("workload: %w", err)
	}

	vitals, err := system.NewVitalsSystem(pools, log)
	if err != nil {
		return err
	}

	runner := coresys.NewRunner()
	runner.Register(work)
	runner.Register(vitals)
	runner.Register(system.NewCleanupSystem(pools))
	runner.Register(system.NewReportSystem(pools, cfg.Simulation.ReportEvery, log))
	printStat("systems", runner.Len())
	printStat("workers", cfg.Simulation.Workers)
	fmt.Println()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// 5. Metrics endpoint
	if cfg.Metrics.Enabled {
		srv := newMetricsServer(cfg.Metrics, pools)
		g.Go(func() error {
			log.Info("metrics listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		printOK("metrics at " + cfg.Metrics.BindAddress + cfg.Metrics.Path)
	}

	// 6. Game loop
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Simulation.TickRate))
	g.Go(func() error {
		defer stop()
		tickLoop(gctx, runner, cfg.Simulation, log)

		// Hand everything back and reclaim once more so the final stats
		// show the pools drained.
		work.ReleaseAll()
		pools.CleanUpAll()

		ws := work.Stats()
		log.Info("tick loop stopped",
			zap.Uint64("ticks", runner.Ticks()),
			zap.Uint64("acquired", ws.Acquired),
			zap.Uint64("released", ws.Released),
			zap.Uint64("misses", ws.Misses),
		)
		printSection("final pools")
		for _, st := range pools.Snapshot() {
			printPool(st)
		}
		return nil
	})

	return g.Wait()
}

func loadPoolTable(cfg config.PoolsConfig) (*data.PoolTable, error) {
	table, err := data.LoadPoolTable(cfg.Profiles,
		data.WithProfileDefaults(cfg.InitialSize, cfg.Resizable, cfg.ResizeIncrement))
	if err != nil {
		return nil, fmt.Errorf("load pool profiles: %w", err)
	}
	return table, nil
}

func tickLoop(ctx context.Context, runner *coresys.Runner, cfg config.SimulationConfig, log *zap.Logger) {
	ticker := time.NewTicker(cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown requested")
			return
		case <-ticker.C:
			start := time.Now()
			runner.Tick(cfg.TickRate)
			if elapsed := time.Since(start); elapsed > cfg.TickRate {
				log.Warn("tick overran", zap.Duration("elapsed", elapsed), zap.Duration("tick_rate", cfg.TickRate))
			}
			if cfg.MaxTicks > 0 && runner.Ticks() >= cfg.MaxTicks {
				return
			}
		}
	}
}

func newMetricsServer(cfg config.MetricsConfig, pools *ecs.PoolRegistry) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewPoolCollector(pools),
	)

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.BindAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Simulation SimulationConfig `toml:"simulation"`
	Pools      PoolsConfig      `toml:"pools"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type SimulationConfig struct {
	TickRate       time.Duration `toml:"tick_rate"`
	Workers        int           `toml:"workers"`
	AcquirePerTick int           `toml:"acquire_per_tick"` // per worker, per pool
	HoldTicks      int           `toml:"hold_ticks"`
	ReportEvery    int           `toml:"report_every"` // ticks between stat logs, 0 disables
	MaxTicks       uint64        `toml:"max_ticks"`    // 0 runs until signalled
}

// PoolsConfig locates the pool list and sizes pools it does not name.
type PoolsConfig struct {
	Profiles        string `toml:"profiles"` // path to pool_list.yaml
	InitialSize     int    `toml:"initial_size"`
	Resizable       bool   `toml:"resizable"`
	ResizeIncrement int    `toml:"resize_increment"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
	Path        string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive: given %s", c.Simulation.TickRate)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers cannot be negative: given %d", c.Simulation.Workers)
	}
	if c.Simulation.AcquirePerTick < 0 {
		return fmt.Errorf("simulation.acquire_per_tick cannot be negative: given %d", c.Simulation.AcquirePerTick)
	}
	if c.Simulation.HoldTicks < 1 {
		return fmt.Errorf("simulation.hold_ticks must be at least 1: given %d", c.Simulation.HoldTicks)
	}
	if c.Pools.InitialSize < 1 {
		return fmt.Errorf("pools.initial_size must be at least 1: given %d", c.Pools.InitialSize)
	}
	if c.Pools.Resizable && c.Pools.ResizeIncrement < 1 {
		return fmt.Errorf("pools.resize_increment must be at least 1 when resizable: given %d", c.Pools.ResizeIncrement)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "CoreMUD",
		},
		Simulation: SimulationConfig{
			TickRate:       200 * time.Millisecond,
			Workers:        4,
			AcquirePerTick: 2,
			HoldTicks:      3,
			ReportEvery:    25,
		},
		Pools: PoolsConfig{
			Profiles:        "data/yaml/pool_list.yaml",
			InitialSize:     10,
			Resizable:       true,
			ResizeIncrement: 10,
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			BindAddress: "127.0.0.1:9107",
			Path:        "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

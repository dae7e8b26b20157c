package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort          = "3000"
	DefaultArenaSize     = 10000.0
	DefaultTickRate      = 60
	DefaultMaxPowerUps   = 50
	DefaultSpawnInterval = 5 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLedgerPath    = ":memory:"
	DefaultMaxConnsPerIP = 5
	DefaultMaxConns      = 1000
)

// Config captures all runtime tunables for the arena server
type Config struct {
	Addr          string
	Game          GameConfig
	LogLevel      string
	LogFormat     string
	LedgerPath    string
	PublicURL     string
	MaxConnsPerIP int
	MaxConns      int
}

// LoadConfig reads an optional .env file, then the environment, applying defaults.
// Every invalid override is reported in one error.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr: ":" + getString("PORT", DefaultPort),
		Game: GameConfig{
			ArenaSize:     DefaultArenaSize,
			TickRate:      DefaultTickRate,
			MaxPowerUps:   DefaultMaxPowerUps,
			SpawnInterval: DefaultSpawnInterval,
		},
		LogLevel:      getString("LOG_LEVEL", DefaultLogLevel),
		LogFormat:     getString("LOG_FORMAT", DefaultLogFormat),
		LedgerPath:    getString("LEDGER_PATH", DefaultLedgerPath),
		PublicURL:     strings.TrimSpace(os.Getenv("PUBLIC_URL")),
		MaxConnsPerIP: DefaultMaxConnsPerIP,
		MaxConns:      DefaultMaxConns,
	}

	var problems []string

	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n <= 0 || n > 65535 {
			problems = append(problems, fmt.Sprintf("PORT must be a valid TCP port, got %q", raw))
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ARENA_SIZE")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 2*spawnMargin {
			problems = append(problems, fmt.Sprintf("ARENA_SIZE must be a number greater than %.0f, got %q", 2*spawnMargin, raw))
		} else {
			cfg.Game.ArenaSize = v
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TICK_RATE")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 1000 {
			problems = append(problems, fmt.Sprintf("TICK_RATE must be an integer in 1..1000, got %q", raw))
		} else {
			cfg.Game.TickRate = v
		}
	}

	if raw := strings.TrimSpace(os.Getenv("MAX_POWERUPS")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			problems = append(problems, fmt.Sprintf("MAX_POWERUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Game.MaxPowerUps = v
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SPAWN_INTERVAL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("SPAWN_INTERVAL must be a positive duration, got %q", raw))
		} else {
			cfg.Game.SpawnInterval = d
		}
	}

	if raw := strings.TrimSpace(os.Getenv("MAX_CONNS_PER_IP")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			problems = append(problems, fmt.Sprintf("MAX_CONNS_PER_IP must be a non-negative integer, got %q", raw))
		} else {
			cfg.MaxConnsPerIP = v
		}
	}

	if raw := strings.TrimSpace(os.Getenv("MAX_CONNS")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			problems = append(problems, fmt.Sprintf("MAX_CONNS must be a non-negative integer, got %q", raw))
		} else {
			cfg.MaxConns = v
		}
	}

	switch cfg.LogFormat {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be console or json, got %q", cfg.LogFormat))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

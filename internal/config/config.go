package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	LogLevel        string
	LogFile         string // empty disables the rolling file
	LogMaxSizeMB    int
	OriginPatterns  []string // websocket Origin allow list; empty means same host only
	OutboxSize      int      // per client buffered events before it is dropped as slow
	ShutdownTimeout time.Duration
}

func Default() Config {
	return Config{
		Addr:            ":3000",
		LogLevel:        "info",
		LogMaxSizeMB:    10,
		OutboxSize:      64,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads .env files (if any) into the environment, then builds a Config
// from it. Unset variables keep their defaults.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return Config{}, fmt.Errorf("PORT: invalid port %q", v)
		}
		cfg.Addr = ":" + v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := lookup("LOG_MAX_SIZE_MB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("LOG_MAX_SIZE_MB: invalid size %q", v)
		}
		cfg.LogMaxSizeMB = n
	}
	if v, ok := lookup("WS_ORIGIN_PATTERNS"); ok && v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.OriginPatterns = append(cfg.OriginPatterns, p)
			}
		}
	}
	if v, ok := lookup("WS_OUTBOX_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 {
			// a joining client needs room for the snapshot and the occupancy
			return Config{}, fmt.Errorf("WS_OUTBOX_SIZE: invalid size %q", v)
		}
		cfg.OutboxSize = n
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	BindAddress              string        `mapstructure:"BIND_ADDRESS"`
	WebPort                  int           `mapstructure:"WEB_PORT"`
	LogLevel                 string        `mapstructure:"LOG_LEVEL"`
	LogFormat                string        `mapstructure:"LOG_FORMAT"`
	GraphDirected            bool          `mapstructure:"GRAPH_DIRECTED"`
	CheckpointInterval       uint64        `mapstructure:"CHECKPOINT_INTERVAL"`
	SnapshotCacheSize        int           `mapstructure:"SNAPSHOT_CACHE_SIZE"`
	PersistBackend           string        `mapstructure:"PERSIST_BACKEND"`
	PersistPath              string        `mapstructure:"PERSIST_PATH"`
	PersistDSN               string        `mapstructure:"PERSIST_DSN"`
	RateLimitMutationsPerMin int           `mapstructure:"RATE_LIMIT_MUTATIONS_PER_MIN"`
	RateLimitBurstSize       int           `mapstructure:"RATE_LIMIT_BURST_SIZE"`
	ShutdownTimeout          time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// Persistence backend selectors for PERSIST_BACKEND.
const (
	PersistNone     = "none"
	PersistBadger   = "badger"
	PersistPostgres = "postgres"
)

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // For running locally
	viper.AddConfigPath("../")      // For running from docker subdir
	viper.AddConfigPath("./config") // Common config folder
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("BIND_ADDRESS", "0.0.0.0")
	viper.SetDefault("WEB_PORT", 3030)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", LogFormatConsole)
	viper.SetDefault("GRAPH_DIRECTED", true)
	viper.SetDefault("CHECKPOINT_INTERVAL", 64)
	viper.SetDefault("SNAPSHOT_CACHE_SIZE", 32)
	viper.SetDefault("PERSIST_BACKEND", PersistNone)
	viper.SetDefault("PERSIST_PATH", ".store")
	viper.SetDefault("PERSIST_DSN", "")
	viper.SetDefault("RATE_LIMIT_MUTATIONS_PER_MIN", 120)
	viper.SetDefault("RATE_LIMIT_BURST_SIZE", 20)
	viper.SetDefault("SHUTDOWN_TIMEOUT", 10)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			// Fallback if logger not available (should not happen in practice)
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	switch config.PersistBackend {
	case PersistNone, PersistBadger, PersistPostgres:
	default:
		if logger != nil {
			logger.Warn("Unknown persistence backend, disabling persistence",
				zap.String("backend", config.PersistBackend))
		}
		config.PersistBackend = PersistNone
	}

	// Convert seconds to proper time.Duration
	config.ShutdownTimeout = config.ShutdownTimeout * time.Second

	return &config
}

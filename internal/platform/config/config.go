package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPgsql  = "pgsql"
	StoreDriverMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	StoreDriver   string

	// Offline queue
	QueueFile                 string
	QueueMaxRetries           int
	QueueMaxAge               time.Duration
	QueueGCInterval           time.Duration
	ConnectivityProbeInterval time.Duration

	// Scheduler
	SchedulerInterval time.Duration
	RedisAddress      string
	SchedulerLockTTL  time.Duration

	// Notification dispatch
	NotifyDispatchURL     string
	NotifyDispatchToken   string
	NotifyDispatchTimeout time.Duration

	// HTTP
	RateLimit        string
	CORSAllowOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("STORE_DRIVER", StoreDriverPgsql)
	viper.SetDefault("QUEUE_FILE", "data/queue.json")
	viper.SetDefault("QUEUE_MAX_RETRIES", 3)
	viper.SetDefault("QUEUE_MAX_AGE", "720h")
	viper.SetDefault("QUEUE_GC_INTERVAL", "1h")
	viper.SetDefault("CONNECTIVITY_PROBE_INTERVAL", "15s")
	viper.SetDefault("SCHEDULER_INTERVAL", "1h")
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("SCHEDULER_LOCK_TTL", "5m")
	viper.SetDefault("NOTIFY_DISPATCH_URL", "")
	viper.SetDefault("NOTIFY_DISPATCH_TOKEN", "")
	viper.SetDefault("NOTIFY_DISPATCH_TIMEOUT", "8s")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		StoreDriver:         strings.ToLower(viper.GetString("STORE_DRIVER")),
		QueueFile:           viper.GetString("QUEUE_FILE"),
		QueueMaxRetries:     viper.GetInt("QUEUE_MAX_RETRIES"),
		RedisAddress:        viper.GetString("REDIS_ADDRESS"),
		NotifyDispatchURL:   viper.GetString("NOTIFY_DISPATCH_URL"),
		NotifyDispatchToken: viper.GetString("NOTIFY_DISPATCH_TOKEN"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	switch cfg.StoreDriver {
	case StoreDriverPgsql:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StoreDriverMemory:
		log.Println("Warning: STORE_DRIVER=memory, balances are lost on restart.")
	default:
		log.Printf("Warning: Invalid value for STORE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPgsql)
		cfg.StoreDriver = StoreDriverPgsql
	}

	if cfg.QueueMaxRetries <= 0 {
		log.Printf("Warning: Invalid value for QUEUE_MAX_RETRIES (%d). Defaulting to 3.\n", cfg.QueueMaxRetries)
		cfg.QueueMaxRetries = 3
	}

	cfg.QueueMaxAge = durationOrDefault("QUEUE_MAX_AGE", 30*24*time.Hour)
	cfg.QueueGCInterval = durationOrDefault("QUEUE_GC_INTERVAL", time.Hour)
	cfg.ConnectivityProbeInterval = durationOrDefault("CONNECTIVITY_PROBE_INTERVAL", 15*time.Second)
	cfg.SchedulerInterval = durationOrDefault("SCHEDULER_INTERVAL", time.Hour)
	cfg.SchedulerLockTTL = durationOrDefault("SCHEDULER_LOCK_TTL", 5*time.Minute)
	cfg.NotifyDispatchTimeout = durationOrDefault("NOTIFY_DISPATCH_TIMEOUT", 8*time.Second)

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOW_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, origin)
		}
	}

	return cfg, nil
}

// durationOrDefault parses key as a positive duration, warning and falling back to def otherwise.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

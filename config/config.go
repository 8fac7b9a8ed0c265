package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the emulator and the dev server.
type Config struct {
	Environment string
	Port        string

	// Mode selects the transport behavior: "emulated" short-circuits API
	// calls against the local store, "live" passes everything through to
	// the real backend at APIBaseURL.
	Mode       string
	APIBaseURL string

	// Persistence settings for the local store.
	DataDir     string
	StoreEngine string // "badger" or "file"

	// Auth settings. The "demo" token scheme is the unsigned dev-only
	// codec; "jwt" selects signed HS256 tokens with expiry.
	TokenScheme    string
	JWTSecret      string
	TokenExpiry    time.Duration
	PasswordScheme string // "plain" or "bcrypt"

	// Seed controls whether an empty store is populated with demo data.
	Seed bool

	// Simulated network latency applied to fabricated responses.
	ReadLatency  time.Duration
	WriteLatency time.Duration

	CORSOrigins []string
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist and we rely on system
	// environment variables, so a load failure is only a warning.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:    env,
		Port:           os.Getenv("PORT"),
		Mode:           os.Getenv("MODE"),
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		DataDir:        os.Getenv("DATA_DIR"),
		StoreEngine:    os.Getenv("STORE_ENGINE"),
		TokenScheme:    os.Getenv("TOKEN_SCHEME"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		PasswordScheme: os.Getenv("PASSWORD_SCHEME"),
		Seed:           true,
	}

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Mode == "" {
		cfg.Mode = "emulated"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.StoreEngine == "" {
		cfg.StoreEngine = "badger"
	}
	if cfg.TokenScheme == "" {
		cfg.TokenScheme = "demo"
	}
	if cfg.PasswordScheme == "" {
		cfg.PasswordScheme = "plain"
	}

	if cfg.TokenScheme == "jwt" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when TOKEN_SCHEME=jwt")
	}

	var err error
	cfg.TokenExpiry, err = parseDuration("TOKEN_EXPIRY", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.ReadLatency, err = parseMillis("LATENCY_READ_MS", 300*time.Millisecond)
	if err != nil {
		return nil, err
	}
	cfg.WriteLatency, err = parseMillis("LATENCY_WRITE_MS", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	if s := os.Getenv("SEED"); s != "" {
		cfg.Seed, err = strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED value %q: %w", s, err)
		}
	}

	if s := os.Getenv("CORS_ORIGINS"); s != "" {
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"http://localhost:4200"}
	}

	return cfg, nil
}

func parseDuration(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, s, err)
	}
	return d, nil
}

func parseMillis(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	ms, err := strconv.Atoi(s)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid %s value %q", name, s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the matchmaker
// service.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration
	SeedFile   string
	LogLevel   string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; malformed values are collected and
// reported together so operators fix everything in one pass.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:matchmaker.db?_foreign_keys=on",
		SessionTTL: 24 * time.Hour,
		LogLevel:   "info",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("MATCHMAKER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "MATCHMAKER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("MATCHMAKER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("MATCHMAKER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "MATCHMAKER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	cfg.SeedFile = strings.TrimSpace(os.Getenv("MATCHMAKER_SEED_FILE"))

	if level := strings.TrimSpace(os.Getenv("MATCHMAKER_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valeurs de variables d'environnement invalides : %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Env            string
	Port           int
	LogLevel       string
	CatalogPath    string // empty means the built-in roster
	DatabaseURL    string // empty means in-memory snapshots
	AllowedOrigins []string
}

func (c Config) Development() bool { return c.Env == "development" }

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Load reads an optional dotenv file, then the environment, then flags. Each
// layer overrides the one before it. A missing dotenv file is not an error.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	envFile := fs.String("env-file", ".env", "dotenv file to load before reading the environment")
	port := fs.Int("port", 0, "listen port (overrides PORT)")
	catalogPath := fs.String("catalog", "", "YAML player catalog (overrides CATALOG_PATH)")
	logLevel := fs.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(*envFile); err != nil && fs.Changed("env-file") {
		return Config{}, fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	cfg := Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	var err error
	cfg.Port, err = getEnvAsInt("PORT", 5001)
	if err != nil {
		return Config{}, err
	}

	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("catalog") {
		cfg.CatalogPath = *catalogPath
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

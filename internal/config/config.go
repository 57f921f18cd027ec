// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Store    StoreConfig
	Supabase SupabaseConfig
	Server   ServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StoreConfig holds local score store configuration.
type StoreConfig struct {
	// DataPath is the directory for the on-device score database.
	DataPath string
}

// SupabaseConfig holds remote leaderboard backend configuration.
type SupabaseConfig struct {
	// URL is the Supabase project URL (https://<ref>.supabase.co).
	URL string
	// AnonKey is the anon/public API key. The runtime never holds a
	// privileged key; schema provisioning is an administrative action.
	AnonKey string
	// Table is the scores table name (default: scores).
	Table string
	// ProbeInterval is how often the schema probe re-runs while offline
	// (default: 30s).
	ProbeInterval time.Duration
	// QualityInterval is how often round-trip latency is sampled
	// (default: 30s).
	QualityInterval time.Duration
	// ReconnectDelay debounces the re-probe after a network-restored
	// signal (default: 1s).
	ReconnectDelay time.Duration
	// RequestsPerSecond / Burst bound outbound request rate.
	RequestsPerSecond float64
	Burst             int
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	// RequestsPerSecond / Burst bound inbound API requests per client IP.
	RequestsPerSecond float64
	Burst             int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Directory for the local score database")
	supabaseURL := flag.String("supabase-url", "", "Supabase project URL")
	supabaseKey := flag.String("supabase-anon-key", "", "Supabase anon key")
	supabaseTable := flag.String("supabase-table", "", "Scores table name (default: scores)")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	allowedOrigins := flag.String("allowed-origins", "", "Comma-separated CORS origins (default: *)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", "./data"),
		},
		Supabase: SupabaseConfig{
			URL:               getConfigValue(*supabaseURL, "SUPABASE_URL", ""),
			AnonKey:           getConfigValue(*supabaseKey, "SUPABASE_ANON_KEY", ""),
			Table:             getConfigValue(*supabaseTable, "SUPABASE_TABLE", "scores"),
			RequestsPerSecond: getFloatConfigValue("", "SUPABASE_RPS", 2.0),
			Burst:             getIntConfigValue("", "SUPABASE_BURST", 5),
		},
		Server: ServerConfig{
			Port:              getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins:    splitOrigins(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "*")),
			RequestsPerSecond: getFloatConfigValue("", "SERVER_RPS", 20.0),
			Burst:             getIntConfigValue("", "SERVER_BURST", 40),
		},
	}

	durations := []struct {
		dst  *time.Duration
		env  string
		def  string
		name string
	}{
		{&cfg.Supabase.ProbeInterval, "SUPABASE_PROBE_INTERVAL", "30s", "probe interval"},
		{&cfg.Supabase.QualityInterval, "SUPABASE_QUALITY_INTERVAL", "30s", "quality interval"},
		{&cfg.Supabase.ReconnectDelay, "SUPABASE_RECONNECT_DELAY", "1s", "reconnect delay"},
		{&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout"},
		{&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT", "15s", "write timeout"},
		{&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout"},
	}
	for _, d := range durations {
		raw := getConfigValue("", d.env, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, raw, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}

// getConfigValue returns the first non-empty value among flag, environment
// variable, and default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue is getConfigValue for integers. Unparsable values fall
// back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// getFloatConfigValue is getConfigValue for floats. Unparsable values fall
// back to the default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// splitOrigins parses a comma-separated origin list, trimming whitespace.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// loadEnvFile reads KEY=VALUE pairs from a file into the process
// environment. Existing environment variables are not overwritten.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

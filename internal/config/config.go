// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Depot    DepotConfig
	Brochure BrochureConfig
	Versions VersionsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// DepotConfig holds image depot storage configuration.
type DepotConfig struct {
	// BasePath is the root directory for the customer/pending/admin tiers.
	BasePath string
	// MaxImageDimension is the standardization size ceiling in pixels (default: 1024).
	MaxImageDimension int
}

// BrochureConfig holds brochure document storage and layout configuration.
type BrochureConfig struct {
	// DataPath is the Badger database directory for brochure documents.
	DataPath string
	// MaxPages bounds the number of pages per brochure (default: 20).
	MaxPages int
}

// VersionsConfig holds version history configuration.
type VersionsConfig struct {
	// DBPath is the SQLite database file for version history.
	DBPath string
	// Retention is how many versions to keep per brochure (default: 10).
	Retention int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for application data")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	depotPath := flag.String("depot-path", "", "Root directory for image depot tiers")
	maxPages := flag.String("max-pages", "", "Maximum pages per brochure (default: 20)")
	retention := flag.String("version-retention", "", "Versions kept per brochure (default: 10)")
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
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Depot: DepotConfig{
			BasePath:          getConfigValue(*depotPath, "DEPOT_PATH", ""),
			MaxImageDimension: getIntConfigValue("", "DEPOT_MAX_IMAGE_DIMENSION", 1024),
		},
		Brochure: BrochureConfig{
			DataPath: "", // derived from data path below
			MaxPages: getIntConfigValue(*maxPages, "BROCHURE_MAX_PAGES", 20),
		},
		Versions: VersionsConfig{
			DBPath:    "", // derived from data path below
			Retention: getIntConfigValue(*retention, "VERSION_RETENTION", 10),
		},
	}

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand the data path and derive component paths from it.
	basePath := getConfigValue(*dataPath, "DATA_PATH", "")
	if err := cfg.expandPaths(basePath); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Depot.BasePath == "" {
		return errors.New("depot base path cannot be empty after expansion")
	}
	if c.Brochure.DataPath == "" {
		return errors.New("brochure data path cannot be empty after expansion")
	}
	if c.Versions.DBPath == "" {
		return errors.New("versions database path cannot be empty after expansion")
	}

	if c.Brochure.MaxPages < 1 {
		return fmt.Errorf("max pages must be positive, got %d", c.Brochure.MaxPages)
	}
	if c.Versions.Retention < 1 {
		return fmt.Errorf("version retention must be positive, got %d", c.Versions.Retention)
	}
	if c.Depot.MaxImageDimension < 16 {
		return fmt.Errorf("max image dimension too small: %d", c.Depot.MaxImageDimension)
	}

	return nil
}

// expandPaths expands ~ in the base data path and derives component paths.
// Depot, brochure store, and version DB paths default to subdirectories of
// the data path unless overridden individually.
func (c *Config) expandPaths(basePath string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultBase := filepath.Join(homeDir, "FlyerForge", "data")

	base, err := expandPath(basePath, defaultBase)
	if err != nil {
		return err
	}

	if c.Depot.BasePath == "" {
		c.Depot.BasePath = filepath.Join(base, "depot")
	} else if c.Depot.BasePath, err = expandPath(c.Depot.BasePath, ""); err != nil {
		return err
	}

	c.Brochure.DataPath = filepath.Join(base, "brochures")
	c.Versions.DBPath = filepath.Join(base, "versions.db")
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	base := t.TempDir()
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Depot:    DepotConfig{BasePath: filepath.Join(base, "depot"), MaxImageDimension: 1024},
		Brochure: BrochureConfig{DataPath: filepath.Join(base, "brochures"), MaxPages: 20},
		Versions: VersionsConfig{DBPath: filepath.Join(base, "versions.db"), Retention: 10},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidEnvironment(t *testing.T) {
	cfg := validConfig(t)
	cfg.App.Environment = "testing"
	assert.Error(t, cfg.Validate())
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig(t)
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyDepotPath(t *testing.T) {
	cfg := validConfig(t)
	cfg.Depot.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max pages", func(c *Config) { c.Brochure.MaxPages = 0 }},
		{"negative retention", func(c *Config) { c.Versions.Retention = -1 }},
		{"tiny image dimension", func(c *Config) { c.Depot.MaxImageDimension = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandPaths_DerivesComponentPaths(t *testing.T) {
	cfg := validConfig(t)
	cfg.Depot.BasePath = ""

	base := t.TempDir()
	require.NoError(t, cfg.expandPaths(base))

	assert.Equal(t, filepath.Join(base, "depot"), cfg.Depot.BasePath)
	assert.Equal(t, filepath.Join(base, "brochures"), cfg.Brochure.DataPath)
	assert.Equal(t, filepath.Join(base, "versions.db"), cfg.Versions.DBPath)
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/flyerforge", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "flyerforge"), got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("FLYERFORGE_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "FLYERFORGE_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "FLYERFORGE_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "FLYERFORGE_TEST_MISSING", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nFLYERFORGE_ENVFILE_KEY=\"hello\"\n"), 0644))

	t.Setenv("FLYERFORGE_ENVFILE_KEY", "")
	os.Unsetenv("FLYERFORGE_ENVFILE_KEY")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("FLYERFORGE_ENVFILE_KEY"))
}

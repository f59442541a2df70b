// Package providers contains dependency injection providers for the FlyerForge server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/flyerforge/flyerforge-server/internal/config"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/validation"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting FlyerForge Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"depot_path", cfg.Depot.BasePath,
		"brochure_path", cfg.Brochure.DataPath,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}

// ProvideValidator provides the request payload validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

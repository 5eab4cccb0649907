// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dalemusser/intake/app"
	"github.com/dalemusser/intake/config"
	"github.com/dalemusser/intake/health"
	"github.com/dalemusser/intake/internal/app/features/landing"
	"github.com/dalemusser/intake/internal/app/features/submit"
	"github.com/dalemusser/intake/metrics"
	"github.com/dalemusser/intake/router"
	"go.uber.org/zap"
)

// LoadConfig loads core config and app-specific config from the process
// arguments, environment and config files.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	return loadConfig(logger, os.Args[1:])
}

func loadConfig(logger *zap.Logger, args []string) (*config.CoreConfig, AppConfig, error) {
	coreCfg, values, err := config.LoadWithApp(logger, args, AppKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}
	appCfg, err := appConfigFrom(values)
	if err != nil {
		return nil, AppConfig{}, err
	}
	return coreCfg, appCfg, nil
}

// BuildHandler constructs the HTTP handler for the service:
//
//	GET  /          landing page
//	GET  /static/*  landing page assets
//	POST /submit    submission endpoint
//	GET  /health    liveness probe
//	GET  /metrics   Prometheus metrics (enable_metrics)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (http.Handler, error) {
	return buildHandler(coreCfg, appCfg, logger, time.Now)
}

func buildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger, clock func() time.Time) (http.Handler, error) {
	r := router.New(coreCfg, logger)

	page, err := landing.NewHandler(appCfg.ServiceName, logger)
	if err != nil {
		return nil, fmt.Errorf("build landing page: %w", err)
	}
	r.Get("/", page.Index)
	r.Get("/static/*", page.Static)

	sub := submit.NewHandler(logger, appCfg.Location)
	sub.Now = clock
	r.Mount("/submit", submit.Routes(sub))

	health.Mount(r, appCfg.ServiceName, clock, appCfg.Location)

	if coreCfg.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r, nil
}

// Hooks wires the service into the app lifecycle.
var Hooks = app.Hooks[AppConfig]{
	Name:         "intake",
	LoadConfig:   LoadConfig,
	BuildHandler: BuildHandler,
}

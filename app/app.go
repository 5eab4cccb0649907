// app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/intake/config"
	"github.com/dalemusser/intake/httputil"
	"github.com/dalemusser/intake/logging"
	"github.com/dalemusser/intake/metrics"
	"github.com/dalemusser/intake/server"
	"go.uber.org/zap"
)

// Hooks defines the integration points an application must provide to Run.
type Hooks[C any] struct {
	// Name is used only for logging/diagnostics.
	Name string

	// LoadConfig must return both the core config and the app-specific
	// config. It typically calls config.LoadWithApp internally.
	LoadConfig func(logger *zap.Logger) (*config.CoreConfig, C, error)

	// BuildHandler must construct the final http.Handler for the app:
	// router, middleware and routes.
	BuildHandler func(core *config.CoreConfig, appCfg C, logger *zap.Logger) (http.Handler, error)

	// Serve starts the server. Nil means server.ListenAndServeWithContext.
	Serve func(ctx context.Context, core *config.CoreConfig, h http.Handler, logger *zap.Logger) error
}

// Run executes the standard startup sequence:
//
//  1. Bootstrap logger
//  2. Load core + app config (Hooks.LoadConfig)
//  3. Build final logger based on core config
//  4. Register default metrics
//  5. Wire shutdown signals to a context
//  6. Build the HTTP handler (Hooks.BuildHandler)
//  7. Start the HTTP(S) server and block until shutdown
func Run[C any](ctx context.Context, hooks Hooks[C]) error {
	if hooks.LoadConfig == nil || hooks.BuildHandler == nil {
		return errors.New("app: LoadConfig and BuildHandler hooks are required")
	}

	boot := logging.BootstrapLogger()
	defer func() { _ = boot.Sync() }()
	boot.Info("bootstrap logger initialized", zap.String("app", hooks.Name))

	coreCfg, appCfg, err := hooks.LoadConfig(boot)
	if err != nil {
		boot.Error("config load failed", zap.Error(err))
		return fmt.Errorf("load config: %w", err)
	}
	boot.Info("config loaded",
		zap.String("env", coreCfg.Env),
		zap.String("log_level", coreCfg.LogLevel),
	)

	logger, err := logging.BuildLogger(coreCfg.LogLevel, coreCfg.Env)
	if err != nil {
		boot.Error("logger build failed", zap.Error(err))
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("logger initialized", zap.String("app", hooks.Name))
	logger.Debug("effective config", zap.String("config", coreCfg.Dump()))

	httputil.SetJSONLogger(logger.Sugar())

	if coreCfg.EnableMetrics {
		metrics.RegisterDefault(logger)
	}

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	handler, err := hooks.BuildHandler(coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("handler build failed", zap.Error(err))
		return fmt.Errorf("build handler: %w", err)
	}

	serve := hooks.Serve
	if serve == nil {
		serve = server.ListenAndServeWithContext
	}
	if err := serve(ctx, coreCfg, handler, logger); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

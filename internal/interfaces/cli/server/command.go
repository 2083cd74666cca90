package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/templink/internal/infrastructure/config"
	httpRouter "github.com/orris-inc/templink/internal/interfaces/http"
	"github.com/orris-inc/templink/internal/shared/goroutine"
	"github.com/orris-inc/templink/internal/shared/logger"
	"github.com/orris-inc/templink/internal/shared/version"
)

const shutdownTimeout = 30 * time.Second

var (
	env         string
	configPath  string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the templink HTTP server: the link dispatch route, the admin API and the background sweeper.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply snapshot table migrations on startup (database snapshot driver only)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server",
		"environment", env,
		"version", version.Version,
		"snapshot_driver", cfg.Snapshot.Driver,
		"auto_migrate", autoMigrate)

	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := httpRouter.NewContainer(ctx, cfg, httpRouter.ContainerOptions{
		Environment: env,
		AutoMigrate: autoMigrate,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"route", cfg.TempLink.RoutePrefix+"/:"+cfg.TempLink.ParamName)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case <-ctx.Done():
		log.Infow("shutting down server...")
	case err = <-serveErr:
		log.Errorw("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Errorw("server forced to shutdown", "error", shutdownErr)
	}

	// In-flight requests are done, so the final snapshot sees every consumed link
	if shutdownErr := container.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Errorw("container shutdown", "error", shutdownErr)
	}

	if err != nil {
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/amiosamu/restaurant-admin/internal/config"
	"github.com/amiosamu/restaurant-admin/internal/container"
	sharedConfig "github.com/amiosamu/restaurant-admin/shared/platform/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:  config.ServiceName,
		Usage: "restaurant admin API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:  "env-template",
				Usage: "print the environment variables the service reads",
				Action: func(*cli.Context) error {
					sharedConfig.PrintEnvTemplate(config.ServiceName)
					return nil
				},
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%s: %v", config.ServiceName, err)
	}
}

func serve(cliCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	logger := c.Logger
	logger.Info(ctx, "Starting admin service", map[string]interface{}{
		"service": cfg.Service.Name,
		"version": cfg.Service.Version,
	})

	if cfg.Admin.Enabled() {
		admin, err := c.UserService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
		logger.Info(ctx, "Admin account ready", map[string]interface{}{"email": admin.Email})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.HTTPServer.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(ctx, "HTTP server failed", err)
		}
		return err
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return c.HTTPServer.Stop(shutdownCtx)
}

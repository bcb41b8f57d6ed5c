package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/bookmarky/internal/auth"
	"github.com/zulandar/bookmarky/internal/db"
	"github.com/zulandar/bookmarky/internal/logging"
	"github.com/zulandar/bookmarky/internal/txn"
	"github.com/zulandar/bookmarky/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  "Migrates the database, starts the session sweeper and serves the Bookmarky pages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := db.EnsureDatabase(cfg.Database); err != nil {
		return err
	}
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close(gormDB)
	if err := db.Init(gormDB); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := auth.StartSweeper(ctx, gormDB, cfg.Server.SweepSchedule, logging.Component(logger, "sweeper")); err != nil {
		return err
	}

	return web.Start(ctx, web.StartOpts{
		DB:     gormDB,
		Port:   cfg.Server.Port,
		Out:    cmd.OutOrStdout(),
		Logger: logging.Component(logger, "web"),
		Policy: txn.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     cfg.Retry.Backoff,
			Logger:      logging.Component(logger, "txn"),
		},
		SessionTTL:   cfg.Server.SessionTTL,
		SecureCookie: cfg.Server.SecureCookie,
	})
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/readpack/readpack"
	"github.com/readpack/readpack/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the readpack HTTP server",
	Long:  "Start the readpack API server that serves pack requests and records invocation history.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	app, err := readpack.NewBuilder().
		WithConfig(readpack.Config{
			ServerAddr:    cfg.ServerAddr,
			DataDir:       cfg.DataDir,
			DatabasePath:  cfg.DatabasePath,
			MaxTotalBytes: cfg.MaxTotalBytes,
			MaxTotalLines: cfg.MaxTotalLines,
		}).
		Build()
	if err != nil {
		return fmt.Errorf("building application: %w", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	return app.Start(ctx)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inventory-tracker/internal/cli"
	"inventory-tracker/internal/config"
	"inventory-tracker/internal/source"
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)

	// Cancel in-flight loads on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize inventory file loader with local file system and optional S3 seed
	fileLoader := source.NewFileLoader(logger)
	var s3Loader source.Loader

	if cfg.S3.Enabled {
		s3Loader, err = source.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	}

	loader := source.NewFallbackLoader(fileLoader, s3Loader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	env := cli.Env{
		Config: cfg,
		Logger: logger,
		Loader: loader,
	}
	return cli.Execute(ctx, env, args, os.Stdout, os.Stderr), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeme-client/internal/auth"
	"codeme-client/internal/cli"
	"codeme-client/internal/config"
	"codeme-client/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	_ "codeme-client/docs" // This is needed for swag
)

//	@title			CodeMe Companion API
//	@version		1.0
//	@description	Local companion server for the CodeMe backend: completes the login redirect, holds the bearer token and proxies share link and document calls.

//	@host		localhost:7009
//	@BasePath	/

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("codeme", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	configPath := flags.String("config", "", "path to a config file (default: ./config.yaml if present)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		return 1
	}

	// Command output goes to stdout, so logs go to stderr
	logger.Setup(cfg.LogLevel, os.Stderr)

	// Gin's route dump is only wanted while debugging
	if cfg.IsProduction() || cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	state, err := auth.NewState(auth.NewFileTokenStore(cfg.TokenFile))
	if err != nil {
		logrus.WithError(err).Error("Failed to load token")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(cfg, state, os.Stdout, os.Stderr)
	if err := app.Run(ctx, flags.Args()); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return cli.ExitCode(err)
	}
	return 0
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/getstandings/internal/app"
	"github.com/riskibarqy/getstandings/internal/config"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	c := &cli{load: loadApp}
	err := c.rootCommand().Execute()
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadApp builds the application from the environment. Commands share state
// with a running API only when STORE_BACKEND points at postgres or redis.
func loadApp(ctx context.Context, verbose bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := logging.LevelWarn
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Options{Level: level, Format: logging.FormatConsole, Output: os.Stderr})
	logging.SetDefault(logger)

	return app.New(ctx, cfg, logger)
}

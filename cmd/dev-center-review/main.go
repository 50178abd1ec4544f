// Command dev-center-review captures a full-page screenshot of the local
// dev-center page for visual review.
//
// Usage:
//
//	go run ./cmd/dev-center-review
//
// It takes no arguments. The page at http://localhost:3000/dev-center is
// loaded in headless Chrome, allowed to reach network idle, given two seconds
// to settle, and saved to dev_center_review.png in the working directory.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bobmcallan/dev-center-review/internal/capture"
	"github.com/bobmcallan/dev-center-review/internal/common"
	"github.com/bobmcallan/dev-center-review/internal/config"
)

func main() {
	configFiles := config.Discover()

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("version", common.GetFullVersion()).
		Msg("configuration loaded")

	engine := capture.NewChromeEngine(cfg.Browser, logger)
	runner := capture.NewRunner(engine, logger, os.Stdout)

	if err := runner.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("capture could not start")
		os.Exit(1)
	}
}

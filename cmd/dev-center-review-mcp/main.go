// Command dev-center-review-mcp exposes the dev-center review capture as an
// MCP tool, so an editor agent can request a fresh screenshot.
//
// Usage:
//
//	dev-center-review-mcp                 # stdio transport
//	dev-center-review-mcp -http :4250     # streamable HTTP transport
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/dev-center-review/internal/capture"
	"github.com/bobmcallan/dev-center-review/internal/common"
	"github.com/bobmcallan/dev-center-review/internal/config"
)

func main() {
	httpAddr := flag.String("http", "", "Serve streamable HTTP on this address instead of stdio")
	configFile := flag.String("config", "", "Path to config file (default: auto-discover)")
	flag.Parse()

	configFiles := config.Discover()
	if *configFile != "" {
		configFiles = []string{*configFile}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	engine := capture.NewChromeEngine(cfg.Browser, logger)
	// Console lines are returned as tool content; stdout belongs to the transport.
	runner := capture.NewRunner(engine, logger, io.Discard)
	svc := newReviewService(runner.Capture, logger)

	mcpServer := server.NewMCPServer(
		cfg.MCP.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	registerTools(mcpServer, svc)

	if *httpAddr == "" {
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("addr", *httpAddr).Str("version", common.GetFullVersion()).Msg("starting MCP streamable HTTP")

	if err := httpServer.Start(*httpAddr); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}

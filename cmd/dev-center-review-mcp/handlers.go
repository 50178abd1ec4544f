package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/dev-center-review/internal/capture"
	"github.com/bobmcallan/dev-center-review/internal/common"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// --- Handlers ---

func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("dev-center-review MCP Server\nVersion: %s\nStatus: OK", common.GetFullVersion())
		return textResult(result), nil
	}
}

func handleCaptureDevCenter(svc *reviewService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := svc.Capture(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("%s %v", capture.FailureLabel, err)), nil
		}
		if !res.OK() {
			return errorResult(res.Message()), nil
		}

		data, err := os.ReadFile(res.Path)
		if err != nil {
			// The file was written; report it without the inline image.
			svc.logger.Warn().Err(err).Str("path", res.Path).Msg("screenshot saved but could not be read back")
			return textResult(res.Message()), nil
		}

		summary := fmt.Sprintf("%s\nURL: %s\nSize: %d bytes\nElapsed: %s",
			res.Message(), res.URL, res.Bytes, res.Elapsed.Round(time.Millisecond))
		if len(res.JSErrors) > 0 {
			summary += fmt.Sprintf("\nJS errors (%d):\n  %s", len(res.JSErrors), strings.Join(res.JSErrors, "\n  "))
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(summary),
				mcp.NewImageContent(base64.StdEncoding.EncodeToString(data), "image/png"),
			},
		}, nil
	}
}

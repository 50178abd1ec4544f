package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools registers all MCP tools on the server.
func registerTools(s *server.MCPServer, svc *reviewService) {
	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createCaptureDevCenterTool(), handleCaptureDevCenter(svc))
}

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the dev-center-review server version. Use this to verify connectivity."),
	)
}

func createCaptureDevCenterTool() mcp.Tool {
	return mcp.NewTool("capture_dev_center",
		mcp.WithDescription("Capture a full-page screenshot of http://localhost:3000/dev-center once the page "+
			"reaches network idle and animations have settled. Saves dev_center_review.png in the server's "+
			"working directory and returns the image. Requires the dev server to be running on port 3000."),
	)
}

// Command bloommcp exposes the bloom gateway as MCP tools over stdio.
//
// It reads the same environment variables as bloomd. Logs go to stderr
// because stdout carries the protocol.
//
// Configuration for an MCP client:
//
//	{
//	    "mcpServers": {
//	        "bloom": {
//	            "command": "bloommcp",
//	            "env": {"GEMINI_API_KEY": "..."}
//	        }
//	    }
//	}
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spetersoncode/bloom/internal/config"
	"github.com/spetersoncode/bloom/mcp"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	gw, err := cfg.NewGateway(context.Background(), logger)
	if err != nil {
		logger.Error("failed to create image generator", "error", err)
		os.Exit(1)
	}

	if err := mcp.ServeStdio(gw, mcp.WithName("bloom"), mcp.WithVersion(version)); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// Package mcp exposes the bloom gateway as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/gateway"
)

// Tool names.
const (
	ToolGenerateSculpture = "generate_sculpture"
	ToolListStyles        = "list_styles"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server with two tools:
//
//	generate_sculpture(photo, style)  returns the generated image
//	list_styles()                     returns the style catalog as JSON
//
// Generation failures are reported as tool errors, not protocol errors.
//
// Example:
//
//	s := mcp.NewServer(gw, mcp.WithName("bloom"))
//	server.ServeStdio(s)
func NewServer(gw *gateway.Gateway, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "bloom",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(generateTool(), generateHandler(gw))
	s.AddTool(mcp.NewTool(ToolListStyles,
		mcp.WithDescription("List the available sculpture styles"),
	), listStylesHandler)

	return s
}

func generateTool() mcp.Tool {
	return mcp.NewTool(ToolGenerateSculpture,
		mcp.WithDescription("Turn a photo into a preserved-hydrangea flower sculpture in the chosen art style"),
		mcp.WithString("photo",
			mcp.Required(),
			mcp.Description("Base64-encoded photo, optionally a data:image/...;base64, URI"),
		),
		mcp.WithString("style",
			mcp.Required(),
			mcp.Description("Art style key"),
			mcp.Enum(bloom.StyleKeys()...),
		),
	)
}

func generateHandler(gw *gateway.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		genReq := bloom.GenerationRequest{
			Photo: req.GetString("photo", ""),
			Style: req.GetString("style", ""),
		}

		img, err := gw.Generate(ctx, genReq)
		if err != nil {
			return toolError(err), nil
		}

		style, _ := bloom.LookupStyle(genReq.Style)
		return mcp.NewToolResultImage(
			fmt.Sprintf("%s %s sculpture", style.Emoji, style.Name),
			img.Data,
			img.MIMEType,
		), nil
	}
}

// toolError reports err with its kind so callers can tell safety blocks
// from outages.
func toolError(err error) *mcp.CallToolResult {
	var be *bloom.Error
	if errors.As(err, &be) {
		if be.Reason != "" {
			return mcp.NewToolResultError(fmt.Sprintf("%s (%s/%s)", be.Msg, be.Kind, be.Reason))
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", be.Msg, be.Kind))
	}
	return mcp.NewToolResultError(err.Error())
}

type styleInfo struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

func listStylesHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	styles := bloom.Styles()
	out := make([]styleInfo, 0, len(styles))
	for _, s := range styles {
		out = append(out, styleInfo{Key: s.Key, Name: s.Name, Emoji: s.Emoji})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio serves gw over stdin/stdout, the standard transport for MCP
// servers launched as subprocesses.
func ServeStdio(gw *gateway.Gateway, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(gw, opts...))
}

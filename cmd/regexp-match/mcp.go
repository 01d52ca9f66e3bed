package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Veraticus/regexp-match/pkg/oracle"
	"github.com/Veraticus/regexp-match/pkg/process"
	"github.com/Veraticus/regexp-match/pkg/types"
)

const (
	toolName      = "regexp-match"
	serverVersion = "v0.1.0"
)

// newMCPServer exposes the application as a single MCP tool.
func newMCPServer(app *Application) *server.MCPServer {
	s := server.NewMCPServer(toolName, serverVersion, server.WithToolCapabilities(false))
	s.AddTool(mcp.NewTool(toolName,
		mcp.WithTitleAnnotation("Regular Expression Matcher"),
		mcp.WithDescription("Tool to match text against a regular expression."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("RE2 regular expression")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text the pattern is searched in")),
	), app.matchTool)
	return s
}

// serveMCP speaks MCP over stdin and stdout until stdin closes or ctx ends.
func serveMCP(ctx context.Context, app *Application, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	stdio := server.NewStdioServer(newMCPServer(app))
	stdio.SetErrorLogger(zap.NewStdLog(logger))

	logger.Info("serving MCP on stdio", zap.String("tool", toolName))
	if err := stdio.Listen(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}

// matchTool answers one tool call with a result document. Refused arguments
// and engine failures are reported inside the document, never as protocol errors.
func (a *Application) matchTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := oracle.EncodeResult(a.toolResult(ctx, req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (a *Application) toolResult(ctx context.Context, req mcp.CallToolRequest) types.Result {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return types.Failed(process.ClientError(fmt.Errorf("%w: %v", process.ErrInput, err)))
	}
	text, err := req.RequireString("text")
	if err != nil {
		return types.Failed(process.ClientError(fmt.Errorf("%w: %v", process.ErrInput, err)))
	}

	ctx, cancel := context.WithTimeout(ctx, a.deps.Config.Timeout)
	defer cancel()

	result, _ := a.Query(ctx, types.Request{
		Pattern: types.UntrustedPattern(pattern),
		Text:    types.UntrustedText(text),
	})
	return result
}

// Package mcpserver exposes the resolver as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	recurrence "github.com/njchilds90/gorecurrence"
)

// Server wraps a Resolver and serves it over MCP.
type Server struct {
	resolver  *recurrence.Resolver
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// New registers the recurrence tools on a fresh MCP server.
func New(resolver *recurrence.Resolver, logger *slog.Logger, version string) *Server {
	if resolver == nil {
		resolver = recurrence.NewResolver()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		resolver:  resolver,
		logger:    logger,
		mcpServer: server.NewMCPServer("gorecurrence", version),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio serves on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// HTTPHandler returns the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	recurrenceArgs := []mcp.ToolOption{
		mcp.WithString("relation", mcp.Required(), mcp.Description("Right-hand side of a[n] = ..., e.g. \"a[n-1] + a[n-2]\"")),
		mcp.WithString("name", mcp.Description("Sequence name (default a)")),
		mcp.WithString("index", mcp.Description("Index symbol (default n)")),
	}
	initial := mcp.WithString("initial", mcp.Required(), mcp.Description("Starting values a[0], a[1], ... as a JSON array or comma-separated list"))

	resolveOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Resolve a linear homogeneous constant-coefficient recurrence into a closed form."),
	}, recurrenceArgs...)
	resolveOpts = append(resolveOpts, initial)
	s.mcpServer.AddTool(mcp.NewTool("resolve_recurrence", resolveOpts...), s.HandleResolve)

	charOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Characteristic polynomial of a recurrence relation."),
	}, recurrenceArgs...)
	s.mcpServer.AddTool(mcp.NewTool("characteristic_polynomial", charOpts...), s.HandleCharacteristic)

	termsOpts := append([]mcp.ToolOption{
		mcp.WithDescription("First terms of a recurrence computed by unrolling the relation."),
	}, recurrenceArgs...)
	termsOpts = append(termsOpts, initial,
		mcp.WithNumber("count", mcp.Required(), mcp.Description("Number of terms to return")))
	s.mcpServer.AddTool(mcp.NewTool("recurrence_terms", termsOpts...), s.HandleTerms)
}

func (s *Server) HandleResolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, "resolve", request)
}

func (s *Server) HandleCharacteristic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, "characteristic_polynomial", request)
}

func (s *Server) HandleTerms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, "terms", request)
}

func (s *Server) dispatch(ctx context.Context, tool string, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := make(map[string]interface{}, len(request.GetArguments()))
	for k, v := range request.GetArguments() {
		params[k] = v
	}
	if raw, ok := params["initial"]; ok {
		values, err := initialValues(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("initial: %v", err)), nil
		}
		params["initial"] = values
	}

	resp := s.resolver.HandleToolCall(recurrence.ToolRequest{Tool: tool, Params: params})
	if resp.Error != "" {
		s.logger.WarnContext(ctx, "mcp tool failed", "tool", request.Params.Name, "error", resp.Error)
		return mcp.NewToolResultError(resp.Error), nil
	}
	s.logger.DebugContext(ctx, "mcp tool", "tool", request.Params.Name, "result", resp.String)

	body, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// initialValues accepts a JSON array, a comma-separated list or an array.
func initialValues(raw interface{}) ([]interface{}, error) {
	switch v := raw.(type) {
	case []interface{}:
		return v, nil
	case string:
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var out []interface{}
			if err := json.Unmarshal([]byte(v), &out); err != nil {
				return nil, err
			}
			return out, nil
		}
		if v == "" {
			return nil, nil
		}
		parts := strings.Split(v, ",")
		out := make([]interface{}, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", raw)
}

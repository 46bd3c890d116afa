package mcpserver_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recurrence "github.com/njchilds90/gorecurrence"
	"github.com/njchilds90/gorecurrence/internal/mcpserver"
)

func request(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleResolve(t *testing.T) {
	s := mcpserver.New(nil, nil, "test")
	res, err := s.HandleResolve(context.Background(), request("resolve_recurrence", map[string]any{
		"relation": "2*a[n-1] - a[n-2]",
		"initial":  "1, 3",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var resp recurrence.ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &resp))
	assert.Equal(t, "2*n + 1", resp.String)
}

func TestHandleResolve_JSONArrayInitial(t *testing.T) {
	s := mcpserver.New(recurrence.NewResolver(), nil, "test")
	res, err := s.HandleResolve(context.Background(), request("resolve_recurrence", map[string]any{
		"relation": "a[n]/2 + a[n-1]",
		"initial":  `["3"]`,
	}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), `"string":"3*2^n"`)
}

func TestHandleResolve_Errors(t *testing.T) {
	s := mcpserver.New(nil, nil, "test")

	res, err := s.HandleResolve(context.Background(), request("resolve_recurrence", map[string]any{
		"relation": "a[n-1]^2",
		"initial":  "1",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not linear homogeneous")

	res, err = s.HandleResolve(context.Background(), request("resolve_recurrence", map[string]any{
		"relation": "a[n-1]",
		"initial":  "[1,",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "initial")
}

func TestHandleCharacteristic(t *testing.T) {
	s := mcpserver.New(nil, nil, "test")
	res, err := s.HandleCharacteristic(context.Background(), request("characteristic_polynomial", map[string]any{
		"relation": "a[n-1] + a[n-2]",
	}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "-r^2 + r + 1")
}

func TestHandleTerms(t *testing.T) {
	s := mcpserver.New(recurrence.NewResolver(recurrence.WithMaxTerms(5)), nil, "test")
	res, err := s.HandleTerms(context.Background(), request("recurrence_terms", map[string]any{
		"relation": "a[n-1] + a[n-2]",
		"initial":  []any{"0", "1"},
		"count":    float64(5),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), `["0","1","1","2","3"]`)

	res, err = s.HandleTerms(context.Background(), request("recurrence_terms", map[string]any{
		"relation": "a[n-1] + a[n-2]",
		"initial":  "0,1",
		"count":    float64(6),
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolsList(t *testing.T) {
	s := mcpserver.New(nil, nil, "test")
	msg := s.MCPServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	for _, name := range []string{"resolve_recurrence", "characteristic_polynomial", "recurrence_terms"} {
		assert.Contains(t, string(body), name)
	}
}

package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/workspace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ws := workspace.New(index.DefaultConfig(), nil)
	ws.SetFileContent("a.sysml", []byte(`part def Engine; part def Car { part engine : Engine; }`))
	ws.ResolveAll()
	return NewServer(ws, nil, nil)
}

func callToolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestHandleHover(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleHover(context.Background(), callToolRequest(map[string]any{
		"file": "a.sysml", "line": float64(0), "column": float64(10),
	}))
	require.NoError(t, err)

	var hover map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &hover))
	assert.Equal(t, "Engine", hover["QualifiedName"])
}

func TestHandleCheckFile(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleCheckFile(context.Background(), callToolRequest(map[string]any{"file": "a.sysml"}))
	require.NoError(t, err)
	assert.Equal(t, "null", resultText(t, result))
}

func TestHandleExportImportModel_RoundTrip(t *testing.T) {
	s := newTestServer(t)

	exported, err := s.handleExportModel(context.Background(), callToolRequest(map[string]any{"format": "jsonld"}))
	require.NoError(t, err)
	data := resultText(t, exported)
	assert.Contains(t, data, "@context")

	imported, err := s.handleImportModel(context.Background(), callToolRequest(map[string]any{
		"format": "jsonld", "data": data,
	}))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, imported)), &body))
	assert.Equal(t, float64(3), body["imported"])
}

func TestHandleSetFileContent(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleSetFileContent(context.Background(), callToolRequest(map[string]any{
		"file": "b.sysml", "content": "part def Truck;",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "parse_errors")

	_, ok := s.ws.Index().LookupQualified("Truck")
	assert.True(t, ok)
}

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kermlsem/kermlsem/pkg/interchange"
	"github.com/kermlsem/kermlsem/pkg/workspace"
)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleHover(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	line := int(req.GetFloat("line", 0))
	col := int(req.GetFloat("column", 0))

	hover := s.ws.Hover(file, line, col)
	if hover == nil {
		return mcp.NewToolResultText("null"), nil
	}
	return jsonResult(hover)
}

func (s *Server) handleGotoDefinition(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	line := int(req.GetFloat("line", 0))
	col := int(req.GetFloat("column", 0))
	return jsonResult(s.ws.GotoDefinition(file, line, col))
}

func (s *Server) handleGotoTypeDefinition(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	line := int(req.GetFloat("line", 0))
	col := int(req.GetFloat("column", 0))
	return jsonResult(s.ws.GotoTypeDefinition(file, line, col))
}

func (s *Server) handleFindReferences(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	line := int(req.GetFloat("line", 0))
	col := int(req.GetFloat("column", 0))
	includeDecl := req.GetBool("include_declaration", true)
	return jsonResult(s.ws.FindReferences(file, line, col, includeDecl))
}

func (s *Server) handleCompletions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	line := int(req.GetFloat("line", 0))
	col := int(req.GetFloat("column", 0))
	return jsonResult(s.ws.Completions(file, line, col))
}

func (s *Server) handleCheckFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	return jsonResult(s.ws.CheckFile(file))
}

func (s *Server) handleSetFileContent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	content := req.GetString("content", "")
	parseErrs := s.ws.SetFileContent(file, []byte(content))
	s.ws.ResolveAll()
	return jsonResult(map[string]any{"parse_errors": parseErrs})
}

func (s *Server) handleScanDirectory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	stats, err := s.ws.ScanDirectory(path, workspace.DefaultScanOptions(), nil)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: scan %s: %w", path, err)
	}
	s.ws.ResolveAll()
	return jsonResult(stats)
}

func (s *Server) handleExportModel(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "jsonld")
	model := interchange.ModelFromSymbols(s.ws.Index().AllSymbols())

	var (
		data []byte
		err  error
	)
	switch format {
	case "xmi":
		data, err = interchange.MarshalXMI(model)
	case "yaml":
		data, err = interchange.MarshalYAML(model)
	case "jsonld":
		data, err = interchange.MarshalJSONLD(model)
	default:
		return nil, fmt.Errorf("mcpserver: unknown export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("mcpserver: export model: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleImportModel(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "jsonld")
	data := req.GetString("data", "")

	var (
		model interchange.Model
		err   error
	)
	switch format {
	case "xmi":
		model, err = interchange.UnmarshalXMI([]byte(data))
	case "yaml":
		model, err = interchange.UnmarshalYAML([]byte(data))
	case "jsonld":
		model, err = interchange.UnmarshalJSONLD([]byte(data))
	default:
		return nil, fmt.Errorf("mcpserver: unknown import format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("mcpserver: import model: %w", err)
	}

	symbols := interchange.SymbolsFromModel(model)
	return jsonResult(map[string]any{"imported": len(symbols)})
}

// Package mcpserver exposes workspace and IDE operations as MCP tools: a
// thin Server wrapping a *workspace.Workspace, mcp-go's server.ServerTool
// registration list, and an optional JSONL call logger wired in as
// middleware.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/kermlsem/kermlsem/pkg/workspace"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for kermlsem, exposing workspace
// indexing, IDE queries, and model interchange as tools.
type Server struct {
	mcpServer *server.MCPServer
	ws        *workspace.Workspace
	logger    *CallLogger // may be nil if call logging is disabled
	log       *slog.Logger
}

// NewServer creates a new MCP server backed by ws. Pass nil for callLog to
// disable per-call JSONL logging.
func NewServer(ws *workspace.Workspace, callLog *CallLogger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{ws: ws, logger: callLog, log: log}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("kermlsem", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: hoverTool(), Handler: s.handleHover},
		server.ServerTool{Tool: gotoDefinitionTool(), Handler: s.handleGotoDefinition},
		server.ServerTool{Tool: gotoTypeDefinitionTool(), Handler: s.handleGotoTypeDefinition},
		server.ServerTool{Tool: findReferencesTool(), Handler: s.handleFindReferences},
		server.ServerTool{Tool: completionsTool(), Handler: s.handleCompletions},
		server.ServerTool{Tool: checkFileTool(), Handler: s.handleCheckFile},
		server.ServerTool{Tool: setFileContentTool(), Handler: s.handleSetFileContent},
		server.ServerTool{Tool: scanDirectoryTool(), Handler: s.handleScanDirectory},
		server.ServerTool{Tool: exportModelTool(), Handler: s.handleExportModel},
		server.ServerTool{Tool: importModelTool(), Handler: s.handleImportModel},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the call logger if one is active. Should be deferred
// after NewServer.
func (s *Server) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}

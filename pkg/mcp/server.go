// Package mcp exposes the pre-flight checks over the Model Context
// Protocol, so a packaging daemon or coding agent can query the gate
// without shelling out to the CLI.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/packlint/packlint/pkg/policy"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server, exposing the batch check and the
// extension classifier as tools.
type Server struct {
	mcpServer *server.MCPServer
	checker   *policy.Checker
}

// NewServer creates an MCP server backed by the given Checker.
func NewServer(checker *policy.Checker) *Server {
	s := &Server{checker: checker}

	s.mcpServer = server.NewMCPServer(
		"packlint",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: checkBatchTool(), Handler: s.handleCheckBatch},
		server.ServerTool{Tool: classifyExtensionsTool(), Handler: s.handleClassifyExtensions},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

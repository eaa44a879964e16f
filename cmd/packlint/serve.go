package main

import (
	"fmt"
	"os"

	"github.com/packlint/packlint/pkg/classify"
	mcpserver "github.com/packlint/packlint/pkg/mcp"
	"github.com/packlint/packlint/pkg/parser"
	"github.com/packlint/packlint/pkg/policy"
	"github.com/packlint/packlint/pkg/util"
)

// runServe starts the MCP server on stdio. Stdout belongs to the MCP
// transport, so the logger is forced to stderr.
func runServe(args []string) int {
	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.LevelWarn,
		Format: util.FormatText,
		Output: os.Stderr,
	})

	manager := parser.NewManager(logger)
	defer manager.Close()

	// MCP batches arrive as inline source text; no type-check engine.
	checker := policy.NewChecker(classify.NewAnalyzer(manager, logger), nil, logger)

	srv := mcpserver.NewServer(checker)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}

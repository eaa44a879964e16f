package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/packlint/packlint/pkg/classify"
	"github.com/packlint/packlint/pkg/policy"
)

// checkBatchResponse is the JSON payload for check_batch.
type checkBatchResponse struct {
	Report     *policy.Report     `json:"report"`
	Violations []policy.Violation `json:"violations"`
}

func (s *Server) handleCheckBatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	units, err := unitsFromArgs(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// MCP callers supply source text inline, so the type-check
	// pass-through (which needs real files) is always skipped here.
	report, violations, err := s.checker.Check(ctx, units, policy.Config{
		Mode:    policy.Lenient,
		NoCheck: true,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if violations == nil {
		violations = []policy.Violation{}
	}

	payload, err := json.Marshal(checkBatchResponse{Report: report, Violations: violations})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleClassifyExtensions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	raw, ok := args["paths"].([]any)
	if !ok {
		return mcp.NewToolResultError("paths is required and must be an array of strings"), nil
	}

	units := make([]classify.SourceUnit, 0, len(raw))
	for i, item := range raw {
		path, ok := item.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("paths[%d] is not a string", i)), nil
		}
		units = append(units, classify.SourceUnit{Path: path})
	}

	summary := classify.ClassifyExtensions(units)
	payload, err := json.Marshal(summary)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// unitsFromArgs decodes the files argument of check_batch.
func unitsFromArgs(args map[string]any) ([]classify.SourceUnit, error) {
	raw, ok := args["files"].([]any)
	if !ok {
		return nil, fmt.Errorf("files is required and must be an array of {path, source} objects")
	}

	units := make([]classify.SourceUnit, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("files[%d] is not an object", i)
		}
		path, ok := obj["path"].(string)
		if !ok || path == "" {
			return nil, fmt.Errorf("files[%d].path is required", i)
		}
		source, _ := obj["source"].(string)
		units = append(units, classify.SourceUnit{Path: path, Source: []byte(source)})
	}
	return units, nil
}

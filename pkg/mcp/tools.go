package mcp

import "github.com/mark3labs/mcp-go/mcp"

func checkBatchTool() mcp.Tool {
	return mcp.NewTool("check_batch",
		mcp.WithDescription("Classify a batch of JS/TS files by extension and module format. "+
			"Returns the lenient report (extension flags, cjsCount, unknownCount) plus any violations "+
			"a pure-ESM packaging run would fail on. Type-checking is not performed by this tool."),
		mcp.WithArray("files",
			mcp.Required(),
			mcp.Description("Array of {path, source} objects. path is used for its suffix and in diagnostics; source is the full file text."),
		),
	)
}

func classifyExtensionsTool() mcp.Tool {
	return mcp.NewTool("classify_extensions",
		mcp.WithDescription("Classify a batch of file paths into dialect buckets from their suffixes only. "+
			"Returns the homogeneity flags isNone/isCjs/isJsx/isJs/isTs/isBoth."),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Array of file path strings."),
		),
	)
}

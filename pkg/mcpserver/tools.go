package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

func hoverTool() mcp.Tool {
	return mcp.NewTool("hover",
		mcp.WithDescription("Hover information (signature, doc, supertypes) for the symbol or type reference at a cursor position"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Workspace-relative file path")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Zero-based line number")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("Zero-based column number")),
	)
}

func gotoDefinitionTool() mcp.Tool {
	return mcp.NewTool("goto_definition",
		mcp.WithDescription("Definition sites for the symbol or type reference at a cursor position"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Workspace-relative file path")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Zero-based line number")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("Zero-based column number")),
	)
}

func gotoTypeDefinitionTool() mcp.Tool {
	return mcp.NewTool("goto_type_definition",
		mcp.WithDescription("Definition of the type of the symbol at a cursor position, always navigating to the type rather than the usage"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Workspace-relative file path")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Zero-based line number")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("Zero-based column number")),
	)
}

func findReferencesTool() mcp.Tool {
	return mcp.NewTool("find_references",
		mcp.WithDescription("Every reference to the symbol at a cursor position, across the whole workspace"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Workspace-relative file path")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Zero-based line number")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("Zero-based column number")),
		mcp.WithBoolean("include_declaration", mcp.Description("Include the declaration site itself (default true)")),
	)
}

func completionsTool() mcp.Tool {
	return mcp.NewTool("completions",
		mcp.WithDescription("Completion candidates at a cursor position"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Workspace-relative file path")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Zero-based line number")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("Zero-based column number")),
	)
}

func checkFileTool() mcp.Tool {
	return mcp.NewTool("check_file",
		mcp.WithDescription("Semantic diagnostics (unresolved or ambiguous references, duplicate names, unused imports and aliases, names shadowing imports) for one file"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Workspace-relative file path")),
	)
}

func setFileContentTool() mcp.Tool {
	return mcp.NewTool("set_file_content",
		mcp.WithDescription("Replace a file's content in the workspace and re-resolve the index"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Workspace-relative file path")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full new file content")),
	)
}

func scanDirectoryTool() mcp.Tool {
	return mcp.NewTool("scan_directory",
		mcp.WithDescription("Recursively scan a directory into the workspace, parsing and extracting every matching source file"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to scan")),
	)
}

func exportModelTool() mcp.Tool {
	return mcp.NewTool("export_model",
		mcp.WithDescription("Export the current workspace's symbol set as an interchange Model in the given format"),
		mcp.WithString("format", mcp.Required(), mcp.Description("One of: xmi, jsonld, yaml")),
	)
}

func importModelTool() mcp.Tool {
	return mcp.NewTool("import_model",
		mcp.WithDescription("Import an interchange Model previously exported by export_model, reusing the ElementIds it carries"),
		mcp.WithString("format", mcp.Required(), mcp.Description("One of: xmi, jsonld, yaml")),
		mcp.WithString("data", mcp.Required(), mcp.Description("The serialized model")),
	)
}

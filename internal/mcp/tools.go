package mcp

import (
	"context"

	"gcf/internal/envelope"
)

// Tool represents a class finder tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler handles a tool call and returns an envelope response.
type ToolHandler func(ctx context.Context, params map[string]interface{}) (*envelope.Response, error)

// GetToolDefinitions returns all tool definitions
func (s *MCPServer) GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "find_class",
			Description: "Find where a fully-qualified JVM class comes from in a Gradle module: local sources, resolved dependencies, or flat-directory jars. Results are ordered local, dependency, flatdir.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspace_dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the Gradle project root",
					},
					"class_name": map[string]interface{}{
						"type":        "string",
						"description": "Fully-qualified class name, e.g. com.example.Widget",
					},
					"submodule_path": map[string]interface{}{
						"type":        "string",
						"description": "Submodule directory relative to the root (e.g. app). Omit for the root module.",
					},
				},
				"required": []string{"workspace_dir", "class_name"},
			},
		},
		{
			Name:        "get_source_code",
			Description: "Return the source of a class from a .java/.kt file or a jar. Jars are read from an embedded source entry or decompiled. Optional 1-based inclusive line bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"jar_path": map[string]interface{}{
						"type":        "string",
						"description": "Location returned by find_class: a jar, sources jar, or source file",
					},
					"class_name": map[string]interface{}{
						"type":        "string",
						"description": "Fully-qualified class name",
					},
					"line_start": map[string]interface{}{
						"type":        "integer",
						"description": "First line to return (1-based, inclusive)",
					},
					"line_end": map[string]interface{}{
						"type":        "integer",
						"description": "Last line to return (1-based, inclusive)",
					},
				},
				"required": []string{"jar_path", "class_name"},
			},
		},
		{
			Name:        "get_source_metadata",
			Description: "Summarize a class's source without returning it: line and byte counts, language, declared types and methods with line ranges, signatures, and cyclomatic complexity.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"jar_path": map[string]interface{}{
						"type":        "string",
						"description": "Location returned by find_class: a jar, sources jar, or source file",
					},
					"class_name": map[string]interface{}{
						"type":        "string",
						"description": "Fully-qualified class name",
					},
				},
				"required": []string{"jar_path", "class_name"},
			},
		},
	}
}

// RegisterTools registers all tool handlers
func (s *MCPServer) RegisterTools() {
	s.tools["find_class"] = s.toolFindClass
	s.tools["get_source_code"] = s.toolGetSourceCode
	s.tools["get_source_metadata"] = s.toolGetSourceMetadata

	s.logger.Debug("Registered tools", "count", len(s.tools))
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gcf/internal/envelope"
	"gcf/internal/errors"
)

// handleMessage processes an incoming MCP message and returns a response
func (s *MCPServer) handleMessage(ctx context.Context, msg *MCPMessage) *MCPMessage {
	if msg.IsRequest() {
		return s.handleRequest(ctx, msg)
	}

	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}

	// Responses to server-initiated requests are not expected.
	if msg.IsResponse() {
		s.logger.Debug("Ignoring client response", "id", msg.Id)
		return nil
	}

	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *MCPServer) handleRequest(ctx context.Context, msg *MCPMessage) *MCPMessage {
	s.logger.Debug("Handling request",
		"method", msg.Method,
		"id", msg.Id,
	)

	switch msg.Method {
	case "initialize":
		params, _ := msg.Params.(map[string]interface{})
		return NewResultMessage(msg.Id, s.handleInitialize(params))
	case "ping":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{
			"tools": s.GetToolDefinitions(),
		})
	case "tools/call":
		return s.handleCallToolRequest(ctx, msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}
}

// handleNotification handles a JSON-RPC notification
func (s *MCPServer) handleNotification(msg *MCPMessage) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("Client initialized")
	case "notifications/cancelled":
		s.logger.Debug("Client cancelled a request", "params", msg.Params)
	default:
		s.logger.Debug("Unknown notification",
			"method", msg.Method,
		)
	}
}

// handleCallToolRequest handles the tools/call request
func (s *MCPServer) handleCallToolRequest(ctx context.Context, msg *MCPMessage) *MCPMessage {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}

	toolName, ok := params["name"].(string)
	if !ok || toolName == "" {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: missing tool name", nil)
	}
	handler, exists := s.tools[toolName]
	if !exists {
		return NewErrorMessage(msg.Id, InvalidParams, fmt.Sprintf("Unknown tool: %s", toolName), nil)
	}

	args, ok := params["arguments"].(map[string]interface{})
	if !ok {
		args = make(map[string]interface{})
	}

	return NewResultMessage(msg.Id, s.callTool(ctx, toolName, handler, args))
}

// callTool runs handler under the request timeout and wraps the outcome in an
// envelope. Failures become isError results.
func (s *MCPServer) callTool(ctx context.Context, name string, handler ToolHandler, args map[string]interface{}) *ToolResult {
	s.logger.Info("Calling tool",
		"tool", name,
		"params", args,
	)

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := handler(ctx, args)
	if err == nil && ctx.Err() == context.DeadlineExceeded {
		err = errors.New(errors.InternalError, fmt.Sprintf("%s timed out after %s", name, s.opts.RequestTimeout), ctx.Err())
	}
	if err != nil {
		s.logger.Warn("Tool failed",
			"tool", name,
			"code", string(errors.CodeOf(err)),
			"error", err.Error(),
		)
		resp = envelope.New().Data(nil).Error(err).Duration(time.Since(start)).Build()
		return &ToolResult{Content: []Content{{Type: "text", Text: marshalEnvelope(resp)}}, IsError: true}
	}

	if resp.Meta == nil {
		resp.Meta = &envelope.Meta{}
	}
	resp.Meta.DurationMs = time.Since(start).Milliseconds()
	s.logger.Debug("Tool finished", "tool", name, "duration", time.Since(start))
	return &ToolResult{Content: []Content{{Type: "text", Text: marshalEnvelope(resp)}}}
}

func marshalEnvelope(resp *envelope.Response) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"schemaVersion":%q,"data":null,"error":{"code":%q,"message":%q}}`,
			envelope.CurrentSchemaVersion, errors.InternalError, err.Error())
	}
	return string(data)
}

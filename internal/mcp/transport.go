package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize is the maximum size for a single MCP message (1MB).
const MaxMessageSize = 1024 * 1024

// errParse wraps a line that was read but is not valid JSON-RPC.
type errParse struct{ err error }

func (e *errParse) Error() string { return fmt.Sprintf("error parsing JSON-RPC message: %v", e.err) }
func (e *errParse) Unwrap() error { return e.err }

// readMessage reads one newline-delimited JSON-RPC message from stdin.
// Blank lines are skipped.
func (s *MCPServer) readMessage() (*MCPMessage, error) {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.stdin)
		s.scanner.Buffer(make([]byte, 64*1024), MaxMessageSize)
	}

	for {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("error reading from stdin: %w", err)
			}
			return nil, io.EOF
		}
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.logger.Debug("Received message", "bytes", len(line))

		var msg MCPMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, &errParse{err: err}
		}
		return &msg, nil
	}
}

// writeMessage writes a JSON-RPC message to stdout
func (s *MCPServer) writeMessage(msg *MCPMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling JSON-RPC message: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := fmt.Fprintf(s.stdout, "%s\n", data); err != nil {
		return fmt.Errorf("error writing to stdout: %w", err)
	}
	return nil
}

// writeError writes an error response
func (s *MCPServer) writeError(id interface{}, code int, message string) error {
	return s.writeMessage(NewErrorMessage(id, code, message, nil))
}

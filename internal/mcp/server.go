package mcp

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"gcf/internal/finder"
	"gcf/internal/source"
)

// DefaultRequestTimeout bounds one tools/call when none is configured.
const DefaultRequestTimeout = 2 * time.Minute

// Options wires the server to the lookup and retrieval engines.
type Options struct {
	Finder    *finder.Engine
	Retriever *source.Retriever
	// Provider names the build model source in response provenance.
	Provider       string
	RequestTimeout time.Duration
}

// MCPServer serves the class finder tools over newline-delimited JSON-RPC.
type MCPServer struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	writeMu sync.Mutex
	logger  *slog.Logger
	version string
	tools   map[string]ToolHandler
	opts    Options
}

// NewMCPServer creates a server reading stdin and writing stdout.
func NewMCPServer(version string, opts Options, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	server := &MCPServer{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		logger:  logger,
		version: version,
		tools:   make(map[string]ToolHandler),
		opts:    opts,
	}
	server.RegisterTools()
	return server
}

// Start processes messages until stdin is exhausted or ctx is cancelled.
// Requests are handled one at a time, in arrival order.
func (s *MCPServer) Start(ctx context.Context) error {
	s.logger.Info("MCP server starting",
		"version", s.version,
		"tools", len(s.tools),
	)

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("MCP server shutting down", "reason", err.Error())
			return nil
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)")
				return nil
			}
			var perr *errParse
			if stderrors.As(err, &perr) {
				s.logger.Warn("Dropping malformed message", "error", err.Error())
				_ = s.writeError(nil, ParseError, fmt.Sprintf("Failed to parse message: %v", perr.err))
				continue
			}
			return err
		}

		response := s.handleMessage(ctx, msg)
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("Error writing response",
					"error", err.Error(),
				)
				return err
			}
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *MCPServer) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing)
func (s *MCPServer) SetStdout(w io.Writer) {
	s.stdout = w
}

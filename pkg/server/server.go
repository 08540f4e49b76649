// Package server exposes a set of tools over the Model Context Protocol.
//
// Tool calls are serialized: the browser session behind the tools is a
// single-writer resource, so at most one call runs at a time. Failures are
// reported to the client as tool results with IsError set, never as
// protocol errors.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/logging"
	"github.com/entrhq/mcp-web-browser/pkg/tools"
	browsertools "github.com/entrhq/mcp-web-browser/pkg/tools/browser"
)

const (
	// DefaultName is the implementation name announced to clients
	DefaultName = "Web Browser"

	// DefaultShutdownGrace bounds how long Shutdown waits for an in-flight call
	DefaultShutdownGrace = 5 * time.Second
)

// ErrShutdown is returned to tool calls that arrive after Shutdown.
var ErrShutdown = errors.New("server is shutting down")

// Options configures a Server.
type Options struct {
	Name    string
	Version string

	// Instructions are sent to clients during initialization
	Instructions string

	// ShutdownGrace overrides DefaultShutdownGrace
	ShutdownGrace time.Duration

	// Logger receives server and per-call diagnostics; nil discards them
	Logger *logging.Logger
}

// Server registers tools on an MCP server and owns the shutdown hook of the
// browser session they share.
type Server struct {
	mcp     *mcp.Server
	session *browser.Session
	tools   []tools.Tool
	logger  *logging.Logger
	grace   time.Duration

	// mu serializes tool calls
	mu           sync.Mutex
	closed       atomic.Bool
	shutdownOnce sync.Once
}

// New creates a server exposing toolset. session is closed by Shutdown.
func New(session *browser.Session, toolset []tools.Tool, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = DefaultShutdownGrace
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		}, &mcp.ServerOptions{
			Instructions: opts.Instructions,
		}),
		session: session,
		tools:   toolset,
		logger:  logger,
		grace:   opts.ShutdownGrace,
	}

	for _, tool := range toolset {
		s.mcp.AddTool(&mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Schema(),
		}, s.handler(tool))
	}
	logger.Debugf("Registered %d tools", len(toolset))

	return s
}

// Tools returns the registered tools in registration order.
func (s *Server) Tools() []tools.Tool {
	return s.tools
}

// Run serves a single client over stdin/stdout until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve serves a single client over transport until ctx is cancelled or the
// client disconnects.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	s.logger.Infof("Serving %d tools", len(s.tools))
	if err := s.mcp.Run(ctx, transport); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}

// Connect attaches the server to transport and returns without blocking.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, transport, nil)
}

func (s *Server) handler(tool tools.Tool) mcp.ToolHandler {
	name := tool.Name()
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed.Load() {
			return errorResult(ErrShutdown), nil
		}

		var peer *mcp.ServerSession
		var args []byte
		if req != nil {
			peer = req.Session
			if req.Params != nil {
				args = req.Params.Arguments
			}
		}

		sink := newCallSink(ctx, s.logger.With("tool", name), peer)
		start := time.Now()

		result, metadata, err := tool.Execute(browsertools.ContextWithSink(ctx, sink), args)
		if err != nil {
			s.logger.Warnf("Tool %s failed after %s: %v", name, time.Since(start).Round(time.Millisecond), err)
			return errorResult(err), nil
		}

		s.logger.Debugf("Tool %s completed in %s", name, time.Since(start).Round(time.Millisecond))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
			Meta:    mcp.Meta(metadata),
		}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

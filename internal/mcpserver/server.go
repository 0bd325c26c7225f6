// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Blinko note tools for LLM integration.
package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/blinko-mcp/internal/apperr"
	"github.com/starford/blinko-mcp/internal/blinko"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// NoteClient is the subset of the Blinko API the tools call.
type NoteClient interface {
	SearchNotes(ctx context.Context, q blinko.SearchQuery) ([]blinko.Note, error)
	DailyReviewNotes(ctx context.Context) ([]blinko.Note, error)
	ClearRecycleBin(ctx context.Context) (*blinko.Result, error)
	UpsertNote(ctx context.Context, content string, typ blinko.NoteType) (*blinko.Note, error)
	UpdateNote(ctx context.Context, id int64, u blinko.NoteUpdate) (*blinko.Result, error)
	DeleteNote(ctx context.Context, id int64) (*blinko.Result, error)
	ArchiveNote(ctx context.Context, id int64) (*blinko.Result, error)
	ShareNote(ctx context.Context, req blinko.ShareRequest) (*blinko.ShareResult, error)
}

// CredentialSource yields the credentials in effect for the next call.
type CredentialSource interface {
	Credentials() blinko.Credentials
}

// ClientFactory builds a client bound to creds.
type ClientFactory func(creds blinko.Credentials) (NoteClient, error)

// DefaultClientFactory builds a *blinko.Client with the default HTTP transport.
func DefaultClientFactory(creds blinko.Credentials) (NoteClient, error) {
	return blinko.New(creds.Domain, creds.APIKey)
}

// Option configures a Server.
type Option func(*Server)

// WithClientFactory overrides how per-call clients are built.
func WithClientFactory(f ClientFactory) Option {
	return func(s *Server) {
		s.newClient = f
	}
}

// WithLocation sets the zone used to render note timestamps.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		s.loc = loc
	}
}

// WithLogger sets the logger for tool call events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

type toolFunc func(ctx context.Context, c NoteClient, args map[string]any) (*mcp.CallToolResult, error)

// Server wraps the MCP server with Blinko tools.
type Server struct {
	mcp       *server.MCPServer
	creds     CredentialSource
	newClient ClientFactory
	loc       *time.Location
	logger    *slog.Logger

	tools   map[string]toolFunc
	catalog []mcp.Tool
}

// New creates a new MCP server with all Blinko tools registered.
func New(creds CredentialSource, opts ...Option) *Server {
	s := &Server{
		creds:     creds,
		newClient: DefaultClientFactory,
		loc:       time.Local,
		logger:    slog.Default(),
		tools:     make(map[string]toolFunc),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		"Blinko",
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	s.registerTools()

	s.mcp.AddResource(
		mcp.NewResource(GuideURI, "Blinko Tool Guide",
			mcp.WithResourceDescription("Note types and conventions for the Blinko tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Tools returns the tool catalog in registration order.
func (s *Server) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// ServeStdio serves MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler returns a streamable HTTP handler for the MCP endpoint.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// Call dispatches a tool invocation. Configuration is checked before the tool
// name is resolved, so a misconfigured server fails every call the same way.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	creds := s.creds.Credentials()
	if creds.Domain == "" {
		return nil, apperr.Configuration("", "blinko domain is not configured")
	}
	if creds.APIKey == "" {
		return nil, apperr.Configuration("", "blinko api key is not configured")
	}

	fn, ok := s.tools[name]
	if !ok {
		return nil, apperr.UnknownTool(name)
	}

	client, err := s.newClient(creds)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return fn(ctx, client, args)
}

func (s *Server) register(tool mcp.Tool, fn toolFunc) {
	s.tools[tool.Name] = fn
	s.catalog = append(s.catalog, tool)
	s.mcp.AddTool(tool, s.handle(tool.Name))
}

// handle adapts Call to mcp-go, reporting failures as error results.
func (s *Server) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := s.logger.With(slog.String("tool", name), slog.String("call_id", uuid.NewString()))
		start := time.Now()

		res, err := s.Call(ctx, name, req.GetArguments())
		if err != nil {
			logger.Warn("tool call failed",
				slog.String("kind", apperr.KindOf(err).String()),
				slog.String("error", err.Error()),
				slog.Duration("duration", time.Since(start)))
			return mcp.NewToolResultError(err.Error()), nil
		}

		logger.Info("tool call completed", slog.Duration("duration", time.Since(start)))
		return res, nil
	}
}

func (s *Server) readGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GuideURI,
			MIMEType: "text/markdown",
			Text:     UsageGuide,
		},
	}, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stackcalc"
	"github.com/aretw0/stackcalc/internal/logging"
	"github.com/aretw0/stackcalc/pkg/registry"
	"github.com/aretw0/stackcalc/pkg/runner"
	"github.com/aretw0/stackcalc/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const commandsURI = "stackcalc://commands"

// StackResponse is the structured result of every session tool.
type StackResponse struct {
	SessionID string    `json:"session_id" jsonschema_description:"The session the line was entered into"`
	Stack     []float64 `json:"stack" jsonschema_description:"Operand stack, bottom first"`
	Messages  []string  `json:"messages" jsonschema_description:"Diagnostics and help produced by the line"`
}

// EnterArgs are the arguments of the enter tool.
type EnterArgs struct {
	SessionID string `json:"session_id"`
	Line      string `json:"line"`
}

// SessionArgs identifies a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// Server exposes calculator sessions as MCP tools.
type Server struct {
	sessions  *session.Manager
	commands  *registry.Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, commands *registry.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		commands:  commands,
		logger:    logger,
		mcpServer: server.NewMCPServer("stackcalc-mcp", strings.TrimSpace(stackcalc.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP endpoints over SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("new_session",
		mcp.WithDescription("Start a new calculator session with an empty stack."),
		mcp.WithOutputSchema[StackResponse](),
	), mcp.NewStructuredToolHandler(s.handleNewSession))

	s.mcpServer.AddTool(mcp.NewTool("enter",
		mcp.WithDescription("Enter one line into a session: a number, a command name, undo, redo, help or proc:<file>."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by new_session")),
		mcp.WithString("line", mcp.Required(), mcp.Description("The input line")),
		mcp.WithOutputSchema[StackResponse](),
	), mcp.NewStructuredToolHandler(s.handleEnter))

	s.mcpServer.AddTool(mcp.NewTool("stack",
		mcp.WithDescription("Show the stack of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[StackResponse](),
	), mcp.NewStructuredToolHandler(s.handleStack))

	s.mcpServer.AddTool(mcp.NewTool("commands",
		mcp.WithDescription("List the available commands with their help text."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.commands.Describe())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleNewSession(ctx context.Context, request mcp.CallToolRequest, args struct{}) (StackResponse, error) {
	id := uuid.NewString()
	stack, err := s.sessions.LoadOrStart(ctx, id)
	if err != nil {
		return StackResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return StackResponse{SessionID: id, Stack: stack, Messages: []string{}}, nil
}

func (s *Server) handleEnter(ctx context.Context, request mcp.CallToolRequest, args EnterArgs) (StackResponse, error) {
	if args.SessionID == "" {
		return StackResponse{}, errors.New("session_id is required")
	}

	line, err := runner.SanitizeInput(args.Line)
	if err != nil {
		s.logger.Warn("MCP enter: Input rejected", "err", err, "size", len(args.Line))
		return StackResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	res, err := s.sessions.Enter(ctx, args.SessionID, line)
	if err != nil {
		return StackResponse{}, fmt.Errorf("enter failed: %w", err)
	}
	return StackResponse{SessionID: args.SessionID, Stack: res.Stack, Messages: res.Messages}, nil
}

func (s *Server) handleStack(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (StackResponse, error) {
	stack, err := s.sessions.Stack(ctx, args.SessionID)
	if err != nil {
		return StackResponse{}, fmt.Errorf("stack failed: %w", err)
	}
	return StackResponse{SessionID: args.SessionID, Stack: stack, Messages: []string{}}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(commandsURI, "Available Commands",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.commands.Describe())
		if err != nil {
			return nil, fmt.Errorf("failed to describe commands: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      commandsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

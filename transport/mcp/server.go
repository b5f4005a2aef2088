package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wricardo/mars-rovers/game/rover"
	"github.com/wricardo/mars-rovers/game/service"
	"github.com/wricardo/mars-rovers/game/simulation"
	"github.com/wricardo/mars-rovers/render"
)

// Version reported to MCP clients
const Version = "1.0.0"

// Broadcaster receives session updates made through MCP tools
type Broadcaster interface {
	BroadcastReport(sessionID, event string, report *simulation.Report)
}

// Server wraps an MCP server bound to a simulation service
type Server struct {
	service   service.SimulationService
	hub       Broadcaster
	logger    *zap.SugaredLogger
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server with all rover tools registered. hub may be nil.
func NewServer(svc service.SimulationService, hub Broadcaster, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		service: svc,
		hub:     hub,
		logger:  logger,
	}

	s.mcpServer = server.NewMCPServer(
		"Mars Rovers",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rovers - MCP Interface

A rover starts at (0,0) facing North on a grid whose edges wrap around.
Commands: M moves one cell forward, L turns left, R turns right (case-sensitive).
If the next cell holds an obstacle the rover stops for good and reports O:x:y:H.
Status format is x:y:H, with H one of N, S, E, W.

AVAILABLE TOOLS:
- simulate: one-shot run on a fresh grid
- create_session / execute_commands / reset_session: drive a rover step by step
- get_session / list_sessions: inspect sessions
- list_configs: available grid configurations`),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Handle serves JSON-RPC MCP messages over HTTP POST
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := s.mcpServer.HandleMessage(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorw("failed to encode mcp response", "error", err)
	}
}

var (
	sessionIDProperty = map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
	commandsProperty = map[string]interface{}{
		"type":        "string",
		"description": "Command string made of M (move), L (turn left) and R (turn right), e.g. MMRMMLM",
	}
	configNameProperty = map[string]interface{}{
		"type":        "string",
		"description": "Name of the config to use (optional, defaults to the server default)",
	}
	obstaclesProperty = map[string]interface{}{
		"type":        "array",
		"description": "Extra obstacle cells placed before the random ones",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "integer"},
				"y": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x", "y"},
		},
	}
)

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "simulate",
		Description: "Run a command string against a fresh grid and return the final rover status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"commands":    commandsProperty,
				"config_name": configNameProperty,
				"obstacles":   obstaclesProperty,
			},
			Required: []string{"commands"},
		},
	}, s.handleSimulate)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new rover session with optional config selection and extra obstacles",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": configNameProperty,
				"obstacles":   obstaclesProperty,
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "execute_commands",
		Description: "Feed a batch of commands to a session's rover",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
				"commands":   commandsProperty,
			},
			Required: []string{"session_id", "commands"},
		},
	}, s.handleExecute)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_session",
		Description: "Put a session's rover back at (0,0) facing North on the same obstacles",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
			},
			Required: []string{"session_id"},
		},
	}, s.handleReset)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get the report and map of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
			},
			Required: []string{"session_id"},
		},
	}, s.handleGetSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active rover sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available grid configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)
}

// toolArgs is the union of all tool parameters
type toolArgs struct {
	SessionID  string           `json:"session_id"`
	Commands   string           `json:"commands"`
	ConfigName string           `json:"config_name"`
	Obstacles  []rover.Position `json:"obstacles"`
}

// decodeArgs maps the raw tool arguments onto toolArgs
func decodeArgs(request mcp.CallToolRequest) (toolArgs, error) {
	var args toolArgs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &args,
	})
	if err != nil {
		return args, err
	}
	if err := decoder.Decode(request.GetArguments()); err != nil {
		return args, errors.Wrap(err, "invalid arguments")
	}
	args.SessionID = strings.TrimSpace(args.SessionID)
	return args, nil
}

// Tool handlers

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.service.Simulate(ctx, args.ConfigName, args.Commands, args.Obstacles)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReport(report)), nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.service.CreateSession(ctx, args.ConfigName, args.Obstacles)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", info.ID, info.ConfigName, formatReport(info.Report))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.SessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	result, err := s.service.Execute(ctx, args.SessionID, args.Commands)
	if result != nil {
		s.broadcast(result.SessionID, "report", result.Report)
	}
	if err != nil {
		msg := err.Error()
		if result != nil {
			msg = fmt.Sprintf("%s\n\n%s", result.Message, formatReport(result.Report))
		}
		return mcp.NewToolResultError(msg), nil
	}

	return mcp.NewToolResultText(formatExecuteResult(result)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.service.Reset(ctx, args.SessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.broadcast(info.ID, "reset", info.Report)

	return mcp.NewToolResultText(fmt.Sprintf("Session %s reset\n\n%s", info.ID, formatReport(info.Report))), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.service.GetSession(ctx, args.SessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.service.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, info := range sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Status: %s, Created: %s)\n",
			info.ID, info.ConfigName, info.Report.Status, info.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.service.ListConfigs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Configurations (%d):\n\n", len(configs))
	for _, c := range configs {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %d obstacles)\n", c.ConfigID, c.Name, c.Width, c.Height, c.ObstacleCount)
		if c.Description != "" {
			fmt.Fprintf(&b, "  %s\n", c.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) broadcast(sessionID, event string, report *simulation.Report) {
	if s.hub == nil || report == nil {
		return
	}
	s.hub.BroadcastReport(sessionID, event, report)
}

// Formatting helpers

func formatReport(report *simulation.Report) string {
	if report == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", report.Status)
	if report.Halted && report.BlockedAt != nil {
		fmt.Fprintf(&b, "Halted: obstacle at %s\n", report.BlockedAt)
	}
	fmt.Fprintf(&b, "Executed: %d of %d commands\n\n", report.Executed, report.Requested)
	b.WriteString(render.ASCII(report))
	b.WriteByte('\n')
	return b.String()
}

func formatExecuteResult(result *service.ExecuteResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", result.Message)
	fmt.Fprintf(&b, "Executed %d commands in this batch:\n", result.Executed)
	for _, step := range result.Steps {
		fmt.Fprintf(&b, "  %d. %s %s -> %s facing %s (%s)", step.Idx, step.Command, step.From, step.To, step.Heading, step.Kind)
		if step.Wrapped {
			b.WriteString(" wrapped")
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(formatReport(result.Report))
	return b.String()
}

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		info.ID, info.ConfigName, info.CreatedAt.Format("2006-01-02 15:04:05"), formatReport(info.Report))
}

// Package mcp exposes a clickflow project to MCP clients: listing flows, compiling plans and
// computing preview crop plans.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/clickflow"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/emit"
	"github.com/aretw0/clickflow/pkg/geometry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DocumentURI is the resource holding the parsed document.
const DocumentURI = "clickflow://document"

// Project defines what the MCP server needs from a clickflow project.
type Project interface {
	Document() *domain.Document
	DryRun(id string) (*domain.Flow, error)
	Compile(ctx context.Context, flowIDs []string, opts clickflow.CompileOptions) (*domain.Plan, error)
}

// FlowSummary is one entry of list_flows.
type FlowSummary struct {
	ID          string `json:"id" jsonschema_description:"Flow id"`
	Title       string `json:"title" jsonschema_description:"Display title"`
	Steps       int    `json:"steps" jsonschema_description:"Number of recorded steps"`
	HasAnchor   bool   `json:"has_anchor" jsonschema_description:"Whether the flow can be compiled"`
	ShowDesktop bool   `json:"show_desktop" jsonschema_description:"Whether the desktop is revealed first"`
}

// ListFlowsResponse is the structured output of list_flows.
type ListFlowsResponse struct {
	Flows []FlowSummary `json:"flows" jsonschema_description:"Flows in document order"`
}

// Server wraps a Project and exposes it as an MCP Server.
type Server struct {
	project   Project
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(project Project, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		project:   project,
		logger:    logger,
		mcpServer: server.NewMCPServer("clickflow-mcp", strings.TrimSpace(clickflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
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

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_flows
	s.mcpServer.AddTool(mcp.NewTool("list_flows",
		mcp.WithDescription("List the flows of the project with their step counts."),
		mcp.WithOutputSchema[ListFlowsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListFlows))

	// TOOL: get_flow
	s.mcpServer.AddTool(mcp.NewTool("get_flow",
		mcp.WithDescription("Show the parsed steps of one flow without compiling it."),
		mcp.WithString("flow_id", mcp.Required(), mcp.Description("Flow id")),
	), s.handleGetFlow)

	// TOOL: compile_flows
	s.mcpServer.AddTool(mcp.NewTool("compile_flows",
		mcp.WithDescription("Compile flows, in the given order, into an executable plan."),
		mcp.WithString("flow_ids", mcp.Required(), mcp.Description("Comma-separated flow ids, in execution order")),
		mcp.WithString("format", mcp.Description("Output format: json (default), yaml or pyautogui")),
		mcp.WithBoolean("use_confidence", mcp.Description("Keep the document's confidence threshold (default true)")),
	), s.handleCompileFlows)

	// TOOL: preview_plan
	s.mcpServer.AddTool(mcp.NewTool("preview_plan",
		mcp.WithDescription("Compute the crop and padding of a square preview centred on a click."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Click x in screen pixels")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Click y in screen pixels")),
		mcp.WithNumber("bound_w", mcp.Required(), mcp.Description("Screen width")),
		mcp.WithNumber("bound_h", mcp.Required(), mcp.Description("Screen height")),
		mcp.WithNumber("size", mcp.Description("Preview size (default 120)")),
		mcp.WithNumber("dx", mcp.Description("Horizontal calibration offset")),
		mcp.WithNumber("dy", mcp.Description("Vertical calibration offset")),
		mcp.WithOutputSchema[geometry.CropPlan](),
	), mcp.NewStructuredToolHandler(s.handlePreviewPlan))
}

func (s *Server) handleListFlows(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListFlowsResponse, error) {
	doc := s.project.Document()
	resp := ListFlowsResponse{Flows: make([]FlowSummary, 0, len(doc.Flows))}
	for _, f := range doc.Flows {
		resp.Flows = append(resp.Flows, FlowSummary{
			ID:          f.ID,
			Title:       f.Title,
			Steps:       len(f.Steps),
			HasAnchor:   f.Anchor != nil,
			ShowDesktop: f.ShowDesktop,
		})
	}
	return resp, nil
}

func (s *Server) handleGetFlow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := request.GetArguments()["flow_id"].(string)
	flow, err := s.project.DryRun(id)
	if err != nil {
		return toolError(err), nil
	}
	jsonBytes, _ := json.MarshalIndent(flow, "", "  ")
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCompileFlows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw, _ := args["flow_ids"].(string)
	ids := splitIDs(raw)

	format := emit.FormatJSON
	if f, ok := args["format"].(string); ok && f != "" {
		parsed, err := emit.ParseFormat(f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		format = parsed
	}

	opts := clickflow.CompileOptions{UseConfidence: true}
	if v, ok := args["use_confidence"].(bool); ok {
		opts.UseConfidence = v
	}

	plan, err := s.project.Compile(ctx, ids, opts)
	if err != nil {
		return toolError(err), nil
	}

	var out strings.Builder
	if err := emit.Write(&out, format, plan); err != nil {
		return nil, fmt.Errorf("emit failed: %w", err)
	}
	s.logger.Debug("MCP compile", "flows", ids, "format", format, "actions", plan.ActionCount())
	return mcp.NewToolResultText(out.String()), nil
}

func (s *Server) handlePreviewPlan(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (geometry.CropPlan, error) {
	size := intArg(args, "size", domain.DefaultPreviewSize)
	return geometry.Plan(
		intArg(args, "x", 0),
		intArg(args, "y", 0),
		intArg(args, "bound_w", 0),
		intArg(args, "bound_h", 0),
		size,
		intArg(args, "dx", 0),
		intArg(args, "dy", 0),
	)
}

func (s *Server) registerResources() {
	// EXPOSE: clickflow://document
	s.mcpServer.AddResource(mcp.NewResource(DocumentURI, "Parsed flow document",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.project.Document())
		if err != nil {
			return nil, fmt.Errorf("failed to encode document: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      DocumentURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// toolError reports document defects with their kind and path so the client can fix the file.
func toolError(err error) *mcp.CallToolResult {
	if se, ok := domain.AsSpecError(err); ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s at %s: %v", se.Kind, se.Path, err))
	}
	return mcp.NewToolResultError(err.Error())
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

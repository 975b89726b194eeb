package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/aretw0/clickflow"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/dsl"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := dsl.New("demo").Confidence(0.8)
	b.Flow("login").Title("Log in").Anchor("anchors/login.png", 5, 7).Click(3, -2).Type("alice")
	b.Flow("save").ShowDesktop().Anchor("anchors/save.png", 0, 0).Hotkey([]string{"ctrl", "s"})
	b.Flow("draft").Wait(1)
	src, err := b.Build()
	require.NoError(t, err)

	project, err := clickflow.Open(context.Background(), "", clickflow.WithSource(src))
	require.NoError(t, err)
	return NewServer(project, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content)
	tc, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", r.Content[0])
	return tc.Text
}

func TestListFlows(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.handleListFlows(context.Background(), callRequest(nil), nil)
	require.NoError(t, err)

	assert.Equal(t, []FlowSummary{
		{ID: "login", Title: "Log in", Steps: 2, HasAnchor: true},
		{ID: "save", Title: "save", Steps: 1, HasAnchor: true, ShowDesktop: true},
		{ID: "draft", Title: "draft", Steps: 1},
	}, resp.Flows)
}

func TestGetFlow(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleGetFlow(context.Background(), callRequest(map[string]any{"flow_id": "draft"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	var flow domain.Flow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &flow))
	assert.Equal(t, "draft", flow.ID)

	res, err = s.handleGetFlow(context.Background(), callRequest(map[string]any{"flow_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "flow_not_found at flow[nope]")
}

func TestCompileFlows(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleCompileFlows(ctx, callRequest(map[string]any{"flow_ids": "save, login"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var plan domain.Plan
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &plan))
	assert.Equal(t, []string{"save", "login"}, plan.FlowIDs())
	require.NotNil(t, plan.Confidence)
	assert.Equal(t, domain.ActionRevealDesktop, plan.Flows[0].Actions[0].Kind)

	res, err = s.handleCompileFlows(ctx, callRequest(map[string]any{
		"flow_ids":       "login",
		"format":         "pyautogui",
		"use_confidence": false,
	}))
	require.NoError(t, err)
	script := resultText(t, res)
	assert.Contains(t, script, "import pyautogui")
	assert.Contains(t, script, "CONFIDENCE = None")
}

func TestCompileFlows_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing anchor", map[string]any{"flow_ids": "draft"}, "missing_anchor at flow[draft].anchor"},
		{"unknown flow", map[string]any{"flow_ids": "login,nope"}, "flow_not_found at flow[nope]"},
		{"no ids", map[string]any{"flow_ids": " , "}, "invalid_argument at flow_ids"},
		{"bad format", map[string]any{"flow_ids": "login", "format": "xml"}, "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleCompileFlows(ctx, callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestPreviewPlan(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	plan, err := s.handlePreviewPlan(ctx, callRequest(nil), map[string]interface{}{
		"x": 999.0, "y": 799.0, "bound_w": 1000.0, "bound_h": 800.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, plan.Size)
	assert.Positive(t, plan.PadRight)
	assert.Positive(t, plan.PadBottom)
	assert.Equal(t, 1000, plan.Right)
	assert.Equal(t, 800, plan.Bottom)

	_, err = s.handlePreviewPlan(ctx, callRequest(nil), map[string]interface{}{"x": 1.0, "y": 1.0})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitIDs(" a,,b "))
	assert.Nil(t, splitIDs(""))
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{"f": 3.0, "i": 4, "n": json.Number("5"), "s": "6"}
	assert.Equal(t, 3, intArg(args, "f", 0))
	assert.Equal(t, 4, intArg(args, "i", 0))
	assert.Equal(t, 5, intArg(args, "n", 0))
	assert.Equal(t, 9, intArg(args, "s", 9))
	assert.Equal(t, 7, intArg(args, "missing", 7))
}

// Package http serves the compiler over HTTP: flow listing, plan compilation and storage,
// preview crop plans and Prometheus metrics.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/clickflow"
	"github.com/aretw0/clickflow/internal/metrics"
	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/emit"
	"github.com/aretw0/clickflow/pkg/geometry"
	"github.com/aretw0/clickflow/pkg/ports"
	"github.com/aretw0/clickflow/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Project is the part of *clickflow.Project the server needs.
type Project interface {
	Document() *domain.Document
	DryRun(id string) (*domain.Flow, error)
	Compile(ctx context.Context, flowIDs []string, opts clickflow.CompileOptions) (*domain.Plan, error)
}

// Options carries the optional handler dependencies.
type Options struct {
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Version string
}

// Server holds the handler dependencies.
type Server struct {
	Project Project
	Store   ports.PlanStore
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Version string

	newID func() string
}

// Ensure *clickflow.Project satisfies Project.
var _ Project = (*clickflow.Project)(nil)

// NewHandler creates the HTTP handler. /metrics is only served when opts.Metrics is set.
func NewHandler(project Project, store ports.PlanStore, opts Options) http.Handler {
	s := &Server{
		Project: project,
		Store:   store,
		Metrics: opts.Metrics,
		Logger:  opts.Logger,
		Version: opts.Version,
		newID:   uuid.NewString,
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.Version == "" {
		s.Version = "dev"
	}
	return s.Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/info", s.Info)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Get("/flows", s.ListFlows)
	r.Get("/flows/{id}", s.GetFlow)

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", s.ListPlans)
		r.Post("/", s.CreatePlan)
		r.Get("/{id}", s.GetPlan)
		r.Delete("/{id}", s.DeletePlan)
		r.Post("/{id}/trace", s.TracePlan)
	})

	r.Post("/preview", s.Preview)
	return r
}

// FlowSummary is one entry of GET /flows.
type FlowSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Steps       int    `json:"steps"`
	HasAnchor   bool   `json:"has_anchor"`
	ShowDesktop bool   `json:"show_desktop"`
}

// CompileRequest is the body of POST /plans.
type CompileRequest struct {
	FlowIDs       []string `json:"flow_ids"`
	UseConfidence *bool    `json:"use_confidence,omitempty"`
}

// CompileResponse is returned by POST /plans.
type CompileResponse struct {
	ID   string       `json:"id"`
	Plan *domain.Plan `json:"plan"`
}

// PreviewRequest is the body of POST /preview.
type PreviewRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	BoundW int `json:"bound_w"`
	BoundH int `json:"bound_h"`
	Size   int `json:"size,omitempty"`
	DX     int `json:"dx,omitempty"`
	DY     int `json:"dy,omitempty"`
}

// TraceRequest is the body of POST /plans/{id}/trace.
type TraceRequest struct {
	// BBox is where every anchor is pretended to be found.
	BBox domain.Rect `json:"bbox"`
	// Screen is the reported display size; defaults to the plan's expected screen.
	Screen *domain.ScreenSize `json:"screen,omitempty"`
}

// ErrorResponse carries the error kind and document path for SpecErrors.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Path  string `json:"path,omitempty"`
}

// Health handles GET /healthz. Stores backed by a remote service are pinged.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.Store.(ports.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.Logger.Warn("plan store unreachable", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "clickflow-http",
		"version": s.Version,
	})
}

// ListFlows handles GET /flows.
func (s *Server) ListFlows(w http.ResponseWriter, r *http.Request) {
	doc := s.Project.Document()
	out := make([]FlowSummary, 0, len(doc.Flows))
	for _, f := range doc.Flows {
		out = append(out, FlowSummary{
			ID:          f.ID,
			Title:       f.Title,
			Steps:       len(f.Steps),
			HasAnchor:   f.Anchor != nil,
			ShowDesktop: f.ShowDesktop,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetFlow handles GET /flows/{id}: the parsed flow, without compiling it.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := s.Project.DryRun(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// CreatePlan handles POST /plans: compile, store, return the plan with its id.
func (s *Server) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var body CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	opts := clickflow.CompileOptions{UseConfidence: true}
	if body.UseConfidence != nil {
		opts.UseConfidence = *body.UseConfidence
	}

	start := time.Now()
	plan, err := s.Project.Compile(r.Context(), body.FlowIDs, opts)
	if s.Metrics != nil {
		s.Metrics.ObserveCompile(time.Since(start), plan, err)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := s.newID()
	if err := s.Store.Save(r.Context(), id, plan); err != nil {
		s.writeError(w, r, fmt.Errorf("failed to store plan: %w", err))
		return
	}
	s.Logger.Info("plan compiled", "id", id, "flows", plan.FlowIDs(), "actions", plan.ActionCount())

	w.Header().Set("Location", "/plans/"+id)
	writeJSON(w, http.StatusCreated, CompileResponse{ID: id, Plan: plan})
}

// ListPlans handles GET /plans.
func (s *Server) ListPlans(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetPlan handles GET /plans/{id}?format=json|yaml|pyautogui.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	format := emit.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := emit.ParseFormat(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		format = f
	}

	plan, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	if err := emit.Write(w, format, plan); err != nil {
		s.Logger.Error("failed to write plan", "error", err)
	}
}

// DeletePlan handles DELETE /plans/{id}.
func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TracePlan handles POST /plans/{id}/trace: runs a stored plan against a fixed anchor position and
// returns the inputs it would send, one per line.
func (s *Server) TracePlan(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	plan, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var display ports.Display
	switch {
	case body.Screen != nil:
		display = runner.FixedDisplay{Screen: *body.Screen}
	case plan.ExpectedScreen != nil:
		display = runner.FixedDisplay{Screen: *plan.ExpectedScreen}
	}
	opts := []runner.Option{runner.WithSleeper(runner.NoSleep), runner.WithLogger(s.Logger)}
	if s.Metrics != nil {
		opts = append(opts, runner.WithObserver(s.Metrics.RunnerObserver()))
	}

	var out bytes.Buffer
	rn := runner.New(runner.FixedLocator{Box: body.BBox}, runner.NewTraceDriver(&out), display, opts...)
	if err := rn.Run(r.Context(), plan); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Bytes())
}

// Preview handles POST /preview.
func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	var body PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if body.Size == 0 {
		body.Size = domain.DefaultPreviewSize
	}
	plan, err := geometry.Plan(body.X, body.Y, body.BoundW, body.BoundH, body.Size, body.DX, body.DY)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// -- Helpers --

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	if se, ok := domain.AsSpecError(err); ok {
		resp.Kind = string(se.Kind)
		resp.Path = se.Path
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFlowNotFound), errors.Is(err, domain.ErrPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAnchorImageNotFound):
		return http.StatusConflict
	}
	var mismatch *runner.ScreenMismatchError
	if errors.As(err, &mismatch) {
		return http.StatusConflict
	}
	if _, ok := domain.AsSpecError(err); ok {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func contentType(f emit.Format) string {
	switch f {
	case emit.FormatYAML:
		return "application/yaml"
	case emit.FormatPyAutoGUI:
		return "text/x-python; charset=utf-8"
	}
	return "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("encode error: %v\n", err)
	}
}

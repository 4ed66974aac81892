// Package server exposes the planner over HTTP.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"

	"rrt-planner/internal/planner"
	"rrt-planner/internal/scenario"
)

// DefaultMaxRuns is the number of runs kept in memory when Handler.MaxRuns
// is not set.
const DefaultMaxRuns = 32

// PlanResponse is the response of POST /plan.
type PlanResponse struct {
	RunID      string      `json:"runId,omitempty"`
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Nodes      int         `json:"nodes"`
	Iterations int         `json:"iterations"`
	Path       []orb.Point `json:"path,omitempty"`
	Shortcut   []orb.Point `json:"shortcut,omitempty"`
	Length     float64     `json:"length,omitempty"`
}

// LinesResponse is the response of GET /lines.
type LinesResponse struct {
	RunID    string           `json:"runId"`
	Success  bool             `json:"success"`
	Lines    []orb.LineString `json:"lines"`
	NumNodes int              `json:"numNodes"`
	NumEdges int              `json:"numEdges"`
}

// HealthResponse is the response of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Runs   int    `json:"runs"`
}

// Handler serves the planning API. The zero value is ready to use with the
// default planner configuration.
type Handler struct {
	// The base planner configuration. Scenario settings are applied over it.
	// planner.DefaultConfig is used when MaxIterations is 0.
	Config planner.Config

	// The maximum duration of a plan request. 0 disables the limit.
	Timeout time.Duration

	// The number of runs kept for GET /lines. The oldest run is evicted
	// first.
	MaxRuns int

	once   sync.Once
	mux    *http.ServeMux
	mutex  sync.RWMutex
	runs   map[string]*planner.Tree
	runIDs []string
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.init)
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) init() {
	if h.Config.MaxIterations == 0 {
		h.Config = planner.DefaultConfig()
	}
	if h.MaxRuns <= 0 {
		h.MaxRuns = DefaultMaxRuns
	}
	h.runs = make(map[string]*planner.Tree)

	h.mux = http.NewServeMux()
	h.mux.HandleFunc("/plan", corsMiddleware(h.handlePlan))
	h.mux.HandleFunc("/lines", corsMiddleware(h.handleLines))
	h.mux.HandleFunc("/health", corsMiddleware(h.handleHealth))
	h.mux.Handle("/metrics", promhttp.Handler())
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var s scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		logs.Warn(errors.New("decoding plan request failed").Wrap(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	conf := s.Config(h.Config)
	tree, err := planner.Plan(ctx, s.Start, s.Goal, s.Obstacles, conf)
	if errors.IsType(err, planner.ErrTypeInvalidConfig) || errors.IsType(err, planner.ErrTypeDegenerateInput) {
		writeJSON(w, http.StatusBadRequest, PlanResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	res := PlanResponse{
		RunID:      h.storeRun(tree),
		Success:    err == nil,
		Nodes:      tree.Len(),
		Iterations: tree.Iterations,
	}

	if err != nil {
		res.Message = err.Error()
	} else {
		res.Path = tree.Path()
		res.Shortcut = planner.Shortcut(res.Path, planner.NewObstacles(s.Obstacles, conf.Index))
		res.Length = planner.PathLength(res.Shortcut)
	}

	logs.WithTag("run_id", res.RunID).
		WithTag("success", res.Success).
		WithTag("nodes", res.Nodes).
		WithTag("waypoints", len(res.Shortcut)).
		Info("plan request completed")

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("run")
	if runID == "" {
		http.Error(w, "missing run parameter", http.StatusBadRequest)
		return
	}

	h.mutex.RLock()
	tree, ok := h.runs[runID]
	h.mutex.RUnlock()

	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	lines := tree.Segments()
	writeJSON(w, http.StatusOK, LinesResponse{
		RunID:    runID,
		Success:  true,
		Lines:    lines,
		NumNodes: tree.Len(),
		NumEdges: len(lines),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.mutex.RLock()
	runs := len(h.runs)
	h.mutex.RUnlock()

	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ready",
		Runs:   runs,
	})
}

func (h *Handler) storeRun(tree *planner.Tree) string {
	runID := uuid.NewString()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.runs[runID] = tree
	h.runIDs = append(h.runIDs, runID)

	for len(h.runIDs) > h.MaxRuns {
		delete(h.runs, h.runIDs[0])
		h.runIDs = h.runIDs[1:]
	}
	return runID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logs.Warn(errors.New("encoding response failed").Wrap(err))
	}
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/flipper/internal/app"
	"github.com/okian/flipper/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MachineStats(ctx context.Context, req app.MachineStatsRequest) (app.MachineStatsResponse, error)
	Optimize(ctx context.Context, req app.OptimizeRequest) (model.OptimizationResult, error)
	Matrix(ctx context.Context, req app.MatrixRequest) (app.MatrixResponse, error)
}

// Server wires HTTP routes for the strategy API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	machineStatsHandler *MachineStatsHandler
	optimizeHandler     *OptimizeHandler
	matrixHandler       *MatrixHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		machineStatsHandler: NewMachineStatsHandler(deps),
		optimizeHandler:     NewOptimizeHandler(deps),
		matrixHandler:       NewMatrixHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/machine-stats", MetricsMiddleware(s.machineStatsHandler.HandleGetMachineStats, "machine_stats"))
	mux.HandleFunc("/optimize", MetricsMiddleware(s.optimizeHandler.HandlePostOptimize, "optimize"))
	mux.HandleFunc("/matrix", MetricsMiddleware(s.matrixHandler.HandleGetMatrix, "matrix"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service errors to status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, app.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", wrapKind(op, ErrInternal, err))
}

// splitList parses a comma separated query value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// seasonRange reads season_start and season_end, or a comma separated
// seasons list. Missing values give the zero range.
func seasonRange(q map[string][]string) (model.SeasonRange, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	if list := splitList(get("seasons")); len(list) > 0 {
		var r model.SeasonRange
		for i, s := range list {
			n, err := strconv.Atoi(s)
			if err != nil {
				return model.SeasonRange{}, errors.New("invalid seasons; must be comma separated integers")
			}
			if i == 0 || n < r.Min {
				r.Min = n
			}
			if i == 0 || n > r.Max {
				r.Max = n
			}
		}
		return r, nil
	}

	start, end := get("season_start"), get("season_end")
	if start == "" && end == "" {
		return model.SeasonRange{}, nil
	}
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}
	lo, err := strconv.Atoi(start)
	if err != nil {
		return model.SeasonRange{}, errors.New("invalid season_start")
	}
	hi, err := strconv.Atoi(end)
	if err != nil {
		return model.SeasonRange{}, errors.New("invalid season_end")
	}
	return model.SeasonRange{Min: lo, Max: hi}.Normalize(), nil
}

// optionalBool parses a boolean query value; empty gives nil.
func optionalBool(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

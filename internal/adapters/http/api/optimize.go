package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/flipper/internal/app"
	"github.com/okian/flipper/internal/domain/model"
)

// OptimizeDependencies defines the interface for lineup optimization.
type OptimizeDependencies interface {
	Optimize(ctx context.Context, req app.OptimizeRequest) (model.OptimizationResult, error)
}

// OptimizeHandler handles lineup optimization requests.
type OptimizeHandler struct {
	deps OptimizeDependencies
}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler(deps OptimizeDependencies) *OptimizeHandler {
	return &OptimizeHandler{deps: deps}
}

// optimizeRequest is the POST /optimize body.
type optimizeRequest struct {
	Format      string   `json:"format"`
	PlayerNames []string `json:"player_names"`
	Machines    []string `json:"machines"`
	SeasonStart int      `json:"season_start"`
	SeasonEnd   int      `json:"season_end"`
	Venue       string   `json:"venue"`
	UseCache    *bool    `json:"use_cache"`
}

func (o optimizeRequest) validate() error {
	switch {
	case o.Format == "":
		return errors.New("missing format")
	case len(o.PlayerNames) == 0:
		return errors.New("missing player_names")
	case len(o.Machines) == 0:
		return errors.New("missing machines")
	}
	return nil
}

// HandlePostOptimize handles POST /optimize requests.
func (h *OptimizeHandler) HandlePostOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_optimize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var body optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	req := app.OptimizeRequest{
		Format:    model.Format(body.Format),
		Players:   body.PlayerNames,
		Machines:  body.Machines,
		Seasons:   model.SeasonRange{Min: body.SeasonStart, Max: body.SeasonEnd}.Normalize(),
		Venue:     body.Venue,
		SkipCache: body.UseCache != nil && !*body.UseCache,
	}
	res, err := h.deps.Optimize(r.Context(), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

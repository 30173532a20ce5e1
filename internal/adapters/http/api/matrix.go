package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/flipper/internal/app"
)

// MatrixDependencies defines the interface for the player statistics matrix.
type MatrixDependencies interface {
	Matrix(ctx context.Context, req app.MatrixRequest) (app.MatrixResponse, error)
}

// MatrixHandler handles player matrix requests.
type MatrixHandler struct {
	deps MatrixDependencies
}

// NewMatrixHandler creates a new matrix handler.
func NewMatrixHandler(deps MatrixDependencies) *MatrixHandler {
	return &MatrixHandler{deps: deps}
}

// HandleGetMatrix handles GET /matrix?player_names=a,b&machines=x,y requests.
// Omitted lists select every player or machine.
func (h *MatrixHandler) HandleGetMatrix(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matrix"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	seasons, err := seasonRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	resp, err := h.deps.Matrix(r.Context(), app.MatrixRequest{
		Players:  splitList(q.Get("player_names")),
		Machines: splitList(q.Get("machines")),
		Seasons:  seasons,
		Venue:    strings.TrimSpace(q.Get("venue")),
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

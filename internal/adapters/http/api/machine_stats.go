package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/flipper/internal/app"
)

// MachineStatsDependencies defines the interface for machine statistics.
type MachineStatsDependencies interface {
	MachineStats(ctx context.Context, req app.MachineStatsRequest) (app.MachineStatsResponse, error)
}

// MachineStatsHandler handles machine statistics requests.
type MachineStatsHandler struct {
	deps MachineStatsDependencies
}

// NewMachineStatsHandler creates a new machine statistics handler.
func NewMachineStatsHandler(deps MachineStatsDependencies) *MachineStatsHandler {
	return &MachineStatsHandler{deps: deps}
}

// HandleGetMachineStats handles GET /machine-stats requests.
//
// Query parameters: team and venue (required), seasons or
// season_start/season_end, reference_team, team_venue_specific,
// reference_venue_specific and score_limits (a JSON object of machine to
// highest believable score).
func (h *MachineStatsHandler) HandleGetMachineStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_machine_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	req := app.MachineStatsRequest{
		Team:          strings.TrimSpace(q.Get("team")),
		Venue:         strings.TrimSpace(q.Get("venue")),
		ReferenceTeam: strings.TrimSpace(q.Get("reference_team")),
	}
	if req.Team == "" || req.Venue == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("team and venue are required")))
		return
	}

	seasons, err := seasonRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	req.Seasons = seasons

	if req.TeamVenueSpecific, err = optionalBool(q.Get("team_venue_specific")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("invalid team_venue_specific")))
		return
	}
	if req.ReferenceVenueSpecific, err = optionalBool(q.Get("reference_venue_specific")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("invalid reference_venue_specific")))
		return
	}
	if raw := q.Get("score_limits"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.ScoreLimits); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("invalid score_limits JSON")))
			return
		}
	}

	resp, err := h.deps.MachineStats(r.Context(), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

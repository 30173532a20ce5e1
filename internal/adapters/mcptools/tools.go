// Package mcptools exposes the strategy service as Model Context Protocol
// tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/flipper/internal/app"
	"github.com/okian/flipper/internal/domain/model"
)

// Service is the subset of the strategy service the tools call.
type Service interface {
	MachineStats(ctx context.Context, req app.MachineStatsRequest) (app.MachineStatsResponse, error)
	Optimize(ctx context.Context, req app.OptimizeRequest) (model.OptimizationResult, error)
	Matrix(ctx context.Context, req app.MatrixRequest) (app.MatrixResponse, error)
}

// MachineStatsArgs are the machine_stats tool arguments.
type MachineStatsArgs struct {
	Team                   string           `json:"team" jsonschema:"Team name (required)"`
	Venue                  string           `json:"venue" jsonschema:"Venue name (required)"`
	SeasonStart            int              `json:"season_start,omitempty" jsonschema:"First season (0 = default range)"`
	SeasonEnd              int              `json:"season_end,omitempty" jsonschema:"Last season (0 = season_start)"`
	ReferenceTeam          string           `json:"reference_team,omitempty" jsonschema:"Team to compare against"`
	TeamVenueSpecific      *bool            `json:"team_venue_specific,omitempty" jsonschema:"Only count the team's games at the venue (default true)"`
	ReferenceVenueSpecific *bool            `json:"reference_venue_specific,omitempty" jsonschema:"Only count the reference team's games at the venue (default false)"`
	ScoreLimits            map[string]int64 `json:"score_limits,omitempty" jsonschema:"Machine to highest believable score"`
}

// OptimizeArgs are the optimize_lineup tool arguments.
type OptimizeArgs struct {
	Format      string   `json:"format" jsonschema:"7x7 (singles) or 4x2 (doubles)"`
	Players     []string `json:"players" jsonschema:"Player names (7 for 7x7, 8 for 4x2)"`
	Machines    []string `json:"machines" jsonschema:"Machine names (7 for 7x7, 4 for 4x2)"`
	SeasonStart int      `json:"season_start,omitempty" jsonschema:"First season (0 = default range)"`
	SeasonEnd   int      `json:"season_end,omitempty" jsonschema:"Last season (0 = season_start)"`
	Venue       string   `json:"venue,omitempty" jsonschema:"Only use history from this venue"`
	SkipCache   bool     `json:"skip_cache,omitempty" jsonschema:"Recompute instead of using a cached lineup"`
}

// MatrixArgs are the player_matrix tool arguments.
type MatrixArgs struct {
	Players     []string `json:"players,omitempty" jsonschema:"Player names (empty = everyone)"`
	Machines    []string `json:"machines,omitempty" jsonschema:"Machine names (empty = every machine)"`
	SeasonStart int      `json:"season_start,omitempty" jsonschema:"First season (0 = default range)"`
	SeasonEnd   int      `json:"season_end,omitempty" jsonschema:"Last season (0 = season_start)"`
	Venue       string   `json:"venue,omitempty" jsonschema:"Only use history from this venue"`
}

// ToolInfo names a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type tools struct {
	svc Service
}

// NewServer registers the strategy tools on a new MCP server and returns it
// with the tool registry.
func NewServer(svc Service, version string) (*mcp.Server, []ToolInfo) {
	server := mcp.NewServer(&mcp.Implementation{Name: "flipper-strategy", Version: version}, nil)
	t := &tools{svc: svc}
	registry := make([]ToolInfo, 0, 3)

	addTool(server, &registry, &mcp.Tool{
		Name:        "machine_stats",
		Description: "Per-machine averages, play counts and POPS for a team at a venue, optionally compared to a reference team",
	}, t.machineStats)
	addTool(server, &registry, &mcp.Tool{
		Name:        "optimize_lineup",
		Description: "Recommend which players play which machines for a 7x7 singles or 4x2 doubles round",
	}, t.optimize)
	addTool(server, &registry, &mcp.Tool{
		Name:        "player_matrix",
		Description: "Win rate, form, streak and confidence for every player on every machine, plus teammate pairs",
	}, t.matrix)

	return server, registry
}

// Handler serves server over streamable HTTP with JSON responses.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func addTool[T any](server *mcp.Server, registry *[]ToolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func seasons(start, end int) model.SeasonRange {
	if start == 0 && end == 0 {
		return model.SeasonRange{}
	}
	if end == 0 {
		end = start
	}
	if start == 0 {
		start = end
	}
	return model.SeasonRange{Min: start, Max: end}.Normalize()
}

func (t *tools) machineStats(ctx context.Context, _ *mcp.CallToolRequest, args MachineStatsArgs) (*mcp.CallToolResult, any, error) {
	resp, err := t.svc.MachineStats(ctx, app.MachineStatsRequest{
		Team:                   args.Team,
		Venue:                  args.Venue,
		Seasons:                seasons(args.SeasonStart, args.SeasonEnd),
		ReferenceTeam:          args.ReferenceTeam,
		ScoreLimits:            args.ScoreLimits,
		TeamVenueSpecific:      args.TeamVenueSpecific,
		ReferenceVenueSpecific: args.ReferenceVenueSpecific,
	})
	return toolJSON(resp, err)
}

func (t *tools) optimize(ctx context.Context, _ *mcp.CallToolRequest, args OptimizeArgs) (*mcp.CallToolResult, any, error) {
	res, err := t.svc.Optimize(ctx, app.OptimizeRequest{
		Format:    model.Format(args.Format),
		Players:   args.Players,
		Machines:  args.Machines,
		Seasons:   seasons(args.SeasonStart, args.SeasonEnd),
		Venue:     args.Venue,
		SkipCache: args.SkipCache,
	})
	return toolJSON(res, err)
}

func (t *tools) matrix(ctx context.Context, _ *mcp.CallToolRequest, args MatrixArgs) (*mcp.CallToolResult, any, error) {
	resp, err := t.svc.Matrix(ctx, app.MatrixRequest{
		Players:  args.Players,
		Machines: args.Machines,
		Seasons:  seasons(args.SeasonStart, args.SeasonEnd),
		Venue:    args.Venue,
	})
	return toolJSON(resp, err)
}

// toolJSON renders v as the tool's text content. Service errors become tool
// errors so the client sees the reason.
func toolJSON(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}

package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/flipper/internal/app"
	"github.com/okian/flipper/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeService struct {
	machineReq  app.MachineStatsRequest
	optimizeReq app.OptimizeRequest
	matrixReq   app.MatrixRequest
	err         error
}

func (f *fakeService) MachineStats(_ context.Context, req app.MachineStatsRequest) (app.MachineStatsResponse, error) {
	f.machineReq = req
	return app.MachineStatsResponse{Team: req.Team, Stats: []model.MachineStats{{Machine: "tz"}}}, f.err
}

func (f *fakeService) Optimize(_ context.Context, req app.OptimizeRequest) (model.OptimizationResult, error) {
	f.optimizeReq = req
	return model.OptimizationResult{Format: req.Format, TotalScore: 1.5}, f.err
}

func (f *fakeService) Matrix(_ context.Context, req app.MatrixRequest) (app.MatrixResponse, error) {
	f.matrixReq = req
	return app.MatrixResponse{}, f.err
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(*mcp.TextContent).Text
}

func TestNewServer(t *testing.T) {
	Convey("Given the strategy tools", t, func() {
		server, registry := NewServer(&fakeService{}, "test")

		Convey("Then every tool should be registered", func() {
			So(server, ShouldNotBeNil)
			names := make([]string, 0, len(registry))
			for _, info := range registry {
				names = append(names, info.Name)
			}
			So(names, ShouldResemble, []string{"machine_stats", "optimize_lineup", "player_matrix"})
			So(Handler(server), ShouldNotBeNil)
		})
	})
}

func TestTools(t *testing.T) {
	Convey("Given tools over a service", t, func() {
		ctx := context.Background()
		svc := &fakeService{}
		tl := &tools{svc: svc}

		Convey("When machine_stats is called with one season", func() {
			res, _, err := tl.machineStats(ctx, nil, MachineStatsArgs{Team: "SKP", Venue: "AAB", SeasonStart: 21})

			Convey("Then the season range should cover that season and return JSON", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)
				So(svc.machineReq.Seasons, ShouldResemble, model.SeasonRange{Min: 21, Max: 21})

				var out app.MachineStatsResponse
				So(json.Unmarshal([]byte(text(res)), &out), ShouldBeNil)
				So(out.Team, ShouldEqual, "SKP")
			})
		})

		Convey("When optimize_lineup is called", func() {
			res, _, err := tl.optimize(ctx, nil, OptimizeArgs{
				Format: "4x2", Players: []string{"a", "b"}, Machines: []string{"x"}, SeasonStart: 22, SeasonEnd: 20, SkipCache: true,
			})

			Convey("Then the request should be forwarded", func() {
				So(err, ShouldBeNil)
				So(svc.optimizeReq.Format, ShouldEqual, model.FormatDoubles)
				So(svc.optimizeReq.SkipCache, ShouldBeTrue)
				So(svc.optimizeReq.Seasons, ShouldResemble, model.SeasonRange{Min: 20, Max: 22})
				So(text(res), ShouldContainSubstring, `"total_score": 1.5`)
			})
		})

		Convey("When player_matrix is called without seasons", func() {
			_, _, err := tl.matrix(ctx, nil, MatrixArgs{Venue: "AAB"})

			Convey("Then the default range should be left to the service", func() {
				So(err, ShouldBeNil)
				So(svc.matrixReq.Seasons, ShouldResemble, model.SeasonRange{})
				So(svc.matrixReq.Venue, ShouldEqual, "AAB")
			})
		})

		Convey("When the service fails", func() {
			svc.err = fmt.Errorf("%w: team and venue are required", app.ErrInvalidRequest)
			res, _, err := tl.machineStats(ctx, nil, MachineStatsArgs{})

			Convey("Then a tool error should carry the reason", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(text(res), ShouldContainSubstring, "team and venue are required")
			})
		})
	})
}

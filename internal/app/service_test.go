package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/hoops/internal/adapters/store"
	service "github.com/okian/hoops/internal/app"
	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/internal/domain/types"
	"github.com/okian/hoops/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

const lastTenCSV = `team_name,game_date,home_team,home_team_score,visitor_team_score,visitor_team,season,status,home_team_win,total_wins_last_10
Boston Celtics,2024-03-01,Boston Celtics,120,100,Miami Heat,2023,Final,True,7
Boston Celtics,2024-03-03,Denver Nuggets,110,101,Boston Celtics,2023,Final,True,7
Miami Heat,2024-03-01,Boston Celtics,120,100,Miami Heat,2023,Final,True,4
`

const seasonStatsCSV = `player_id,first_name,last_name,season,season_number,total_games,avg_pts,avg_reb,avg_ast,avg_blk,avg_stl,avg_turnover,avg_fg_pct,avg_fg3_pct,avg_ft_pct,career_pts,career_reb,career_ast,career_blk,career_stl
237.0,LeBron,James,2004,2,80,27.2,7.4,7.2,0.7,2.2,3.3,0.472,0.351,0.75,3776,1117,1041,130,279
237.0,LeBron,James,2003,1,79,20.9,5.5,5.9,0.7,1.6,3.5,0.417,0.29,0.754,1654,432,465,58,130
15.0,Aaron,Gordon,2023,10,73,13.9,6.5,3.5,0.6,0.8,1.4,0.556,0.29,0.658,9800,4100,2000,420,500
,,,2023,1,1,0,0,0,0,0,0,0,0,0,0,0,0,0,0
`

const latestGamesCSV = `game_date,home_team,home_team_score,visitor_team_score,visitor_team,season,status,home_team_win
2024-03-05,Boston Celtics,99,112,Miami Heat,2023,Final,False
`

func newService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"last_10_games.csv": lastTenCSV,
		"season_stats.csv":  seasonStatsCSV,
		"latest_games.csv":  latestGamesCSV,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	s, err := store.LoadCSV(context.Background(), dir)
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return service.New(s, opts...)
}

func TestService_Games(t *testing.T) {
	Convey("Given a service over CSV snapshots", t, func() {
		ctx := context.Background()
		svc := newService(t)

		Convey("When listing the latest games", func() {
			games, err := svc.LatestGames(ctx)

			Convey("Then every row is returned", func() {
				So(err, ShouldBeNil)
				So(games.Len(), ShouldEqual, 1)
				So(games.Columns, ShouldResemble, service.GameColumns)
			})
		})

		Convey("When listing teams", func() {
			teams, err := svc.Teams(ctx)

			Convey("Then they are distinct and ordered", func() {
				So(err, ShouldBeNil)
				So(teams, ShouldResemble, []string{"Boston Celtics", "Miami Heat"})
			})
		})

		Convey("When fetching a team's last ten games", func() {
			lt, err := svc.LastTen(ctx, "Boston Celtics")

			Convey("Then wins and the game projection are returned", func() {
				So(err, ShouldBeNil)
				So(lt.Team, ShouldEqual, "Boston Celtics")
				So(lt.Wins, ShouldEqual, int64(7))
				So(lt.Games.Len(), ShouldEqual, 2)
				So(lt.Games.Columns, ShouldResemble, service.GameColumns)
				So(lt.Games.Has("team_name"), ShouldBeFalse)
			})
		})

		Convey("When the team is unknown or hostile", func() {
			_, err := svc.LastTen(ctx, "x' OR '1'='1")

			Convey("Then ErrTeamNotFound is returned", func() {
				So(errors.Is(err, service.ErrTeamNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Players(t *testing.T) {
	Convey("Given a service over CSV snapshots", t, func() {
		ctx := context.Background()

		Convey("When listing players", func() {
			players, err := newService(t).Players(ctx)

			Convey("Then the featured player comes first and nameless rows are skipped", func() {
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 2)
				So(players[0].Label, ShouldEqual, "LeBron James ID: 237")
				So(players[0].ID, ShouldEqual, int64(237))
				So(players[1].Label, ShouldEqual, "Aaron Gordon ID: 15")
			})
		})

		Convey("When another player is featured", func() {
			players, err := newService(t, service.WithFeaturedPlayer(15)).Players(ctx)

			Convey("Then plain label order is kept", func() {
				So(err, ShouldBeNil)
				So(players[0].ID, ShouldEqual, int64(15))
				So(players[1].ID, ShouldEqual, int64(237))
			})
		})

		Convey("When fetching career totals", func() {
			svc := newService(t)
			totals, err := svc.CareerTotals(ctx, 237, types.ParseStats([]string{"reb", "pts"}))

			Convey("Then seasons are ordered and stats keep display order", func() {
				So(err, ShouldBeNil)
				So(totals.Columns, ShouldResemble, []string{"season_number", "career_pts", "career_reb"})
				So(totals.Len(), ShouldEqual, 2)
				v, _ := totals.Value(0, "career_pts")
				So(v, ShouldEqual, int64(1654))
			})

			Convey("And an empty selection returns only the season number", func() {
				t2, err := svc.CareerTotals(ctx, 237, nil)
				So(err, ShouldBeNil)
				So(t2.Columns, ShouldResemble, []string{"season_number"})
			})
		})

		Convey("When fetching season averages", func() {
			avg, err := newService(t).SeasonAverages(ctx, 237)

			Convey("Then the season is text and rows are ordered", func() {
				So(err, ShouldBeNil)
				So(avg.Columns[0], ShouldEqual, "player_name")
				So(avg.Columns[1], ShouldEqual, "season")
				v, _ := avg.Value(0, "season")
				So(v, ShouldEqual, "2003")
				v, _ = avg.Value(0, "player_name")
				So(v, ShouldEqual, "LeBron James")
				So(avg.Has("avg_ft_pct"), ShouldBeTrue)
			})
		})

		Convey("When the player does not exist", func() {
			svc := newService(t)
			_, err := svc.SeasonAverages(ctx, 99999)
			So(errors.Is(err, service.ErrPlayerNotFound), ShouldBeTrue)
			_, err = svc.CareerTotals(ctx, 99999, types.DefaultStats)
			So(errors.Is(err, service.ErrPlayerNotFound), ShouldBeTrue)
		})
	})
}

type failingQuerier struct{}

var errBoom = errors.New("boom")

func (failingQuerier) Query(context.Context, string, ...any) (*table.Table, error) {
	return nil, errBoom
}

func (failingQuerier) Relation(name string) string { return name }

func TestService_QueryErrors(t *testing.T) {
	Convey("Given a store that always fails", t, func() {
		ctx := context.Background()
		svc := service.New(failingQuerier{})

		Convey("Then every operation surfaces the error", func() {
			_, err := svc.LatestGames(ctx)
			So(errors.Is(err, errBoom), ShouldBeTrue)
			_, err = svc.Teams(ctx)
			So(errors.Is(err, errBoom), ShouldBeTrue)
			_, err = svc.LastTen(ctx, "Boston Celtics")
			So(errors.Is(err, errBoom), ShouldBeTrue)
			_, err = svc.Players(ctx)
			So(errors.Is(err, errBoom), ShouldBeTrue)
		})

		Convey("Then stats count queries without a source", func() {
			_, _ = svc.LatestGames(ctx)
			stats := svc.GetStats()
			So(stats["queries"], ShouldEqual, int64(1))
			So(stats["featuredPlayer"], ShouldEqual, service.DefaultFeaturedPlayer)
			_, hasSource := stats["source"]
			So(hasSource, ShouldBeFalse)
		})
	})
}

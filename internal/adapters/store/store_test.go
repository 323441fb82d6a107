package store

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/hoops/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const latestGamesCSV = `game_date,home_team,home_team_score,visitor_team_score,visitor_team,season,status,home_team_win
2024-03-01,Los Angeles Lakers,118,104,Denver Nuggets,2023,Final,True
2024-03-02,Boston Celtics,99,112,Miami Heat,2023,Final,False
2024-03-03,Phoenix Suns,,,Utah Jazz,2023,7:30 pm ET,
`

const seasonStatsCSV = `player_id,first_name,last_name,season_number,avg_pts,career_pts
237,LeBron,James,1,20.9,1654
237,LeBron,James,2,27.2,3776.5
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func quietLogger() logger.Logger {
	_ = logger.Init(logger.WithWriter(io.Discard))
	return logger.Get()
}

func TestLoadCSV(t *testing.T) {
	Convey("Given a datasets directory with CSV snapshots", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		writeFile(t, dir, "latest_games.csv", latestGamesCSV)
		writeFile(t, dir, "season_stats.csv", seasonStatsCSV)
		writeFile(t, dir, "notes.txt", "ignored")

		s, err := LoadCSV(ctx, dir, WithLogger(quietLogger()))
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("Then each file is a table named after its stem", func() {
			So(s.Source(), ShouldEqual, SourceCSV)
			So(s.Relation("latest_games"), ShouldEqual, `"latest_games"`)

			tbl, err := s.Query(ctx, "SELECT * FROM "+s.Relation("latest_games"))
			So(err, ShouldBeNil)
			So(tbl.Len(), ShouldEqual, 3)
			So(tbl.Columns[0], ShouldEqual, "game_date")
		})

		Convey("Then column types are inferred", func() {
			tbl, err := s.Query(ctx, `SELECT home_team, home_team_score, season, home_team_win FROM latest_games ORDER BY game_date`)
			So(err, ShouldBeNil)

			v, _ := tbl.Value(0, "home_team")
			So(v, ShouldEqual, "Los Angeles Lakers")
			v, _ = tbl.Value(0, "home_team_score")
			So(v, ShouldEqual, int64(118))
			v, _ = tbl.Value(0, "home_team_win")
			So(v, ShouldEqual, true)
			v, _ = tbl.Value(1, "home_team_win")
			So(v, ShouldEqual, false)
		})

		Convey("Then empty cells are NULL", func() {
			tbl, err := s.Query(ctx, `SELECT home_team_score, home_team_win FROM latest_games WHERE status <> 'Final'`)
			So(err, ShouldBeNil)
			So(tbl.Len(), ShouldEqual, 1)
			So(tbl.Rows[0][0], ShouldBeNil)
			So(tbl.Rows[0][1], ShouldBeNil)
		})

		Convey("Then mixed integer and decimal columns are REAL", func() {
			tbl, err := s.Query(ctx, `SELECT career_pts FROM season_stats WHERE player_id = ? ORDER BY season_number`, int64(237))
			So(err, ShouldBeNil)
			So(tbl.Rows[0][0], ShouldEqual, 1654.0)
			So(tbl.Rows[1][0], ShouldEqual, 3776.5)
		})

		Convey("Then parameters are bound, not spliced", func() {
			tbl, err := s.Query(ctx, `SELECT * FROM latest_games WHERE home_team = ?`, "x' OR '1'='1")
			So(err, ShouldBeNil)
			So(tbl.Len(), ShouldEqual, 0)
		})

		Convey("When a query is invalid", func() {
			_, err := s.Query(ctx, "SELECT * FROM missing_table")

			Convey("Then ErrQuery is returned", func() {
				So(errors.Is(err, ErrQuery), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty directory", t, func() {
		_, err := LoadCSV(context.Background(), t.TempDir(), WithLogger(quietLogger()))

		Convey("Then loading fails", func() {
			So(errors.Is(err, ErrLoadCSV), ShouldBeTrue)
		})
	})

	Convey("Given a CSV with a ragged row", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "bad.csv", "a,b\n1,2\n3\n")
		_, err := LoadCSV(context.Background(), dir, WithLogger(quietLogger()))

		Convey("Then loading fails", func() {
			So(errors.Is(err, ErrLoadCSV), ShouldBeTrue)
		})
	})

	Convey("Given a CSV with a pandas index column", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "teams.csv", ",team_name\n0,Boston Celtics\n1,Miami Heat\n")
		s, err := LoadCSV(context.Background(), dir, WithLogger(quietLogger()))
		So(err, ShouldBeNil)
		defer s.Close()

		tbl, err := s.Query(context.Background(), "SELECT * FROM teams")
		So(err, ShouldBeNil)
		So(tbl.Columns, ShouldResemble, []string{"index", "team_name"})
	})
}

func TestInferTypes(t *testing.T) {
	Convey("Given columns of different shapes", t, func() {
		records := [][]string{
			{"1", "1.5", "True", "abc", "", "7"},
			{"2", "2", "false", "1", "", "x"},
			{"", "", "", "", "", ""},
		}
		So(inferTypes(6, records), ShouldResemble,
			[]string{typeInteger, typeReal, typeBoolean, typeText, typeText, typeText})
	})
}

func TestOpenDatabase(t *testing.T) {
	Convey("Given an analytical database file and a SQL directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "nba.db")

		db, err := sql.Open(driverName, path)
		So(err, ShouldBeNil)
		_, err = db.Exec(`CREATE TABLE games (home_team TEXT, home_team_score INTEGER, home_team_win BOOLEAN)`)
		So(err, ShouldBeNil)
		_, err = db.Exec(`INSERT INTO games VALUES ('Boston Celtics', 120, 1), ('Miami Heat', 90, 0)`)
		So(err, ShouldBeNil)
		So(db.Close(), ShouldBeNil)

		sqlDir := filepath.Join(dir, "sql")
		So(os.Mkdir(sqlDir, 0o700), ShouldBeNil)
		writeFile(t, sqlDir, "winners.sql", "SELECT home_team FROM games WHERE home_team_win = 1;\n")
		writeFile(t, sqlDir, "empty.sql", "  ")

		s, err := OpenDatabase(ctx, path, WithSQLDir(sqlDir), WithLogger(quietLogger()))
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("Then named statements resolve to sub-selects", func() {
			So(s.Source(), ShouldEqual, SourceDatabase)
			So(s.Relation("winners"), ShouldEqual, `(SELECT home_team FROM games WHERE home_team_win = 1) AS "winners"`)
			So(s.Relation("empty"), ShouldEqual, `"empty"`)
			So(s.Relation("games"), ShouldEqual, `"games"`)

			tbl, err := s.Query(ctx, "SELECT * FROM "+s.Relation("winners"))
			So(err, ShouldBeNil)
			So(tbl.Len(), ShouldEqual, 1)
			So(tbl.Rows[0][0], ShouldEqual, "Boston Celtics")
		})

		Convey("Then declared BOOLEAN columns come back as bool", func() {
			tbl, err := s.Query(ctx, "SELECT home_team_win FROM games ORDER BY home_team")
			So(err, ShouldBeNil)
			So(tbl.Rows[0][0], ShouldEqual, true)
			So(tbl.Rows[1][0], ShouldEqual, false)
		})

		Convey("Then the file cannot be written", func() {
			_, err := s.DB().ExecContext(ctx, `DELETE FROM games`)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a DuckDB file", t, func() {
		path := filepath.Join(t.TempDir(), "nba.duckdb")
		head := append(make([]byte, 8), []byte("DUCK")...)
		So(os.WriteFile(path, append(head, make([]byte, 64)...), 0o600), ShouldBeNil)

		_, err := OpenDatabase(context.Background(), path, WithLogger(quietLogger()))

		Convey("Then ErrOpen says only SQLite is supported", func() {
			So(errors.Is(err, ErrOpen), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "is a DuckDB file")
			So(err.Error(), ShouldContainSubstring, "SQLite")
		})
	})

	Convey("Given a missing database file", t, func() {
		_, err := OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "nope.db"), WithLogger(quietLogger()))

		Convey("Then ErrOpen is returned", func() {
			So(errors.Is(err, ErrOpen), ShouldBeTrue)
		})
	})
}

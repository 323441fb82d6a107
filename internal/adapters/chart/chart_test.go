package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

// renders reads chart_renders_total for kind and outcome.
func renders(kind, outcome string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "chart_renders_total") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["kind"] == kind && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func careerTotals(rows int) *table.Table {
	t := table.New("season_number", "career_pts", "career_reb")
	for i := 1; i <= rows; i++ {
		t.Append(int64(i), float64(i*1800), int64(i*500))
	}
	return t
}

func TestCareerArea(t *testing.T) {
	Convey("Given career totals over several seasons", t, func() {
		var buf bytes.Buffer
		err := CareerArea(&buf, careerTotals(5), "season_number")

		Convey("Then an SVG chart with a legend is written", func() {
			So(err, ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, "<svg")
			So(out, ShouldContainSubstring, "career_pts")
			So(out, ShouldContainSubstring, "career_reb")
		})

		Convey("Then y ticks are comma separated", func() {
			So(formatTick(9000.0), ShouldEqual, "9,000")
			So(formatTick(int64(40474)), ShouldEqual, "40,474")
			So(formatTick("x"), ShouldEqual, "0")
		})
	})

	Convey("Given a single season", t, func() {
		var buf bytes.Buffer
		err := CareerArea(&buf, careerTotals(1), "season_number")

		Convey("Then a placeholder is drawn", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Not enough seasons")
		})
	})

	Convey("Given no stat columns", t, func() {
		t2, _ := careerTotals(3).Select("season_number")
		var buf bytes.Buffer
		err := CareerArea(&buf, t2, "season_number")

		Convey("Then the placeholder asks for a stat", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Pick a stat")
		})
	})

	Convey("Given seasons that share one x value", t, func() {
		flat := table.New("season_number", "career_pts")
		flat.Append(int64(1), int64(1800))
		flat.Append(int64(1), int64(3600))
		before := renders(KindCareer, "error")
		placeholders := renders(KindCareer, "placeholder")
		var buf bytes.Buffer
		err := CareerArea(&buf, flat, "season_number")

		Convey("Then the failed render degrades to a placeholder counted as an error", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Chart unavailable")
			So(renders(KindCareer, "error"), ShouldEqual, before+1)
			So(renders(KindCareer, "placeholder"), ShouldEqual, placeholders)
		})
	})

	Convey("Given an unknown x column", t, func() {
		err := CareerArea(&bytes.Buffer{}, careerTotals(3), "season")

		Convey("Then ErrColumnNotFound is returned", func() {
			So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
		})
	})
}

func lastTen() *table.Table {
	t := table.New("home_team", "visitor_team", "home_team_win")
	t.Append("Boston Celtics", "Miami Heat", true)
	t.Append("Denver Nuggets", "Boston Celtics", true)
	t.Append("Boston Celtics", "Utah Jazz", false)
	t.Append("Phoenix Suns", "Boston Celtics", false)
	t.Append("Boston Celtics", "Chicago Bulls", nil)
	return t
}

func TestResults(t *testing.T) {
	Convey("Given a team's games", t, func() {
		res, err := Results(lastTen(), "Boston Celtics")

		Convey("Then outcomes follow the side the team played on", func() {
			So(err, ShouldBeNil)
			So(res, ShouldResemble, []Result{Win, Loss, Loss, Win, Unknown})
		})
	})

	Convey("Given a team that played none of the games", t, func() {
		res, err := Results(lastTen(), "Orlando Magic")
		So(err, ShouldBeNil)
		for _, r := range res {
			So(r, ShouldEqual, Unknown)
		}
	})

	Convey("Given a table missing the win flag", t, func() {
		t2, _ := lastTen().Select("home_team", "visitor_team")
		_, err := Results(t2, "Boston Celtics")
		So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
	})
}

func TestFormStrip(t *testing.T) {
	Convey("Given a team's last games", t, func() {
		var buf bytes.Buffer
		err := FormStrip(&buf, lastTen(), "Boston Celtics")

		Convey("Then one box per game is drawn", func() {
			So(err, ShouldBeNil)
			out := buf.String()
			So(strings.Count(out, "<rect"), ShouldEqual, 5)
			So(strings.Count(out, ">W<"), ShouldEqual, 2)
			So(strings.Count(out, ">L<"), ShouldEqual, 2)
			So(out, ShouldContainSubstring, "fill:lightgray")
		})
	})

	Convey("Given no games", t, func() {
		var buf bytes.Buffer
		err := FormStrip(&buf, table.New("home_team", "visitor_team", "home_team_win"), "Boston Celtics")
		So(err, ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "No games")
	})
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPlaceholderWriteError(t *testing.T) {
	Convey("Given a writer that fails", t, func() {
		err := Placeholder(brokenWriter{}, 100, 50, "x")
		So(errors.Is(err, ErrRender), ShouldBeTrue)
	})
}

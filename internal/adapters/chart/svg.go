package chart

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/pkg/metrics"
)

const (
	cell     = 36
	gap      = 4
	stripH   = cell + 2*gap
	winFill  = "fill:green"
	lossFill = "fill:red"
	nullFill = "fill:lightgray"
)

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Placeholder draws an empty frame with a centered message.
func Placeholder(w io.Writer, width, height int, msg string) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white;stroke:lightgray;stroke-width:1")
	canvas.Text(width/2, height/2, msg, "text-anchor:middle;font-family:sans-serif;font-size:14px;fill:gray")
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("%w: %w", ErrRender, ew.err)
	}
	return nil
}

// Result is a game's outcome from one team's point of view.
type Result int

// Game outcomes.
const (
	Unknown Result = iota
	Win
	Loss
)

// Results maps each game row to team's outcome. Rows where team did not
// play or the win flag is null are Unknown.
func Results(games *table.Table, team string) ([]Result, error) {
	flags, err := games.Column("home_team_win")
	if err != nil {
		return nil, err
	}
	home, err := games.Column("home_team")
	if err != nil {
		return nil, err
	}
	visitor, err := games.Column("visitor_team")
	if err != nil {
		return nil, err
	}

	out := make([]Result, len(flags))
	for i := range flags {
		homeWon, ok := table.Truthy(flags[i])
		switch {
		case !ok:
			out[i] = Unknown
		case home[i] == team:
			out[i] = pick(homeWon)
		case visitor[i] == team:
			out[i] = pick(!homeWon)
		}
	}
	return out, nil
}

func pick(won bool) Result {
	if won {
		return Win
	}
	return Loss
}

// FormStrip draws one W/L box per game of team, in row order.
func FormStrip(w io.Writer, games *table.Table, team string) error {
	results, err := Results(games, team)
	if err != nil {
		metrics.RecordChartRender(KindForm, "error")
		return err
	}
	if len(results) == 0 {
		metrics.RecordChartRender(KindForm, "placeholder")
		return Placeholder(w, 10*(cell+gap)+gap, stripH, "No games")
	}

	width := len(results)*(cell+gap) + gap
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, stripH)
	canvas.Gstyle("font-family:sans-serif;font-size:16px;font-weight:bold;text-anchor:middle")
	for i, r := range results {
		x := gap + i*(cell+gap)
		fill, label := nullFill, "-"
		switch r {
		case Win:
			fill, label = winFill, "W"
		case Loss:
			fill, label = lossFill, "L"
		}
		canvas.Rect(x, gap, cell, cell, fill)
		canvas.Text(x+cell/2, gap+cell/2+6, label, "fill:white")
	}
	canvas.Gend()
	canvas.End()

	if ew.err != nil {
		metrics.RecordChartRender(KindForm, "error")
		return fmt.Errorf("%w: %w", ErrRender, ew.err)
	}
	metrics.RecordChartRender(KindForm, "ok")
	return nil
}

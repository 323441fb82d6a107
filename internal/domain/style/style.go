// Package style computes per-cell CSS for game tables: the winning side is
// green and the losing side red.
package style

import (
	"fmt"

	"github.com/okian/hoops/internal/domain/table"
)

// Columns the formatter reads or styles.
const (
	ColHomeWin          = "home_team_win"
	ColHomeTeam         = "home_team"
	ColHomeTeamScore    = "home_team_score"
	ColVisitorTeam      = "visitor_team"
	ColVisitorTeamScore = "visitor_team_score"
)

// CSS declarations applied to styled cells.
const (
	WinBackground  = "background-color:green"
	LossBackground = "background-color:red"
	WinText        = "color:green"
	LossText       = "color:red"
)

// Grid has the same shape as the table it was computed from. Cells holds
// one CSS declaration per cell; "" means unstyled.
type Grid struct {
	Columns []string
	Cells   [][]string
}

// At returns the style for row and col, or "" when either is unknown.
func (g Grid) At(row int, col string) string {
	if row < 0 || row >= len(g.Cells) {
		return ""
	}
	for i, c := range g.Columns {
		if c == col {
			return g.Cells[row][i]
		}
	}
	return ""
}

// WinningColors styles the team and score columns of t from the
// home_team_win flag. Rows with a null flag stay unstyled.
//
// When team is not empty, the team-name cells keep their style only where
// they name that team; the score cells are not affected.
func WinningColors(t *table.Table, team string) (Grid, error) {
	winIdx := t.Index(ColHomeWin)
	if winIdx < 0 {
		return Grid{}, fmt.Errorf("%w: %s", table.ErrColumnNotFound, ColHomeWin)
	}

	g := Grid{
		Columns: append([]string(nil), t.Columns...),
		Cells:   make([][]string, len(t.Rows)),
	}
	homeIdx := t.Index(ColHomeTeam)
	homeScoreIdx := t.Index(ColHomeTeamScore)
	visitorIdx := t.Index(ColVisitorTeam)
	visitorScoreIdx := t.Index(ColVisitorTeamScore)

	for r, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		g.Cells[r] = cells

		homeWon, ok := table.Truthy(row[winIdx])
		if !ok {
			continue
		}
		set(cells, homeIdx, pick(homeWon, WinBackground, LossBackground))
		set(cells, homeScoreIdx, pick(homeWon, WinText, LossText))
		set(cells, visitorIdx, pick(!homeWon, WinBackground, LossBackground))
		set(cells, visitorScoreIdx, pick(!homeWon, WinText, LossText))

		if team == "" {
			continue
		}
		if homeIdx >= 0 && row[homeIdx] != team {
			cells[homeIdx] = ""
		}
		if visitorIdx >= 0 && row[visitorIdx] != team {
			cells[visitorIdx] = ""
		}
	}
	return g, nil
}

func set(cells []string, i int, v string) {
	if i >= 0 {
		cells[i] = v
	}
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

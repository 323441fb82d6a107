// Package templates holds the dashboard's templ components. Edit
// dashboard.templ and regenerate dashboard_templ.go with templ generate.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"github.com/okian/hoops/internal/domain/style"
	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/internal/domain/types"
)

// StyledTable is a table plus an optional per-cell style grid.
type StyledTable struct {
	Table  *table.Table
	Styles style.Grid
}

// StatOption is one stat checkbox.
type StatOption struct {
	types.Stat
	Checked bool
}

// DashboardData is everything the dashboard page renders.
type DashboardData struct {
	LatestGames StyledTable

	Teams        []string
	SelectedTeam string
	Wins         int64
	LastTen      StyledTable
	FormURL      string

	Players        []types.Player
	SelectedPlayer types.Player
	Featured       bool
	Stats          []StatOption
	CareerURL      string
	SeasonAverages StyledTable
}

// PlayerLabels returns the dropdown labels of d.Players in order.
func (d DashboardData) PlayerLabels() []string {
	labels := make([]string, len(d.Players))
	for i, p := range d.Players {
		labels[i] = p.Label
	}
	return labels
}

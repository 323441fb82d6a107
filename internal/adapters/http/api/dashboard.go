// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/okian/hoops/internal/adapters/http/templates"
	service "github.com/okian/hoops/internal/app"
	"github.com/okian/hoops/internal/domain/style"
	"github.com/okian/hoops/internal/domain/types"
	"github.com/okian/hoops/pkg/logger"
)

// DashboardHandler renders the dashboard page. Every interaction is a form
// GET that re-renders the whole page from its query parameters.
type DashboardHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, log: log}
}

// HandleDashboard handles GET /?team=&player=&stat= requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.build(ctx, r.URL.Query())
	if err != nil {
		status, _ := classify(err)
		h.log.Error(ctx, "dashboard failed", logger.Error(err), logger.Int("status", status))
		http.Error(w, err.Error(), status)
		return
	}
	templ.Handler(templates.Dashboard(data)).ServeHTTP(w, r)
}

func (h *DashboardHandler) build(ctx context.Context, q url.Values) (templates.DashboardData, error) {
	var d templates.DashboardData

	latest, err := h.deps.LatestGames(ctx)
	if err != nil {
		return d, err
	}
	latestStyles, err := style.WinningColors(latest, "")
	if err != nil {
		return d, err
	}
	d.LatestGames = templates.StyledTable{Table: latest, Styles: latestStyles}

	if err := h.buildTeam(ctx, q.Get("team"), &d); err != nil {
		return d, err
	}
	if err := h.buildPlayer(ctx, q.Get("player"), q["stat"], &d); err != nil {
		return d, err
	}
	return d, nil
}

func (h *DashboardHandler) buildTeam(ctx context.Context, team string, d *templates.DashboardData) error {
	teams, err := h.deps.Teams(ctx)
	if err != nil {
		return err
	}
	d.Teams = teams
	if team == "" {
		if len(teams) == 0 {
			return nil
		}
		team = teams[0]
	}

	lt, err := h.deps.LastTen(ctx, team)
	if err != nil {
		return err
	}
	styles, err := style.WinningColors(lt.Games, team)
	if err != nil {
		return err
	}
	d.SelectedTeam = team
	d.Wins = lt.Wins
	d.LastTen = templates.StyledTable{Table: lt.Games, Styles: styles}
	d.FormURL = "/charts/form.svg?" + url.Values{"team": {team}}.Encode()
	return nil
}

func (h *DashboardHandler) buildPlayer(ctx context.Context, label string, statKeys []string, d *templates.DashboardData) error {
	players, err := h.deps.Players(ctx)
	if err != nil {
		return err
	}
	d.Players = players

	selected, ok, err := pickPlayer(players, label)
	if err != nil || !ok {
		return err
	}
	d.SelectedPlayer = selected
	d.Featured = selected.ID == h.deps.FeaturedPlayer()

	stats := types.ParseStats(statKeys)
	checked := make(map[string]bool, len(stats))
	chartQuery := url.Values{"player": {strconv.FormatInt(selected.ID, 10)}}
	for _, s := range stats {
		checked[s.Key] = true
		chartQuery.Add("stat", s.Key)
	}
	if len(stats) == 0 {
		chartQuery.Set("stat", "")
	}
	for _, s := range types.Stats {
		d.Stats = append(d.Stats, templates.StatOption{Stat: s, Checked: checked[s.Key]})
	}
	d.CareerURL = "/charts/career.svg?" + chartQuery.Encode()

	seasons, err := h.deps.SeasonAverages(ctx, selected.ID)
	if err != nil {
		return err
	}
	d.SeasonAverages = templates.StyledTable{Table: seasons}
	return nil
}

// pickPlayer finds the player named by label, or the first player when
// label is empty. ok is false when there are no players at all.
func pickPlayer(players []types.Player, label string) (types.Player, bool, error) {
	if label == "" {
		if len(players) == 0 {
			return types.Player{}, false, nil
		}
		return players[0], true, nil
	}
	id, err := types.ParsePlayerLabel(label)
	if err != nil {
		return types.Player{}, false, err
	}
	for _, p := range players {
		if p.ID == id {
			return p, true, nil
		}
	}
	return types.Player{}, false, fmt.Errorf("%w: %d", service.ErrPlayerNotFound, id)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/hoops/internal/app"
	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/internal/domain/types"
	"github.com/okian/hoops/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	LatestGames(ctx context.Context) (*table.Table, error)
	Teams(ctx context.Context) ([]string, error)
	LastTen(ctx context.Context, team string) (types.LastTen, error)
	Players(ctx context.Context) ([]types.Player, error)
	CareerTotals(ctx context.Context, playerID int64, stats []types.Stat) (*table.Table, error)
	SeasonAverages(ctx context.Context, playerID int64) (*table.Table, error)
	FeaturedPlayer() int64
}

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	gamesHandler     *GamesHandler
	playersHandler   *PlayersHandler
	chartsHandler    *ChartsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	log := logger.Named("api")
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps, log),
		gamesHandler:     NewGamesHandler(deps),
		playersHandler:   NewPlayersHandler(deps),
		chartsHandler:    NewChartsHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /charts/career.svg", MetricsMiddleware(s.chartsHandler.HandleCareer, "chart_career"))
	mux.HandleFunc("GET /charts/form.svg", MetricsMiddleware(s.chartsHandler.HandleForm, "chart_form"))

	mux.HandleFunc("GET /api/games/latest", MetricsMiddleware(s.gamesHandler.HandleLatest, "api_games_latest"))
	mux.HandleFunc("GET /api/teams", MetricsMiddleware(s.gamesHandler.HandleTeams, "api_teams"))
	mux.HandleFunc("GET /api/teams/{team}/last10", MetricsMiddleware(s.gamesHandler.HandleLastTen, "api_team_last10"))
	mux.HandleFunc("GET /api/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "api_players"))
	mux.HandleFunc("GET /api/players/{id}/career", MetricsMiddleware(s.playersHandler.HandleCareer, "api_player_career"))
	mux.HandleFunc("GET /api/players/{id}/seasons", MetricsMiddleware(s.playersHandler.HandleSeasons, "api_player_seasons"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// tableResponse is the JSON shape of a table, optionally with its styles.
type tableResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]any    `json:"rows"`
	Styles  [][]string `json:"styles,omitempty"`
}

func newTableResponse(t *table.Table, styles [][]string) tableResponse {
	rows := t.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return tableResponse{Columns: t.Columns, Rows: rows, Styles: styles}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// classify maps an error kind onto an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound), errors.Is(err, service.ErrPlayerNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest), errors.Is(err, types.ErrInvalidPlayer):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/hoops/internal/domain/style"
)

// GamesHandler serves the games and teams JSON endpoints.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

type lastTenResponse struct {
	Team  string        `json:"team"`
	Wins  int64         `json:"wins"`
	Games tableResponse `json:"games"`
}

// HandleLatest handles GET /api/games/latest requests.
func (h *GamesHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	games, err := h.deps.LatestGames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	styles, err := style.WinningColors(games, "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTableResponse(games, styles.Cells))
}

// HandleTeams handles GET /api/teams requests.
func (h *GamesHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.Teams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if teams == nil {
		teams = []string{}
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleLastTen handles GET /api/teams/{team}/last10 requests.
func (h *GamesHandler) HandleLastTen(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	lt, err := h.deps.LastTen(r.Context(), team)
	if err != nil {
		writeError(w, err)
		return
	}
	styles, err := style.WinningColors(lt.Games, team)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lastTenResponse{
		Team:  lt.Team,
		Wins:  lt.Wins,
		Games: newTableResponse(lt.Games, styles.Cells),
	})
}

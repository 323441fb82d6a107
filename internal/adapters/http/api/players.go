// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"

	"github.com/okian/hoops/internal/domain/types"
)

// PlayersHandler serves the player JSON endpoints.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandlePlayers handles GET /api/players requests.
func (h *PlayersHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.deps.Players(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if players == nil {
		players = []types.Player{}
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleCareer handles GET /api/players/{id}/career?stat= requests.
func (h *PlayersHandler) HandleCareer(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := h.deps.CareerTotals(r.Context(), id, types.ParseStats(r.URL.Query()["stat"]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTableResponse(t, nil))
}

// HandleSeasons handles GET /api/players/{id}/seasons requests.
func (h *PlayersHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := h.deps.SeasonAverages(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTableResponse(t, nil))
}

func playerID(r *http.Request) (int64, error) {
	id, err := types.ParsePlayerLabel(r.PathValue("id"))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return id, nil
}

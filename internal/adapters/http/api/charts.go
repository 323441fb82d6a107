// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/okian/hoops/internal/adapters/chart"
	"github.com/okian/hoops/internal/domain/types"
	"github.com/okian/hoops/pkg/logger"
)

const contentTypeSVG = "image/svg+xml"

// ChartsHandler serves the SVG charts embedded in the dashboard.
type ChartsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies, log logger.Logger) *ChartsHandler {
	return &ChartsHandler{deps: deps, log: log}
}

// HandleCareer handles GET /charts/career.svg?player=&stat= requests.
func (h *ChartsHandler) HandleCareer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, err := types.ParsePlayerLabel(q.Get("player"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	totals, err := h.deps.CareerTotals(r.Context(), id, types.ParseStats(q["stat"]))
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.CareerArea(&buf, totals, "season_number"); err != nil {
		h.log.Error(r.Context(), "career chart failed", logger.Error(err), logger.Int64("player", id))
		writeError(w, err)
		return
	}
	writeSVG(w, &buf)
}

// HandleForm handles GET /charts/form.svg?team= requests.
func (h *ChartsHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if team == "" {
		writeError(w, fmt.Errorf("%w: missing team", ErrBadRequest))
		return
	}
	lt, err := h.deps.LastTen(r.Context(), team)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.FormStrip(&buf, lt.Games, team); err != nil {
		h.log.Error(r.Context(), "form chart failed", logger.Error(err), logger.String("team", team))
		writeError(w, err)
		return
	}
	writeSVG(w, &buf)
}

func writeSVG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentTypeSVG)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}

// Package service provides the dashboard queries the HTTP layer renders.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/okian/hoops/internal/adapters/store"
	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/internal/domain/types"
	"github.com/okian/hoops/pkg/logger"
)

// Dataset names, one per exported query.
const (
	DatasetLatestGames = "latest_games"
	DatasetLastTen     = "last_10_games"
	DatasetSeasonStats = "season_stats"
)

// DefaultFeaturedPlayer is LeBron James.
const DefaultFeaturedPlayer int64 = 237

// GameColumns is the projection shown for every games table.
var GameColumns = []string{
	"game_date",
	"home_team",
	"home_team_score",
	"visitor_team_score",
	"visitor_team",
	"season",
	"status",
	"home_team_win",
}

var seasonColumns = []string{
	"total_games",
	"avg_pts",
	"avg_reb",
	"avg_ast",
	"avg_blk",
	"avg_stl",
	"avg_turnover",
	"avg_fg_pct",
	"avg_fg3_pct",
	"avg_ft_pct",
}

// Service implements the dashboard queries over a store.
type Service struct {
	store      store.Querier
	featuredID int64
	logger     logger.Logger
	queries    atomic.Int64
}

// New constructs a Service reading from q.
func New(q store.Querier, opts ...Option) *Service {
	s := &Service{
		store:      q,
		featuredID: DefaultFeaturedPlayer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named("service")
	return s
}

// FeaturedPlayer returns the id listed first in Players.
func (s *Service) FeaturedPlayer() int64 { return s.featuredID }

// query runs q for the named operation. The store logs the SQL error; the
// operation name is added here.
func (s *Service) query(ctx context.Context, op, q string, args ...any) (*table.Table, error) {
	s.queries.Add(1)
	t, err := s.store.Query(ctx, q, args...)
	if err != nil {
		s.logger.Error(ctx, "dashboard query failed", logger.String("op", op), logger.Error(err))
		return nil, err
	}
	return t, nil
}

// LatestGames returns the most recent games across the league.
func (s *Service) LatestGames(ctx context.Context) (*table.Table, error) {
	return s.query(ctx, "latest_games", "SELECT * FROM "+s.store.Relation(DatasetLatestGames))
}

// Teams lists the teams that have a last-10 record, ordered by name.
func (s *Service) Teams(ctx context.Context) ([]string, error) {
	t, err := s.query(ctx, "teams", fmt.Sprintf(
		"SELECT DISTINCT team_name FROM %s WHERE team_name IS NOT NULL ORDER BY team_name",
		s.store.Relation(DatasetLastTen)))
	if err != nil {
		return nil, err
	}
	teams := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		teams = append(teams, table.Format(row[0]))
	}
	return teams, nil
}

// LastTen returns the last ten games of team and how many it won.
func (s *Service) LastTen(ctx context.Context, team string) (types.LastTen, error) {
	cols := append(append([]string(nil), GameColumns...), "total_wins_last_10")
	t, err := s.query(ctx, "last_ten", fmt.Sprintf("SELECT %s FROM %s WHERE team_name = ?",
		strings.Join(cols, ", "), s.store.Relation(DatasetLastTen)), team)
	if err != nil {
		return types.LastTen{}, err
	}
	if t.Len() == 0 {
		s.logger.Warn(ctx, "team not found", logger.String("team", team))
		return types.LastTen{}, fmt.Errorf("%w: %s", ErrTeamNotFound, team)
	}

	wins, _ := t.Value(0, "total_wins_last_10")
	n, _ := table.Int(wins)
	games, err := t.Select(GameColumns...)
	if err != nil {
		return types.LastTen{}, err
	}
	return types.LastTen{Team: team, Wins: n, Games: games}, nil
}

// Players lists every named player, featured player first, the rest
// ordered by label.
func (s *Service) Players(ctx context.Context) ([]types.Player, error) {
	t, err := s.query(ctx, "players", fmt.Sprintf(`SELECT DISTINCT
		CAST(player_id AS INTEGER) AS player_id,
		first_name || ' ' || last_name AS player_name
	FROM %s
	WHERE player_id IS NOT NULL AND first_name IS NOT NULL AND last_name IS NOT NULL
	ORDER BY player_name, player_id`, s.store.Relation(DatasetSeasonStats)))
	if err != nil {
		return nil, err
	}

	players := make([]types.Player, 0, t.Len())
	featured := -1
	for _, row := range t.Rows {
		id, ok := table.Int(row[0])
		if !ok {
			continue
		}
		name := table.Format(row[1])
		if id == s.featuredID && featured < 0 {
			featured = len(players)
		}
		players = append(players, types.Player{ID: id, Name: name, Label: types.PlayerLabel(name, id)})
	}
	if featured > 0 {
		p := players[featured]
		copy(players[1:featured+1], players[:featured])
		players[0] = p
	}
	return players, nil
}

// CareerTotals returns season_number and the selected career totals of a
// player, one row per season.
func (s *Service) CareerTotals(ctx context.Context, playerID int64, stats []types.Stat) (*table.Table, error) {
	cols := []string{"season_number"}
	for _, st := range stats {
		cols = append(cols, st.Column)
	}
	t, err := s.query(ctx, "career_totals", fmt.Sprintf("SELECT %s FROM %s WHERE player_id = ? ORDER BY season_number",
		strings.Join(cols, ", "), s.store.Relation(DatasetSeasonStats)), playerID)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		s.logger.Warn(ctx, "player not found", logger.Int64("player_id", playerID))
		return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
	}
	return t, nil
}

// SeasonAverages returns a player's per-season averages.
func (s *Service) SeasonAverages(ctx context.Context, playerID int64) (*table.Table, error) {
	t, err := s.query(ctx, "season_averages", fmt.Sprintf(`SELECT
		first_name || ' ' || last_name AS player_name,
		CAST(season AS TEXT) AS season,
		%s
	FROM %s
	WHERE player_id = ?
	ORDER BY season`, strings.Join(seasonColumns, ", "), s.store.Relation(DatasetSeasonStats)), playerID)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		s.logger.Warn(ctx, "player not found", logger.Int64("player_id", playerID))
		return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
	}
	return t, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	stats := map[string]any{
		"featuredPlayer": s.featuredID,
		"queries":        s.queries.Load(),
	}
	if src, ok := s.store.(interface{ Source() string }); ok {
		stats["source"] = src.Source()
	}
	return stats
}

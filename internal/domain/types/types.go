// Package types contains the dashboard values shared by the service and
// HTTP layers.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/hoops/internal/domain/table"
)

// ErrInvalidPlayer reports a player label without a numeric id.
var ErrInvalidPlayer = errors.New("invalid player label")

// Stat is a career total the player chart can plot.
type Stat struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Column string `json:"column"`
}

// Stats lists the selectable career totals in display order.
var Stats = []Stat{
	{Key: "pts", Label: "Points", Column: "career_pts"},
	{Key: "reb", Label: "Rebounds", Column: "career_reb"},
	{Key: "ast", Label: "Assists", Column: "career_ast"},
	{Key: "blk", Label: "Blocks", Column: "career_blk"},
	{Key: "stl", Label: "Steals", Column: "career_stl"},
}

// DefaultStats is the selection used when none was made.
var DefaultStats = []Stat{Stats[0]}

// ParseStats maps keys onto Stats, keeping display order. Unknown keys are
// dropped. No keys at all yields DefaultStats; keys that match nothing
// (e.g. a lone "") yield an empty selection.
func ParseStats(keys []string) []Stat {
	if len(keys) == 0 {
		return DefaultStats
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[strings.ToLower(strings.TrimSpace(k))] = true
	}
	out := make([]Stat, 0, len(Stats))
	for _, s := range Stats {
		if want[s.Key] {
			out = append(out, s)
		}
	}
	return out
}

// Player is one entry of the player dropdown.
type Player struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// PlayerLabel formats the dropdown label, e.g. "LeBron James ID: 237".
func PlayerLabel(name string, id int64) string {
	return fmt.Sprintf("%s ID: %d", name, id)
}

// ParsePlayerLabel extracts the id after the last "ID: ". A bare number is
// accepted as well.
func ParsePlayerLabel(label string) (int64, error) {
	s := strings.TrimSpace(label)
	if i := strings.LastIndex(s, "ID: "); i >= 0 {
		s = s[i+len("ID: "):]
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlayer, label)
	}
	return id, nil
}

// LastTen is a team's ten most recent games.
type LastTen struct {
	Team  string       `json:"team"`
	Wins  int64        `json:"wins"`
	Games *table.Table `json:"games"`
}

package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a collision-resistant identifier: a random UUID without dashes.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// newPickID is swapped out in tests that need deterministic pick ids.
var newPickID = NewID

// MaxTeamCount bounds the number of teams in one draft.
const MaxTeamCount = 64

// NewDraft builds a pending draft with teamCount sequentially named teams.
// players is attached as-is and must not be mutated by the caller afterwards.
func NewDraft(id, tournament, format string, teamCount int, players map[string]Player) (Draft, error) {
	if teamCount <= 0 {
		return Draft{}, fmt.Errorf("%w: teamCount must be positive, got %d", ErrValidation, teamCount)
	}
	if teamCount > MaxTeamCount {
		return Draft{}, fmt.Errorf("%w: teamCount must be at most %d, got %d", ErrValidation, MaxTeamCount, teamCount)
	}

	order := NewPickOrder(teamCount)
	teams := make(map[string]Team, teamCount)
	for i, tid := range order {
		teams[tid] = Team{ID: tid, Name: fmt.Sprintf("Team %d", i+1), Picks: []Pick{}}
	}
	if players == nil {
		players = map[string]Player{}
	}

	return Draft{
		ID:         id,
		Tournament: tournament,
		Format:     format,
		TeamCount:  teamCount,
		Teams:      teams,
		Players:    players,
		PickOrder:  order,
	}, nil
}

// Clone copies everything a command can change. Players is shared: the
// catalog is read-only once loaded.
func (d Draft) Clone() Draft {
	c := d
	c.Teams = make(map[string]Team, len(d.Teams))
	for id, t := range d.Teams {
		picks := make([]Pick, len(t.Picks))
		copy(picks, t.Picks)
		t.Picks = picks
		c.Teams[id] = t
	}
	c.PickOrder = append([]string(nil), d.PickOrder...)
	return c
}

func (d Draft) Status() Status {
	switch {
	case d.HasCompleted:
		return StatusCompleted
	case d.IsActive:
		return StatusActive
	default:
		return StatusPending
	}
}

// PickCount is the number of picks across all teams.
func (d Draft) PickCount() int {
	n := 0
	for _, t := range d.Teams {
		n += len(t.Picks)
	}
	return n
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

package engine

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")
var ErrValidation = errors.New("validation failed")
var ErrDuplicatePick = errors.New("player already drafted")
var ErrUnsupportedCommand = errors.New("unsupported command")

// ErrStateConflict is reserved for turn-order enforcement. Apply never
// returns it: any team may pick at any time.
var ErrStateConflict = errors.New("state conflict")

var ErrDraftNotFound = fmt.Errorf("draft %w", ErrNotFound)
var ErrTeamNotFound = fmt.Errorf("team %w", ErrNotFound)
var ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)

type Player struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Odds string `json:"odds" yaml:"odds"`
	Tier int    `json:"tier" yaml:"tier"`
}

type Pick struct {
	ID        string  `json:"id"`
	PlayerID  string  `json:"player_id"`
	TeamID    string  `json:"team_id"`
	Round     int     `json:"round"`
	CreatedBy *string `json:"created_by"`
}

type Team struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Owner *string `json:"owner"`
	Picks []Pick  `json:"picks"`
}

// Draft is the full snapshot of one draft. Values returned by Apply are
// never mutated afterwards, so they can be handed to any number of readers.
type Draft struct {
	ID               string            `json:"id"`
	Tournament       string            `json:"tournament"`
	Format           string            `json:"format"`
	TeamCount        int               `json:"teamCount"`
	Teams            map[string]Team   `json:"teams"`
	Players          map[string]Player `json:"players"`
	PickOrder        []string          `json:"pickOrder"`
	CurrentPickIndex int               `json:"currentPickIndex"`
	IsActive         bool              `json:"isActive"`
	HasCompleted     bool              `json:"hasCompleted"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type CommandType string

const (
	CmdSubmitPick  CommandType = "SubmitPick"
	CmdUpdateState CommandType = "UpdateState"
)

/*
	CmdSubmitPick  -> EvtPickMade -> EvtTurnAdvanced -> EvtDraftActivated (first pick only)
	CmdUpdateState -> EvtStateUpdated
*/

type Command struct {
	Type     CommandType
	TeamID   string
	PlayerID string
	ActorID  string

	// UpdateState only; nil leaves the flag untouched.
	IsActive     *bool
	HasCompleted *bool
}

type EventType string

const (
	EvtPickMade       EventType = "PickMade"
	EvtTurnAdvanced   EventType = "TurnAdvanced"
	EvtDraftActivated EventType = "DraftActivated"
	EvtStateUpdated   EventType = "StateUpdated"
)

type Event struct {
	Type     EventType
	TeamID   string
	PlayerID string
	Round    int
	Cursor   int
}

// Apply validates cmd against d and returns the resulting draft. On error the
// returned draft is d itself, untouched.
func Apply(d Draft, cmd Command) ([]Event, Draft, error) {
	switch cmd.Type {
	case CmdSubmitPick:
		return submitPick(d, cmd)
	case CmdUpdateState:
		next := d.Clone()
		if cmd.IsActive != nil {
			next.IsActive = *cmd.IsActive
		}
		if cmd.HasCompleted != nil {
			next.HasCompleted = *cmd.HasCompleted
		}
		return []Event{{Type: EvtStateUpdated, Cursor: next.CurrentPickIndex}}, next, nil
	default:
		return nil, d, ErrUnsupportedCommand
	}
}

func submitPick(d Draft, cmd Command) ([]Event, Draft, error) {
	team, ok := d.Teams[cmd.TeamID]
	if !ok {
		return nil, d, ErrTeamNotFound
	}
	if _, ok := d.Players[cmd.PlayerID]; !ok {
		return nil, d, ErrPlayerNotFound
	}
	if hasPick(d, cmd.PlayerID) {
		return nil, d, ErrDuplicatePick
	}

	pick := Pick{
		ID:        newPickID(),
		PlayerID:  cmd.PlayerID,
		TeamID:    team.ID,
		Round:     len(team.Picks) + 1,
		CreatedBy: optional(cmd.ActorID),
	}

	next := d.Clone()
	team = next.Teams[cmd.TeamID]
	team.Picks = append(team.Picks, pick)
	next.Teams[cmd.TeamID] = team
	next.CurrentPickIndex = advance(next.CurrentPickIndex, len(next.PickOrder))

	events := []Event{
		{Type: EvtPickMade, TeamID: team.ID, PlayerID: pick.PlayerID, Round: pick.Round},
		{Type: EvtTurnAdvanced, Cursor: next.CurrentPickIndex},
	}
	if !next.IsActive {
		events = append(events, Event{Type: EvtDraftActivated})
	}
	next.IsActive = true

	return events, next, nil
}

func hasPick(d Draft, playerID string) bool {
	for _, team := range d.Teams {
		for _, p := range team.Picks {
			if p.PlayerID == playerID {
				return true
			}
		}
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

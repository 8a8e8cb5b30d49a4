package types

import (
	"bytes"
	"encoding/json"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
)

// Client -> server message types.
const (
	MsgJoinDraft  = "join_draft"
	MsgLeaveDraft = "leave_draft"
	MsgSubmitPick = "submit_pick"
)

// Server -> client message types.
const (
	MsgDraftState = "draft_state"
	MsgUserJoined = "user_joined"
	MsgUserLeft   = "user_left"
	MsgError      = "error"
)

type ClientMessage struct {
	Type     string `json:"type"`
	DraftID  string `json:"draftId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	TeamID   ID     `json:"teamId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

// ID is an identifier a client may send as a JSON string or number.
// Numbers keep their literal text, so 1 and "1" name the same team.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type ServerMessage struct {
	Type    string        `json:"type"` // "draft_state" | "user_joined" | "user_left" | "error"
	DraftID string        `json:"draftId,omitempty"`
	Version int           `json:"version,omitempty"`
	State   *engine.Draft `json:"state,omitempty"`
	UserID  string        `json:"userId,omitempty"`
	Error   string        `json:"error,omitempty"`
	Message string        `json:"message,omitempty"` // same text as Error
}

func StateMessage(version int, d engine.Draft) ServerMessage {
	return ServerMessage{Type: MsgDraftState, DraftID: d.ID, Version: version, State: &d}
}

func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: MsgError, Error: err.Error(), Message: err.Error()}
}

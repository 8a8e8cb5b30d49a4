// Package gateway turns observer events into draft commands. Failures are
// answered to the originating connection only; successes reach the room
// through the draft's lobby.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
	"github.com/DoyleJ11/golf-draft-backend/internal/hub"
	"github.com/DoyleJ11/golf-draft-backend/internal/lobby"
	"github.com/DoyleJ11/golf-draft-backend/internal/room"
	"github.com/DoyleJ11/golf-draft-backend/internal/types"
)

var ErrMissingField = fmt.Errorf("%w: missing field", engine.ErrValidation)
var ErrUnknownType = fmt.Errorf("%w: unknown message type", engine.ErrValidation)

type Gateway struct {
	hub   *hub.Hub
	rooms *room.Broadcaster
	log   *zap.Logger
}

func New(h *hub.Hub, log *zap.Logger) *Gateway {
	return &Gateway{hub: h, rooms: h.Rooms(), log: log}
}

// OnJoin subscribes sink to the draft and sends it the current snapshot.
func (g *Gateway) OnJoin(ctx context.Context, draftID, participantID string, sink room.Sink) error {
	lb, err := g.lookup(ctx, draftID)
	if err != nil {
		return g.reject(sink, draftID, err)
	}
	if _, err := lb.Join(ctx, participantID, sink); err != nil {
		return g.reject(sink, draftID, err)
	}
	return nil
}

// OnLeave is a no-op for unknown drafts.
func (g *Gateway) OnLeave(ctx context.Context, draftID, participantID string, sink room.Sink) error {
	lb, err := g.lookup(ctx, draftID)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return nil
		}
		return err
	}
	return lb.Leave(ctx, participantID, sink.ID())
}

// OnSubmitPick forwards the pick to the draft's owner. The accepted snapshot
// is broadcast by the owner, submitter included; there is no separate ack.
func (g *Gateway) OnSubmitPick(ctx context.Context, draftID, teamID, playerID, participantID string, sink room.Sink) error {
	lb, err := g.lookup(ctx, draftID)
	if err != nil {
		return g.reject(sink, draftID, err)
	}
	if teamID == "" || playerID == "" {
		return g.reject(sink, draftID, ErrMissingField)
	}
	if _, err := lb.SubmitPick(ctx, teamID, playerID, participantID); err != nil {
		return g.reject(sink, draftID, err)
	}
	return nil
}

// Dispatch routes one decoded client message.
func (g *Gateway) Dispatch(ctx context.Context, msg types.ClientMessage, sink room.Sink) error {
	switch msg.Type {
	case types.MsgJoinDraft:
		return g.OnJoin(ctx, msg.DraftID, msg.UserID, sink)
	case types.MsgLeaveDraft:
		return g.OnLeave(ctx, msg.DraftID, msg.UserID, sink)
	case types.MsgSubmitPick:
		return g.OnSubmitPick(ctx, msg.DraftID, string(msg.TeamID), msg.PlayerID, msg.UserID, sink)
	default:
		return g.reject(sink, msg.DraftID, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type))
	}
}

func (g *Gateway) lookup(ctx context.Context, draftID string) (*lobby.Lobby, error) {
	if draftID == "" {
		return nil, engine.ErrDraftNotFound
	}
	return g.hub.Get(ctx, draftID)
}

func (g *Gateway) reject(sink room.Sink, draftID string, err error) error {
	msg := types.ErrorMessage(err)
	msg.DraftID = draftID
	g.rooms.Unicast(sink, msg)
	g.log.Debug("request rejected",
		zap.String("draft_id", draftID),
		zap.String("sink_id", sink.ID()),
		zap.Error(err))
	return err
}

package lobby

import (
	"context"

	"github.com/DoyleJ11/golf-draft-backend/internal/room"
)

// The helpers below wrap the inbox protocol for callers that want a reply.
// ctx only bounds how long the caller waits; a queued command still runs.

func (l *Lobby) Join(ctx context.Context, participantID string, sink room.Sink) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := l.send(ctx, Join{ParticipantID: participantID, Sink: sink, Reply: reply}); err != nil {
		return Snapshot{}, err
	}
	return await(ctx, l, reply)
}

func (l *Lobby) Leave(ctx context.Context, participantID, sinkID string) error {
	return l.send(ctx, Leave{ParticipantID: participantID, SinkID: sinkID})
}

func (l *Lobby) SubmitPick(ctx context.Context, teamID, playerID, participantID string) (Snapshot, error) {
	reply := make(chan Result, 1)
	msg := SubmitPick{TeamID: teamID, PlayerID: playerID, ParticipantID: participantID, Reply: reply}
	if err := l.send(ctx, msg); err != nil {
		return Snapshot{}, err
	}
	res, err := await(ctx, l, reply)
	if err != nil {
		return Snapshot{}, err
	}
	return res.Snapshot, res.Err
}

func (l *Lobby) UpdateState(ctx context.Context, isActive, hasCompleted *bool) (Snapshot, error) {
	reply := make(chan Result, 1)
	if err := l.send(ctx, UpdateState{IsActive: isActive, HasCompleted: hasCompleted, Reply: reply}); err != nil {
		return Snapshot{}, err
	}
	res, err := await(ctx, l, reply)
	if err != nil {
		return Snapshot{}, err
	}
	return res.Snapshot, res.Err
}

func (l *Lobby) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	return await(ctx, l, reply)
}

func (l *Lobby) send(ctx context.Context, m Msg) error {
	select {
	case l.inbox <- m:
		return nil
	case <-l.done:
		return ErrLobbyClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await[T any](ctx context.Context, l *Lobby, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-l.done:
		// The loop may have answered just before exiting.
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrLobbyClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

package lobby

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
	"github.com/DoyleJ11/golf-draft-backend/internal/room"
	"github.com/DoyleJ11/golf-draft-backend/internal/types"
)

var ErrLobbyClosed = errors.New("lobby closed")

type Msg interface{ isLobbyMsg() }

type Join struct {
	ParticipantID string
	Sink          room.Sink
	Reply         chan Snapshot // optional
}

func (Join) isLobbyMsg() {}

type Leave struct {
	ParticipantID string
	SinkID        string
}

func (Leave) isLobbyMsg() {}

type SubmitPick struct {
	TeamID        string
	PlayerID      string
	ParticipantID string
	Reply         chan Result // optional
}

func (SubmitPick) isLobbyMsg() {}

type UpdateState struct {
	IsActive     *bool
	HasCompleted *bool
	Reply        chan Result // optional
}

func (UpdateState) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Snapshot struct {
	Version int
	State   engine.Draft
}

type Result struct {
	Snapshot Snapshot
	Err      error
}

type View struct {
	Version    int
	NumClients int
	State      engine.Draft
}

// Saver receives every committed snapshot. Implementations must not block.
type Saver interface {
	Enqueue(d engine.Draft)
}

// Lobby owns one draft. Every mutation and every message to the draft's room
// happens on the loop goroutine, so broadcasts leave in commit order.
type Lobby struct {
	id      string
	inbox   chan Msg
	state   engine.Draft
	version int
	rooms   *room.Broadcaster
	saver   Saver
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewLobby(parent context.Context, initial engine.Draft, rooms *room.Broadcaster, saver Saver, log *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		id:      initial.ID,
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		version: 0,
		rooms:   rooms,
		saver:   saver,
		log:     log.With(zap.String("draft_id", initial.ID)),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	if saver != nil {
		saver.Enqueue(initial)
	}

	go l.loop()
	return l
}

func (l *Lobby) ID() string { return l.id }

func (l *Lobby) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.rooms.Join(l.id, msg.Sink)
				snap := Snapshot{Version: l.version, State: l.state}
				l.rooms.Unicast(msg.Sink, types.StateMessage(snap.Version, snap.State))
				l.rooms.BroadcastExcept(l.id, types.ServerMessage{
					Type:    types.MsgUserJoined,
					DraftID: l.id,
					UserID:  msg.ParticipantID,
				}, msg.Sink.ID())
				l.log.Debug("participant joined",
					zap.String("participant_id", msg.ParticipantID),
					zap.Int("members", l.rooms.Members(l.id)))
				if msg.Reply != nil {
					msg.Reply <- snap
				}

			case Leave:
				l.rooms.Leave(l.id, msg.SinkID)
				l.rooms.Broadcast(l.id, types.ServerMessage{
					Type:    types.MsgUserLeft,
					DraftID: l.id,
					UserID:  msg.ParticipantID,
				})
				l.log.Debug("participant left", zap.String("participant_id", msg.ParticipantID))

			case SubmitPick:
				res := l.apply(engine.Command{
					Type:     engine.CmdSubmitPick,
					TeamID:   msg.TeamID,
					PlayerID: msg.PlayerID,
					ActorID:  msg.ParticipantID,
				})
				if msg.Reply != nil {
					msg.Reply <- res
				}

			case UpdateState:
				res := l.apply(engine.Command{
					Type:         engine.CmdUpdateState,
					IsActive:     msg.IsActive,
					HasCompleted: msg.HasCompleted,
				})
				if msg.Reply != nil {
					msg.Reply <- res
				}

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: l.rooms.Members(l.id),
					State:      l.state,
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// apply runs cmd against the current state and, on success, commits and
// broadcasts the new snapshot to the whole room.
func (l *Lobby) apply(cmd engine.Command) Result {
	events, next, err := engine.Apply(l.state, cmd)
	if err != nil {
		l.log.Info("command rejected",
			zap.String("command", string(cmd.Type)),
			zap.String("team_id", cmd.TeamID),
			zap.String("player_id", cmd.PlayerID),
			zap.Error(err))
		return Result{Snapshot: Snapshot{Version: l.version, State: l.state}, Err: err}
	}

	l.state = next
	l.version++
	if l.saver != nil {
		l.saver.Enqueue(next)
	}
	for _, evt := range events {
		l.log.Info("draft event",
			zap.String("event", string(evt.Type)),
			zap.String("team_id", evt.TeamID),
			zap.String("player_id", evt.PlayerID),
			zap.Int("round", evt.Round),
			zap.Int("cursor", evt.Cursor),
			zap.Int("version", l.version))
	}

	snap := Snapshot{Version: l.version, State: l.state}
	l.rooms.Broadcast(l.id, types.StateMessage(snap.Version, snap.State))
	return Result{Snapshot: snap}
}

func (l *Lobby) shutdown() {
	l.rooms.Dissolve(l.id)
	l.cancel()
}

// Expose the inbox so tests or the gateway can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Done is closed once the loop has exited.
func (l *Lobby) Done() <-chan struct{} { return l.done }

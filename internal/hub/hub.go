package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/catalog"
	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
	"github.com/DoyleJ11/golf-draft-backend/internal/lobby"
	"github.com/DoyleJ11/golf-draft-backend/internal/room"
)

const (
	DefaultTournament = "Masters"
	DefaultFormat     = "Snake"
	DefaultTeamCount  = 4
)

var ErrHubClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

type CreateDraft struct {
	Tournament string
	Format     string
	TeamCount  int
	SetDefault bool
	Reply      chan CreateResult
}

type CreateResult struct {
	Lobby *lobby.Lobby
	Err   error
}

type GetLobby struct {
	ID    string
	Reply chan *lobby.Lobby
}

// GetDefault creates the default draft on first use.
type GetDefault struct {
	Reply chan *lobby.Lobby
}

type CountLobbies struct {
	Reply chan int
}

type ShutdownHub struct{}

func (CreateDraft) isHubMsg()  {}
func (GetLobby) isHubMsg()     {}
func (GetDefault) isHubMsg()   {}
func (CountLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg()  {}

type Deps struct {
	Players map[string]engine.Player // shared read-only by every draft
	Rooms   *room.Broadcaster
	Saver   lobby.Saver
	Log     *zap.Logger
}

// Hub is the draft registry. Only its loop goroutine touches the lobby map
// and the default pointer.
type Hub struct {
	inbox     chan HubMsg
	lobbies   map[string]*lobby.Lobby
	defaultID string
	deps      Deps
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewHub(parent context.Context, deps Deps) *Hub {
	if deps.Players == nil {
		deps.Players = catalog.Default()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Rooms == nil {
		deps.Rooms = room.NewBroadcaster(deps.Log)
	}

	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Rooms() *room.Broadcaster { return h.deps.Rooms }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateDraft:
				lb, err := h.create(msg.Tournament, msg.Format, msg.TeamCount)
				if err == nil && msg.SetDefault {
					h.defaultID = lb.ID()
				}
				msg.Reply <- CreateResult{Lobby: lb, Err: err}

			case GetLobby:
				msg.Reply <- h.lobbies[msg.ID] // May be nil

			case GetDefault:
				if lb := h.lobbies[h.defaultID]; lb != nil {
					msg.Reply <- lb
					break
				}
				lb, err := h.create(DefaultTournament, DefaultFormat, DefaultTeamCount)
				if err != nil {
					// Only reachable with a broken default configuration.
					h.deps.Log.Error("failed to create default draft", zap.Error(err))
				}
				msg.Reply <- lb

			case CountLobbies:
				msg.Reply <- len(h.lobbies)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) create(tournament, format string, teamCount int) (*lobby.Lobby, error) {
	id := engine.NewID()
	for h.lobbies[id] != nil {
		h.deps.Log.Warn("collision on draft id, regenerating")
		id = engine.NewID()
	}

	d, err := engine.NewDraft(id, tournament, format, teamCount, h.deps.Players)
	if err != nil {
		return nil, err
	}

	lb := lobby.NewLobby(h.ctx, d, h.deps.Rooms, h.deps.Saver, h.deps.Log)
	h.lobbies[id] = lb
	if h.defaultID == "" {
		h.defaultID = id
	}
	h.deps.Log.Info("draft created",
		zap.String("draft_id", id),
		zap.String("tournament", tournament),
		zap.String("format", format),
		zap.Int("team_count", teamCount),
		zap.Bool("default", h.defaultID == id))
	return lb, nil
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		select {
		case lb.Inbox() <- lobby.Shutdown{}:
		case <-lb.Done():
		}
	}
	clear(h.lobbies)
	h.cancel()
}

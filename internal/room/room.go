// Package room tracks which connections observe which draft and fans
// messages out to them.
package room

import (
	"sync"

	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/types"
)

// Sink is one observer connection. Send must not block; a sink that cannot
// take a message returns an error instead.
type Sink interface {
	ID() string
	Send(msg types.ServerMessage) error
}

type Broadcaster struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Sink
	log   *zap.Logger
}

func NewBroadcaster(log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		rooms: make(map[string]map[string]Sink),
		log:   log,
	}
}

// Join adds sink to the draft's room. Joining twice keeps a single membership.
func (b *Broadcaster) Join(draftID string, sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()

	members := b.rooms[draftID]
	if members == nil {
		members = make(map[string]Sink)
		b.rooms[draftID] = members
	}
	members[sink.ID()] = sink
}

// Leave reports whether the sink was a member.
func (b *Broadcaster) Leave(draftID, sinkID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	members := b.rooms[draftID]
	if _, ok := members[sinkID]; !ok {
		return false
	}
	delete(members, sinkID)
	if len(members) == 0 {
		delete(b.rooms, draftID)
	}
	return true
}

// Dissolve drops every membership of the draft's room.
func (b *Broadcaster) Dissolve(draftID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rooms, draftID)
}

func (b *Broadcaster) Members(draftID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[draftID])
}

func (b *Broadcaster) IsMember(draftID, sinkID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.rooms[draftID][sinkID]
	return ok
}

// Broadcast delivers msg to every member and returns how many took it.
func (b *Broadcaster) Broadcast(draftID string, msg types.ServerMessage) int {
	return b.BroadcastExcept(draftID, msg, "")
}

// BroadcastExcept skips the member whose id is excludeID.
func (b *Broadcaster) BroadcastExcept(draftID string, msg types.ServerMessage, excludeID string) int {
	delivered := 0
	for _, sink := range b.snapshot(draftID) {
		if sink.ID() == excludeID {
			continue
		}
		if b.deliver(draftID, sink, msg) {
			delivered++
		}
	}
	return delivered
}

func (b *Broadcaster) Unicast(sink Sink, msg types.ServerMessage) bool {
	return b.deliver(msg.DraftID, sink, msg)
}

// snapshot copies the member list so sends happen without holding the lock.
func (b *Broadcaster) snapshot(draftID string) []Sink {
	b.mu.RLock()
	defer b.mu.RUnlock()

	members := b.rooms[draftID]
	out := make([]Sink, 0, len(members))
	for _, s := range members {
		out = append(out, s)
	}
	return out
}

func (b *Broadcaster) deliver(draftID string, sink Sink, msg types.ServerMessage) bool {
	if err := sink.Send(msg); err != nil {
		b.log.Warn("delivery failed",
			zap.String("draft_id", draftID),
			zap.String("sink_id", sink.ID()),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		return false
	}
	return true
}

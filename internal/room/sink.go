package room

import (
	"errors"
	"sync"

	"github.com/DoyleJ11/golf-draft-backend/internal/types"
)

var ErrSinkFull = errors.New("sink buffer full")
var ErrSinkClosed = errors.New("sink closed")

// ChanSink buffers messages for a single writer goroutine. Once the buffer
// is full further messages are rejected rather than queued.
type ChanSink struct {
	id     string
	mu     sync.Mutex
	out    chan types.ServerMessage
	closed bool
}

func NewChanSink(id string, buffer int) *ChanSink {
	return &ChanSink{id: id, out: make(chan types.ServerMessage, buffer)}
}

func (s *ChanSink) ID() string { return s.id }

func (s *ChanSink) Send(msg types.ServerMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	select {
	case s.out <- msg:
		return nil
	default:
		return ErrSinkFull
	}
}

// Out is drained by the connection's writer; it is closed by Close.
func (s *ChanSink) Out() <-chan types.ServerMessage { return s.out }

func (s *ChanSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.out)
	}
}

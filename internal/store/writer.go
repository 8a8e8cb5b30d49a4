package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
)

// Writer saves snapshots on its own goroutine so draft owners never wait on
// the store. Every snapshot is a full draft, so a dropped write is repaired
// by the next one for the same id.
type Writer struct {
	store   Store
	queue   chan engine.Draft
	timeout time.Duration
	log     *zap.Logger
}

func NewWriter(s Store, buffer int, log *zap.Logger) *Writer {
	return &Writer{
		store:   s,
		queue:   make(chan engine.Draft, buffer),
		timeout: 5 * time.Second,
		log:     log,
	}
}

// Enqueue never blocks; when the queue is full the snapshot is dropped.
func (w *Writer) Enqueue(d engine.Draft) {
	select {
	case w.queue <- d:
	default:
		w.log.Warn("persist queue full, dropping snapshot", zap.String("draft_id", d.ID))
	}
}

// Run saves queued snapshots until ctx is done, then flushes what is queued.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case d := <-w.queue:
			w.save(d)
		case <-ctx.Done():
			for {
				select {
				case d := <-w.queue:
					w.save(d)
				default:
					return nil
				}
			}
		}
	}
}

func (w *Writer) save(d engine.Draft) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.store.Save(ctx, d); err != nil {
		w.log.Error("failed to persist draft", zap.String("draft_id", d.ID), zap.Error(err))
	}
}

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/DoyleJ11/golf-draft-backend/internal/gateway"
	"github.com/DoyleJ11/golf-draft-backend/internal/room"
	"github.com/DoyleJ11/golf-draft-backend/internal/types"
)

var errBadJSON = errors.New("bad json")

type Options struct {
	OriginPatterns []string
	ReadTimeout    time.Duration // idle limit between client frames
	WriteTimeout   time.Duration
	SendBuffer     int
	ReadLimit      int64
}

func DefaultOptions() Options {
	return Options{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 3 * time.Second,
		SendBuffer:   32,
		ReadLimit:    4096,
	}
}

func Handler(g *gateway.Gateway, opts Options, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(opts.ReadLimit)

		sink := room.NewChanSink(uuid.NewString(), opts.SendBuffer)
		clog := log.With(zap.String("conn_id", sink.ID()))
		clog.Debug("connection opened")

		// draft id -> participant id, for cleanup on disconnect
		joined := make(map[string]string)
		defer func() {
			for draftID, userID := range joined {
				ctx, cancel := context.WithTimeout(context.Background(), opts.WriteTimeout)
				_ = g.OnLeave(ctx, draftID, userID, sink)
				cancel()
			}
			sink.Close()
			clog.Debug("connection closed")
		}()

		// Writer goroutine
		connCtx, connCancel := context.WithCancel(r.Context())
		defer connCancel()
		go func() {
			for msg := range sink.Out() {
				ctx, cancel := context.WithTimeout(connCtx, opts.WriteTimeout)
				err := wsjson.Write(ctx, conn, msg)
				cancel()
				if err != nil {
					clog.Debug("write failed", zap.Error(err))
					connCancel()
					return
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(connCtx, opts.ReadTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = sink.Send(types.ErrorMessage(errBadJSON))
				continue
			}

			if err := g.Dispatch(connCtx, cm, sink); err != nil {
				continue
			}
			switch cm.Type {
			case types.MsgJoinDraft:
				joined[cm.DraftID] = cm.UserID
			case types.MsgLeaveDraft:
				delete(joined, cm.DraftID)
			}
		}
	}
}

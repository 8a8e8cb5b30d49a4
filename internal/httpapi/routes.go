package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/gateway"
	"github.com/DoyleJ11/golf-draft-backend/internal/hub"
	"github.com/DoyleJ11/golf-draft-backend/internal/ws"
)

type Options struct {
	AllowedOrigins []string
	WS             ws.Options
}

func SetupRoutes(h *hub.Hub, g *gateway.Gateway, opts Options, log *zap.Logger) http.Handler {
	a := &api{hub: h, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	// Public routes
	r.Get("/", Root)
	r.Get("/api/health", Healthz)
	r.Route("/api/drafts", func(r chi.Router) {
		r.Post("/", a.createDraft)
		r.Get("/default", a.getDefaultDraft)
		r.Get("/{draftID}", a.getDraft)
		r.Patch("/{draftID}/state", a.updateState)
		r.Get("/{draftID}/export", a.exportPicks)
	})
	r.Get("/ws", ws.Handler(g, opts.WS, log))

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
		},
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

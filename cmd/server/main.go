package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/golf-draft-backend/internal/catalog"
	"github.com/DoyleJ11/golf-draft-backend/internal/config"
	"github.com/DoyleJ11/golf-draft-backend/internal/gateway"
	"github.com/DoyleJ11/golf-draft-backend/internal/httpapi"
	"github.com/DoyleJ11/golf-draft-backend/internal/hub"
	"github.com/DoyleJ11/golf-draft-backend/internal/logging"
	"github.com/DoyleJ11/golf-draft-backend/internal/room"
	"github.com/DoyleJ11/golf-draft-backend/internal/store"
	"github.com/DoyleJ11/golf-draft-backend/internal/ws"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Development(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	players := catalog.Default()
	if cfg.CatalogPath != "" {
		if players, err = catalog.Load(cfg.CatalogPath); err != nil {
			return err
		}
	}

	var snapshots store.Store = store.NewMemory()
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(cfg.DatabaseURL, cfg.Development())
		if err != nil {
			return err
		}
		defer pg.Close()
		snapshots = pg
	}
	writer := store.NewWriter(snapshots, 256, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rooms := room.NewBroadcaster(log)
	h := newHub(hub.Deps{Players: players, Rooms: rooms, Saver: writer, Log: log})
	defer h.Shutdown()

	// Have a default draft ready before the first client arrives.
	if _, err := h.Default(ctx); err != nil {
		return err
	}

	wsOpts := ws.DefaultOptions()
	wsOpts.OriginPatterns = cfg.AllowedOrigins
	handler := httpapi.SetupRoutes(h, gateway.New(h, log), httpapi.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		WS:             wsOpts,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.Int("players", len(players)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return writer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newHub is not tied to the signal context: drafts keep serving while the
// HTTP server drains, and stop only when run returns.
func newHub(deps hub.Deps) *hub.Hub {
	return hub.NewHub(context.Background(), deps)
}

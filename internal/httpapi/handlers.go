package httpapi

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
	"github.com/DoyleJ11/golf-draft-backend/internal/hub"
	"github.com/DoyleJ11/golf-draft-backend/internal/lobby"
)

type api struct {
	hub *hub.Hub
	log *zap.Logger
}

type createDraftRequest struct {
	Tournament *string `json:"tournament"`
	Format     *string `json:"format"`
	TeamCount  *int    `json:"teamCount"`
	SetDefault bool    `json:"setDefault"`
}

func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "golf-draft-backend"})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) createDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	p := hub.CreateParams{
		Tournament: hub.DefaultTournament,
		Format:     hub.DefaultFormat,
		TeamCount:  hub.DefaultTeamCount,
		SetDefault: req.SetDefault,
	}
	if req.Tournament != nil {
		p.Tournament = *req.Tournament
	}
	if req.Format != nil {
		p.Format = *req.Format
	}
	if req.TeamCount != nil {
		p.TeamCount = *req.TeamCount
	}

	lb, err := a.hub.Create(r.Context(), p)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeLobby(w, r, lb, http.StatusCreated)
}

func (a *api) getDraft(w http.ResponseWriter, r *http.Request) {
	lb, err := a.hub.Get(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeLobby(w, r, lb, http.StatusOK)
}

func (a *api) getDefaultDraft(w http.ResponseWriter, r *http.Request) {
	lb, err := a.hub.Default(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeLobby(w, r, lb, http.StatusOK)
}

// updateState accepts any JSON value for either flag and coerces it to a
// boolean by truthiness; absent keys leave the flag unchanged.
func (a *api) updateState(w http.ResponseWriter, r *http.Request) {
	lb, err := a.hub.Get(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	var body map[string]any
	if err := decodeBody(r, &body); err != nil {
		a.writeError(w, err)
		return
	}
	var isActive, hasCompleted *bool
	if v, ok := body["isActive"]; ok {
		b := truthy(v)
		isActive = &b
	}
	if v, ok := body["hasCompleted"]; ok {
		b := truthy(v)
		hasCompleted = &b
	}

	snap, err := lb.UpdateState(r.Context(), isActive, hasCompleted)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeSnapshot(w, http.StatusOK, snap)
}

// exportPicks writes every pick as CSV, one row per pick, teams in pick order.
func (a *api) exportPicks(w http.ResponseWriter, r *http.Request) {
	lb, err := a.hub.Get(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	view, err := lb.State(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	d := view.State

	filename := fmt.Sprintf("%s_draft_%s.csv",
		strings.Join(strings.Fields(d.Tournament), "_"), time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := writePicksCSV(w, d); err != nil {
		a.log.Warn("csv export failed", zap.String("draft_id", d.ID), zap.Error(err))
	}
}

func writePicksCSV(w io.Writer, d engine.Draft) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Team", "Tier", "Player", "Odds"}); err != nil {
		return err
	}
	for _, tid := range d.PickOrder {
		team := d.Teams[tid]
		picks := append([]engine.Pick(nil), team.Picks...)
		sort.SliceStable(picks, func(i, j int) bool {
			return d.Players[picks[i].PlayerID].Tier < d.Players[picks[j].PlayerID].Tier
		})
		for _, p := range picks {
			player := d.Players[p.PlayerID]
			row := []string{team.Name, "Tier " + strconv.Itoa(player.Tier), player.Name, player.Odds}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (a *api) writeLobby(w http.ResponseWriter, r *http.Request, lb *lobby.Lobby, status int) {
	view, err := lb.State(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeSnapshot(w, status, lobby.Snapshot{Version: view.Version, State: view.State})
}

func writeSnapshot(w http.ResponseWriter, status int, snap lobby.Snapshot) {
	w.Header().Set("X-Draft-Version", strconv.Itoa(snap.Version))
	writeJSON(w, status, snap.State)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var errBadBody = fmt.Errorf("%w: malformed JSON body", engine.ErrValidation)

// decodeBody treats an empty body as an empty object.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errBadBody
}

func (a *api) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrDuplicatePick), errors.Is(err, engine.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, hub.ErrHubClosed), errors.Is(err, lobby.ErrLobbyClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

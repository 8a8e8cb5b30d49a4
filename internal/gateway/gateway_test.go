package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
	"github.com/DoyleJ11/golf-draft-backend/internal/hub"
	"github.com/DoyleJ11/golf-draft-backend/internal/room"
	"github.com/DoyleJ11/golf-draft-backend/internal/types"
)

func recvMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) types.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("sink closed unexpectedly")
		}
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{}
	}
}

func recvNoMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) {
	t.Helper()
	select {
	case m := <-ch:
		t.Fatalf("expected no message within %v, but got: %+v", within, m)
	case <-time.After(within):
	}
}

func setup(t *testing.T) (*Gateway, *hub.Hub, string) {
	t.Helper()
	h := hub.NewHub(context.Background(), hub.Deps{Log: zap.NewNop()})
	t.Cleanup(h.Shutdown)

	lb, err := h.Create(context.Background(), hub.CreateParams{Tournament: "Masters", Format: "Snake", TeamCount: 4})
	require.NoError(t, err)
	return New(h, zap.NewNop()), h, lb.ID()
}

func join(t *testing.T, g *Gateway, draftID, user string) *room.ChanSink {
	t.Helper()
	sink := room.NewChanSink("conn-"+user, 16)
	require.NoError(t, g.OnJoin(context.Background(), draftID, user, sink))
	msg := recvMsg(t, sink.Out(), 100*time.Millisecond)
	require.Equal(t, types.MsgDraftState, msg.Type)
	return sink
}

func TestOnJoin_UnknownDraft(t *testing.T) {
	g, h, draftID := setup(t)
	ctx := context.Background()
	watcher := join(t, g, draftID, "watcher")

	sink := room.NewChanSink("conn-x", 4)
	err := g.OnJoin(ctx, "nope", "x", sink)
	require.ErrorIs(t, err, engine.ErrDraftNotFound)

	msg := recvMsg(t, sink.Out(), 100*time.Millisecond)
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, "draft not found", msg.Error)
	recvNoMsg(t, sink.Out(), 30*time.Millisecond)
	recvNoMsg(t, watcher.Out(), 30*time.Millisecond)

	assert.Equal(t, 0, h.Rooms().Members("nope"))
	assert.Equal(t, 1, h.Rooms().Members(draftID))
}

func TestOnJoin_AnnouncesToOthersOnly(t *testing.T) {
	g, _, draftID := setup(t)
	alice := join(t, g, draftID, "alice")
	bob := join(t, g, draftID, "bob")

	msg := recvMsg(t, alice.Out(), 100*time.Millisecond)
	assert.Equal(t, types.MsgUserJoined, msg.Type)
	assert.Equal(t, "bob", msg.UserID)
	assert.Equal(t, draftID, msg.DraftID)
	recvNoMsg(t, bob.Out(), 30*time.Millisecond)
}

func TestOnSubmitPick_BroadcastsToWholeRoom(t *testing.T) {
	g, _, draftID := setup(t)
	ctx := context.Background()
	alice := join(t, g, draftID, "alice")
	bob := join(t, g, draftID, "bob")
	recvMsg(t, alice.Out(), 100*time.Millisecond) // bob joined

	require.NoError(t, g.OnSubmitPick(ctx, draftID, "1", "jon-rahm", "alice", alice))

	for _, sink := range []*room.ChanSink{alice, bob} {
		msg := recvMsg(t, sink.Out(), 100*time.Millisecond)
		assert.Equal(t, types.MsgDraftState, msg.Type)
		require.Len(t, msg.State.Teams["1"].Picks, 1)
		assert.Equal(t, "alice", *msg.State.Teams["1"].Picks[0].CreatedBy)
		assert.Equal(t, 1, msg.State.CurrentPickIndex)
		recvNoMsg(t, sink.Out(), 30*time.Millisecond)
	}
}

func TestOnSubmitPick_FailuresOnlyReachSubmitter(t *testing.T) {
	g, _, draftID := setup(t)
	ctx := context.Background()
	alice := join(t, g, draftID, "alice")
	bob := join(t, g, draftID, "bob")
	recvMsg(t, alice.Out(), 100*time.Millisecond)

	require.NoError(t, g.OnSubmitPick(ctx, draftID, "1", "jon-rahm", "alice", alice))
	recvMsg(t, alice.Out(), 100*time.Millisecond)
	recvMsg(t, bob.Out(), 100*time.Millisecond)

	cases := []struct {
		name    string
		draftID string
		teamID  string
		player  string
		wantErr error
		wantMsg string
	}{
		{name: "unknown draft", draftID: "nope", teamID: "1", player: "max-homa", wantErr: engine.ErrDraftNotFound, wantMsg: "draft not found"},
		{name: "unknown team", draftID: draftID, teamID: "9", player: "max-homa", wantErr: engine.ErrTeamNotFound, wantMsg: "team not found"},
		{name: "unknown player", draftID: draftID, teamID: "2", player: "tiger-woods", wantErr: engine.ErrPlayerNotFound, wantMsg: "player not found"},
		{name: "duplicate", draftID: draftID, teamID: "2", player: "jon-rahm", wantErr: engine.ErrDuplicatePick, wantMsg: "player already drafted"},
		{name: "missing player", draftID: draftID, teamID: "2", player: "", wantErr: ErrMissingField},
		{name: "unknown draft before missing team", draftID: "nope", teamID: "", player: "max-homa", wantErr: engine.ErrDraftNotFound, wantMsg: "draft not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := g.OnSubmitPick(ctx, tc.draftID, tc.teamID, tc.player, "bob", bob)
			require.ErrorIs(t, err, tc.wantErr)

			msg := recvMsg(t, bob.Out(), 100*time.Millisecond)
			assert.Equal(t, types.MsgError, msg.Type)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, msg.Error)
			}
			recvNoMsg(t, bob.Out(), 20*time.Millisecond)
			recvNoMsg(t, alice.Out(), 20*time.Millisecond)
		})
	}
}

func TestOnSubmitPick_TwoSimultaneousPicks(t *testing.T) {
	g, h, draftID := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, p := range [][2]string{{"1", "jon-rahm"}, {"2", "rory-mcilroy"}} {
		wg.Add(1)
		go func(i int, team, player string) {
			defer wg.Done()
			errs[i] = g.OnSubmitPick(ctx, draftID, team, player, "", room.NewChanSink("s"+team, 4))
		}(i, p[0], p[1])
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	lb, err := h.Get(ctx, draftID)
	require.NoError(t, err)
	view, err := lb.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, view.State.CurrentPickIndex)
	assert.Len(t, view.State.Teams["1"].Picks, 1)
	assert.Len(t, view.State.Teams["2"].Picks, 1)
}

func TestOnLeave(t *testing.T) {
	g, h, draftID := setup(t)
	ctx := context.Background()
	alice := join(t, g, draftID, "alice")
	bob := join(t, g, draftID, "bob")
	recvMsg(t, alice.Out(), 100*time.Millisecond)

	require.NoError(t, g.OnLeave(ctx, draftID, "bob", bob))
	msg := recvMsg(t, alice.Out(), 100*time.Millisecond)
	assert.Equal(t, types.MsgUserLeft, msg.Type)
	assert.Equal(t, "bob", msg.UserID)

	// Bob no longer sees picks.
	require.NoError(t, g.OnSubmitPick(ctx, draftID, "1", "max-homa", "alice", alice))
	recvMsg(t, alice.Out(), 100*time.Millisecond)
	recvNoMsg(t, bob.Out(), 30*time.Millisecond)
	assert.Equal(t, 1, h.Rooms().Members(draftID))

	assert.NoError(t, g.OnLeave(ctx, "nope", "bob", bob))
}

func TestDispatch(t *testing.T) {
	g, _, draftID := setup(t)
	ctx := context.Background()
	sink := room.NewChanSink("c", 8)

	require.NoError(t, g.Dispatch(ctx, types.ClientMessage{Type: types.MsgJoinDraft, DraftID: draftID, UserID: "u"}, sink))
	assert.Equal(t, types.MsgDraftState, recvMsg(t, sink.Out(), 100*time.Millisecond).Type)

	require.NoError(t, g.Dispatch(ctx, types.ClientMessage{Type: types.MsgSubmitPick, DraftID: draftID, TeamID: "3", PlayerID: "max-homa", UserID: "u"}, sink))
	msg := recvMsg(t, sink.Out(), 100*time.Millisecond)
	assert.Len(t, msg.State.Teams["3"].Picks, 1)

	err := g.Dispatch(ctx, types.ClientMessage{Type: "hover"}, sink)
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, types.MsgError, recvMsg(t, sink.Out(), 100*time.Millisecond).Type)

	require.NoError(t, g.Dispatch(ctx, types.ClientMessage{Type: types.MsgLeaveDraft, DraftID: draftID, UserID: "u"}, sink))
}

package hub

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
	"github.com/DoyleJ11/golf-draft-backend/internal/lobby"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(context.Background(), Deps{})
	t.Cleanup(h.Shutdown)
	return h
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	lb1, err := h.Create(ctx, CreateParams{Tournament: "Masters", Format: "Snake", TeamCount: 4})
	require.NoError(t, err)

	lb2, err := h.Get(ctx, lb1.ID())
	require.NoError(t, err)

	if lb1 == nil || lb2 == nil || lb1 != lb2 {
		t.Fatalf("expected same lobby pointer")
	}
}

func TestHub_Create_BuildsDraft(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	lb, err := h.Create(ctx, CreateParams{Tournament: "The Open", Format: "Linear", TeamCount: 3})
	require.NoError(t, err)

	view, err := lb.State(ctx)
	require.NoError(t, err)
	d := view.State
	assert.Len(t, d.ID, 32)
	assert.Equal(t, "The Open", d.Tournament)
	assert.Equal(t, "Linear", d.Format)
	assert.Equal(t, 3, d.TeamCount)
	assert.Equal(t, []string{"1", "2", "3"}, d.PickOrder)
	assert.Len(t, d.Players, 9)
	assert.False(t, d.IsActive)
	assert.False(t, d.HasCompleted)
}

func TestHub_Create_RejectsNonPositiveTeamCount(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	for _, n := range []int{0, -3} {
		lb, err := h.Create(ctx, CreateParams{Tournament: "Masters", Format: "Snake", TeamCount: n})
		assert.ErrorIs(t, err, engine.ErrValidation)
		assert.Nil(t, lb)
	}

	count, err := h.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHub_Get_Unknown(t *testing.T) {
	_, err := newTestHub(t).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, engine.ErrDraftNotFound)
}

func TestHub_Default_CreatedLazilyAndStable(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	first, err := h.Default(ctx)
	require.NoError(t, err)
	second, err := h.Default(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	view, err := first.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTournament, view.State.Tournament)
	assert.Equal(t, DefaultFormat, view.State.Format)
	assert.Equal(t, DefaultTeamCount, view.State.TeamCount)

	count, err := h.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHub_Default_IsFirstCreatedDraft(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	first, err := h.Create(ctx, CreateParams{Tournament: "PGA", Format: "Snake", TeamCount: 2})
	require.NoError(t, err)
	_, err = h.Create(ctx, CreateParams{Tournament: "US Open", Format: "Snake", TeamCount: 2})
	require.NoError(t, err)

	def, err := h.Default(ctx)
	require.NoError(t, err)
	assert.Same(t, first, def)
}

func TestHub_Default_MovesOnlyOnExplicitRequest(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	_, err := h.Create(ctx, CreateParams{Tournament: "PGA", Format: "Snake", TeamCount: 2})
	require.NoError(t, err)
	promoted, err := h.Create(ctx, CreateParams{Tournament: "US Open", Format: "Snake", TeamCount: 2, SetDefault: true})
	require.NoError(t, err)
	_, err = h.Create(ctx, CreateParams{Tournament: "The Open", Format: "Snake", TeamCount: 2})
	require.NoError(t, err)

	def, err := h.Default(ctx)
	require.NoError(t, err)
	assert.Same(t, promoted, def)
}

func TestHub_ConcurrentCreatesAreAllRegistered(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	const n = 20
	var wg sync.WaitGroup
	lobbies := make([]*lobby.Lobby, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lb, err := h.Create(ctx, CreateParams{Tournament: "Masters", Format: "Snake", TeamCount: 2})
			assert.NoError(t, err)
			lobbies[i] = lb
		}(i)
	}
	wg.Wait()

	ids := map[string]bool{}
	for _, lb := range lobbies {
		require.NotNil(t, lb)
		ids[lb.ID()] = true
		got, err := h.Get(ctx, lb.ID())
		require.NoError(t, err)
		assert.Same(t, lb, got)
	}
	assert.Len(t, ids, n)
}

func TestHub_DraftsMutateIndependently(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t)

	a, err := h.Create(ctx, CreateParams{Tournament: "A", Format: "Snake", TeamCount: 2})
	require.NoError(t, err)
	b, err := h.Create(ctx, CreateParams{Tournament: "B", Format: "Snake", TeamCount: 2})
	require.NoError(t, err)

	// The same player can be drafted once in each draft.
	_, err = a.SubmitPick(ctx, "1", "jon-rahm", "")
	require.NoError(t, err)
	_, err = b.SubmitPick(ctx, "1", "jon-rahm", "")
	require.NoError(t, err)
}

func TestHub_Shutdown_StopsLobbies(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, Deps{})

	lb, err := h.Create(ctx, CreateParams{Tournament: "Masters", Format: "Snake", TeamCount: 2})
	require.NoError(t, err)

	h.Shutdown()
	<-lb.Done()

	_, err = h.Get(ctx, lb.ID())
	assert.ErrorIs(t, err, ErrHubClosed)
	_, err = lb.SubmitPick(ctx, "1", "jon-rahm", "")
	assert.ErrorIs(t, err, lobby.ErrLobbyClosed)
}

package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barao1010/arenabot/internal/arena"
	"github.com/barao1010/arenabot/internal/elo"
	"github.com/barao1010/arenabot/internal/store"
)

func newRankedFixture(t *testing.T) (*Router, *arena.Coordinator, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(1000)
	coord := arena.NewCoordinator(st, elo.NewCalculator(20, false), 1, 0, 5000, testLog())
	router := NewRankedRouter(coord, PanelStyle{Image: "img", Color: "#ff0000"}, testLog())
	return router, coord, st
}

func cmdEvent(name string, invoker string, admin bool, args ...string) CommandInvoked {
	return CommandInvoked{Name: name, Args: args, InvokerID: invoker, IsAdmin: admin}
}

func verify(t *testing.T, router *Router, id string, rating string) {
	t.Helper()
	ctx := context.Background()
	reply := router.Dispatch(ctx, cmdEvent("setelo", id, false, rating))
	require.True(t, reply.Ephemeral, "setelo reply: %q", reply.Text)
	reply = router.Dispatch(ctx, cmdEvent("confirm", "admin", true, id))
	require.False(t, reply.IsZero())
}

func TestRankedRouter_SubmitConfirmJoinSettle(t *testing.T) {
	ctx := context.Background()
	router, _, st := newRankedFixture(t)

	// unverified joins bounce
	reply := router.Dispatch(ctx, ButtonPressed{CustomID: "join", InvokerID: "p1"})
	assert.Contains(t, reply.Text, "not verified")

	verify(t, router, "p1", "1500")
	verify(t, router, "p2", "1100")

	reply = router.Dispatch(ctx, ButtonPressed{CustomID: "join", InvokerID: "p1"})
	assert.Contains(t, reply.Text, "1/2")

	// second join fills the two-player queue and announces the match
	reply = router.Dispatch(ctx, ButtonPressed{CustomID: "join", InvokerID: "p2"})
	require.NotNil(t, reply.Panel)
	assert.Contains(t, reply.Panel.Description, "<@p1>")
	assert.Contains(t, reply.Panel.Description, "<@p2>")

	// non-admin cannot settle
	reply = router.Dispatch(ctx, cmdEvent("result", "p1", false, "A"))
	assert.Contains(t, reply.Text, "admins")

	reply = router.Dispatch(ctx, cmdEvent("result", "admin", true, "A"))
	require.NotNil(t, reply.Panel)

	// p1 had the higher rating so side A is p1
	rec, err := st.GetOrCreate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1520, rec.Rating)
	assert.Equal(t, 1, rec.Wins)

	rec, err = st.GetOrCreate(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 1080, rec.Rating)
	assert.Equal(t, 1, rec.Losses)

	// settling again is a conflict, not a double apply
	reply = router.Dispatch(ctx, cmdEvent("result", "admin", true, "A"))
	assert.Contains(t, reply.Text, "no open match")
}

func TestRankedRouter_SetEloValidation(t *testing.T) {
	ctx := context.Background()
	router, _, _ := newRankedFixture(t)

	reply := router.Dispatch(ctx, cmdEvent("setelo", "p1", false))
	assert.Contains(t, reply.Text, "Usage")

	reply = router.Dispatch(ctx, cmdEvent("setelo", "p1", false, "abc"))
	assert.Contains(t, reply.Text, "number")

	reply = router.Dispatch(ctx, cmdEvent("setelo", "p1", false, "999999"))
	assert.Contains(t, reply.Text, "out of the allowed range")
}

func TestRankedRouter_ConfirmWithoutPending(t *testing.T) {
	ctx := context.Background()
	router, _, _ := newRankedFixture(t)

	reply := router.Dispatch(ctx, cmdEvent("confirm", "admin", true, "p1"))
	assert.Contains(t, reply.Text, "no pending rating")
}

func TestRankedRouter_RankPanel(t *testing.T) {
	ctx := context.Background()
	router, _, st := newRankedFixture(t)

	reply := router.Dispatch(ctx, cmdEvent("rank", "p1", false))
	assert.Equal(t, "Leaderboard is empty.", reply.Text)

	rec, err := st.GetOrCreate(ctx, "p1")
	require.NoError(t, err)
	rec.Rating = 1337
	require.NoError(t, st.Save(ctx, rec))

	reply = router.Dispatch(ctx, cmdEvent("rank", "p1", false))
	require.NotNil(t, reply.Panel)
	assert.Contains(t, reply.Panel.Description, "1337")
}

func TestRankedRouter_PanelShowsQueueState(t *testing.T) {
	ctx := context.Background()
	router, _, _ := newRankedFixture(t)

	verify(t, router, "p1", "1200")
	router.Dispatch(ctx, ButtonPressed{CustomID: "join", InvokerID: "p1"})

	reply := router.Dispatch(ctx, cmdEvent("panel", "p2", false))
	require.NotNil(t, reply.Panel)
	assert.Contains(t, reply.Panel.Description, "1/2")
	assert.Contains(t, reply.Panel.Description, "<@p1>")
	require.Len(t, reply.Panel.Actions, 2)
}

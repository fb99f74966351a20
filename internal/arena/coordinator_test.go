package arena

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barao1010/arenabot/internal/elo"
	"github.com/barao1010/arenabot/internal/store"
)

const (
	testDelta   = 20
	testDefault = 1000
)

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func newTestCoordinator(t *testing.T, teamSize int) (*Coordinator, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(testDefault)
	calc := elo.NewCalculator(testDelta, false)
	return NewCoordinator(st, calc, teamSize, 0, 5000, testLog()), st
}

func seedVerified(t *testing.T, st store.Store, id string, rating int) {
	t.Helper()
	ctx := context.Background()
	rec, err := st.GetOrCreate(ctx, id)
	require.NoError(t, err)
	rec.Rating = rating
	rec.Verified = true
	require.NoError(t, st.Save(ctx, rec))
}

func TestCoordinator_JoinRequiresVerification(t *testing.T) {
	ctx := context.Background()
	coord, _ := newTestCoordinator(t, 2)

	_, err := coord.Join(ctx, "stranger")
	assert.ErrorIs(t, err, ErrNotVerified)

	members, _ := coord.QueueSnapshot()
	assert.Empty(t, members)
}

func TestCoordinator_JoinRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 2)
	seedVerified(t, st, "p1", 1000)

	_, err := coord.Join(ctx, "p1")
	require.NoError(t, err)

	_, err = coord.Join(ctx, "p1")
	assert.ErrorIs(t, err, ErrAlreadyQueued)

	members, _ := coord.QueueSnapshot()
	assert.Equal(t, []string{"p1"}, members)
}

func TestCoordinator_FullQueueFormsMatchAndDrains(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 2)

	ids := []string{"p1", "p2", "p3", "p4"}
	for _, id := range ids {
		seedVerified(t, st, id, 1000)
	}

	for _, id := range ids[:3] {
		res, err := coord.Join(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, res.Match)
	}

	res, err := coord.Join(ctx, "p4")
	require.NoError(t, err)
	require.NotNil(t, res.Match)

	// queue is empty the moment the match exists
	members, _ := coord.QueueSnapshot()
	assert.Empty(t, members)

	// sides partition the queued set
	all := append(append([]string{}, res.Match.SideA...), res.Match.SideB...)
	assert.ElementsMatch(t, ids, all)
	assert.NotEmpty(t, res.Match.SideA)
	assert.NotEmpty(t, res.Match.SideB)
	assert.Equal(t, MatchOpen, res.Match.State)
}

func TestCoordinator_JoinBlockedWhileMatchOpen(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 1)
	for _, id := range []string{"p1", "p2", "p3"} {
		seedVerified(t, st, id, 1000)
	}

	_, err := coord.Join(ctx, "p1")
	require.NoError(t, err)
	res, err := coord.Join(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, res.Match)

	_, err = coord.Join(ctx, "p3")
	assert.ErrorIs(t, err, ErrMatchInProgress)
}

func TestCoordinator_SettleAppliesSymmetricDeltasOnce(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 2)

	ratings := map[string]int{"p1": 2000, "p2": 1500, "p3": 1000, "p4": 500}
	for id, r := range ratings {
		seedVerified(t, st, id, r)
	}
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		_, err := coord.Join(ctx, id)
		require.NoError(t, err)
	}
	match := coord.CurrentMatch()
	require.NotNil(t, match)

	res, err := coord.Settle(ctx, SideA)
	require.NoError(t, err)
	assert.Equal(t, testDelta, res.Delta)

	for _, id := range match.SideA {
		rec, err := st.GetOrCreate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, ratings[id]+testDelta, rec.Rating, "winner %s", id)
		assert.Equal(t, 1, rec.Wins)
		assert.Equal(t, 0, rec.Losses)
	}
	for _, id := range match.SideB {
		rec, err := st.GetOrCreate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, ratings[id]-testDelta, rec.Rating, "loser %s", id)
		assert.Equal(t, 0, rec.Wins)
		assert.Equal(t, 1, rec.Losses)
	}

	// a second settlement attempt is a no-op error
	_, err = coord.Settle(ctx, SideB)
	assert.ErrorIs(t, err, ErrNoOpenMatch)
}

func TestCoordinator_SettleWithoutMatch(t *testing.T) {
	coord, _ := newTestCoordinator(t, 2)
	_, err := coord.Settle(context.Background(), SideA)
	assert.ErrorIs(t, err, ErrNoOpenMatch)
}

func TestCoordinator_RatingsMayGoNegative(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 1)
	seedVerified(t, st, "p1", 1000)
	seedVerified(t, st, "p2", 5)

	_, err := coord.Join(ctx, "p1")
	require.NoError(t, err)
	_, err = coord.Join(ctx, "p2")
	require.NoError(t, err)

	match := coord.CurrentMatch()
	require.NotNil(t, match)

	// p1 has the higher rating so the snake draft puts it on side A
	_, err = coord.Settle(ctx, SideA)
	require.NoError(t, err)

	rec, err := st.GetOrCreate(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 5-testDelta, rec.Rating)
}

func TestCoordinator_SubmitAndConfirmFlow(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 2)

	// confirm before any submit
	err := coord.ConfirmRating(ctx, "p1")
	assert.ErrorIs(t, err, ErrNoPendingValue)

	// out-of-range submit leaves no pending value
	err = coord.SubmitRating(ctx, "p1", 9999)
	assert.ErrorIs(t, err, ErrOutOfRange)
	err = coord.ConfirmRating(ctx, "p1")
	assert.ErrorIs(t, err, ErrNoPendingValue)

	require.NoError(t, coord.SubmitRating(ctx, "p1", 1500))

	rec, err := st.GetOrCreate(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, rec.PendingRating)
	assert.Equal(t, 1500, *rec.PendingRating)
	assert.False(t, rec.Verified)

	require.NoError(t, coord.ConfirmRating(ctx, "p1"))

	rec, err = st.GetOrCreate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1500, rec.Rating)
	assert.Nil(t, rec.PendingRating)
	assert.True(t, rec.Verified)

	// confirm succeeds exactly once per submit
	err = coord.ConfirmRating(ctx, "p1")
	assert.ErrorIs(t, err, ErrNoPendingValue)
}

func TestCoordinator_ResubmitClearsVerification(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 2)

	require.NoError(t, coord.SubmitRating(ctx, "p1", 1200))
	require.NoError(t, coord.ConfirmRating(ctx, "p1"))

	require.NoError(t, coord.SubmitRating(ctx, "p1", 1800))

	rec, err := st.GetOrCreate(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, rec.Verified)
	assert.Equal(t, 1200, rec.Rating) // old rating stands until confirmation

	_, err = coord.Join(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestCoordinator_TopOrdersByRating(t *testing.T) {
	ctx := context.Background()
	coord, st := newTestCoordinator(t, 2)

	seedVerified(t, st, "A", 1200)
	seedVerified(t, st, "B", 1500)
	seedVerified(t, st, "C", 900)
	seedVerified(t, st, "D", 1500)

	top, err := coord.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	// B and D tie for first in some order, then A; C misses the cut
	assert.ElementsMatch(t, []string{"B", "D"}, []string{top[0].ParticipantID, top[1].ParticipantID})
	assert.Equal(t, "A", top[2].ParticipantID)
}

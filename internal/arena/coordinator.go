package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/barao1010/arenabot/internal/elo"
	"github.com/barao1010/arenabot/internal/store"
)

// Coordinator owns all mutable matchmaking state for one queue context: the
// waiting queue, the single open match, and the rating-submission flow. Event
// handlers hold a reference to one Coordinator instance instead of touching
// ambient globals, so tests can run isolated instances.
//
// The chat dispatcher delivers events one at a time, but every store call is
// a suspension point, so preconditions are re-checked under the mutex after
// each round-trip.
type Coordinator struct {
	mu    sync.Mutex
	store store.Store
	calc  *elo.Calculator
	queue *Queue
	match *Match

	submitMin int
	submitMax int

	log *logrus.Entry
}

func NewCoordinator(st store.Store, calc *elo.Calculator, teamSize, submitMin, submitMax int, log *logrus.Entry) *Coordinator {
	return &Coordinator{
		store:     st,
		calc:      calc,
		queue:     NewQueue(teamSize * 2),
		submitMin: submitMin,
		submitMax: submitMax,
		log:       log,
	}
}

// JoinResult reports the outcome of a queue join. Match is non-nil only when
// this join filled the queue and formed a match.
type JoinResult struct {
	Position int
	Capacity int
	Match    *Match
}

// Join adds a verified participant to the queue. When the join fills the
// queue, the queue is drained and a match is formed in the same step.
func (c *Coordinator) Join(ctx context.Context, participantID string) (*JoinResult, error) {
	rec, err := c.store.GetOrCreate(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !rec.Verified {
		return nil, ErrNotVerified
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The store round-trip above is a suspension point; another event may
	// have completed in the meantime, so the queue state is checked fresh.
	if c.match != nil && c.match.State == MatchOpen {
		return nil, ErrMatchInProgress
	}
	if err := c.queue.Join(participantID); err != nil {
		return nil, err
	}

	if !c.queue.IsFull() {
		return &JoinResult{
			Position: c.queue.Len(),
			Capacity: c.queue.Capacity(),
		}, nil
	}

	// Drain and form in the same step. If a rating read fails here the queue
	// stays drained; there is no rollback (participants re-queue).
	drained := c.queue.Drain()
	players := make([]RatedPlayer, 0, len(drained))
	for _, id := range drained {
		r, err := c.store.GetOrCreate(ctx, id)
		if err != nil {
			c.log.WithError(err).WithField("participantId", id).
				Error("failed to load rating during team formation, queue dropped")
			return nil, fmt.Errorf("failed to load rating for %s: %w", id, err)
		}
		players = append(players, RatedPlayer{ParticipantID: id, Rating: r.Rating})
	}

	match, err := FormTeams(players)
	if err != nil {
		return nil, err
	}
	c.match = match

	c.log.WithFields(logrus.Fields{
		"matchId": match.ID,
		"sideA":   match.SideA,
		"sideB":   match.SideB,
	}).Info("match formed")

	return &JoinResult{
		Position: 0,
		Capacity: c.queue.Capacity(),
		Match:    match.clone(),
	}, nil
}

// Leave removes a participant from the queue.
func (c *Coordinator) Leave(_ context.Context, participantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Leave(participantID)
}

// SettleResult reports a settled match and the rating delta that was applied
// to each participant.
type SettleResult struct {
	Match  *Match
	Winner Side
	Delta  int
}

// Settle applies the outcome of the open match: winners gain a win and the
// delta, losers gain a loss and lose the delta. The match transitions to
// settled before any record is written, so a second settle attempt fails
// with ErrNoOpenMatch even while writes are still in flight.
//
// Per-record writes are independent; a failure partway leaves earlier
// updates in place and is reported, not rolled back.
func (c *Coordinator) Settle(ctx context.Context, winner Side) (*SettleResult, error) {
	c.mu.Lock()
	if c.match == nil || c.match.State != MatchOpen {
		c.mu.Unlock()
		return nil, ErrNoOpenMatch
	}
	match := c.match
	match.State = MatchSettled
	c.match = nil
	c.mu.Unlock()

	winners := match.Winners(winner)
	losers := match.Losers(winner)

	winnerRecs, err := c.loadRecords(ctx, winners)
	if err != nil {
		return nil, err
	}
	loserRecs, err := c.loadRecords(ctx, losers)
	if err != nil {
		return nil, err
	}

	delta := c.calc.Delta(averageRating(winnerRecs), averageRating(loserRecs))

	var saveErrs []error
	for _, rec := range winnerRecs {
		rec.Wins++
		rec.Rating += delta
		if err := c.store.Save(ctx, rec); err != nil {
			saveErrs = append(saveErrs, err)
		}
	}
	for _, rec := range loserRecs {
		rec.Losses++
		rec.Rating -= delta
		if err := c.store.Save(ctx, rec); err != nil {
			saveErrs = append(saveErrs, err)
		}
	}
	if len(saveErrs) > 0 {
		c.log.WithError(errors.Join(saveErrs...)).WithField("matchId", match.ID).
			Error("settlement applied partially")
		return nil, errors.Join(saveErrs...)
	}

	c.log.WithFields(logrus.Fields{
		"matchId": match.ID,
		"winner":  winner,
		"delta":   delta,
	}).Info("match settled")

	return &SettleResult{
		Match:  match.clone(),
		Winner: winner,
		Delta:  delta,
	}, nil
}

// SubmitRating records a participant's claimed rating as pending. Submitting
// clears the verified flag, so the participant cannot queue again until an
// admin confirms the new value.
func (c *Coordinator) SubmitRating(ctx context.Context, participantID string, value int) error {
	if value < c.submitMin || value > c.submitMax {
		return ErrOutOfRange
	}

	rec, err := c.store.GetOrCreate(ctx, participantID)
	if err != nil {
		return err
	}
	rec.PendingRating = &value
	rec.Verified = false
	return c.store.Save(ctx, rec)
}

// ConfirmRating promotes a pending rating: the pending value becomes the
// rating, the pending slot is cleared, and the participant is verified.
func (c *Coordinator) ConfirmRating(ctx context.Context, participantID string) error {
	rec, err := c.store.GetOrCreate(ctx, participantID)
	if err != nil {
		return err
	}
	if rec.PendingRating == nil {
		return ErrNoPendingValue
	}
	rec.Rating = *rec.PendingRating
	rec.PendingRating = nil
	rec.Verified = true
	return c.store.Save(ctx, rec)
}

// Top returns the leaderboard: up to n records by rating descending. Ties
// come back in store order, which is unspecified.
func (c *Coordinator) Top(ctx context.Context, n int) ([]store.Record, error) {
	return c.store.TopByRating(ctx, n)
}

// QueueSnapshot returns the queued members (join order) and the capacity.
func (c *Coordinator) QueueSnapshot() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Members(), c.queue.Capacity()
}

// CurrentMatch returns a copy of the open match, or nil.
func (c *Coordinator) CurrentMatch() *Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.match == nil {
		return nil
	}
	return c.match.clone()
}

func (c *Coordinator) loadRecords(ctx context.Context, ids []string) ([]*store.Record, error) {
	recs := make([]*store.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := c.store.GetOrCreate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load record for %s: %w", id, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func averageRating(recs []*store.Record) int {
	ratings := make([]int, len(recs))
	for i, r := range recs {
		ratings[i] = r.Rating
	}
	return elo.SideAverage(ratings)
}

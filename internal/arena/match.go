package arena

import (
	"time"

	"github.com/google/uuid"
)

type MatchState string

const (
	MatchOpen    MatchState = "open"
	MatchSettled MatchState = "settled"
)

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Match is one in-flight contest: two disjoint non-empty sides drawn from a
// drained queue. It is open from creation until it is settled exactly once,
// then discarded.
type Match struct {
	ID        string
	SideA     []string
	SideB     []string
	State     MatchState
	CreatedAt time.Time
}

func newMatch(sideA, sideB []string) *Match {
	return &Match{
		ID:        uuid.NewString(),
		SideA:     sideA,
		SideB:     sideB,
		State:     MatchOpen,
		CreatedAt: time.Now(),
	}
}

// Winners returns the members of the given side.
func (m *Match) Winners(winner Side) []string {
	if winner == SideA {
		return m.SideA
	}
	return m.SideB
}

// Losers returns the members of the side opposite the given one.
func (m *Match) Losers(winner Side) []string {
	if winner == SideA {
		return m.SideB
	}
	return m.SideA
}

// clone returns a copy safe to hand outside the coordinator's lock.
func (m *Match) clone() *Match {
	c := *m
	c.SideA = append([]string(nil), m.SideA...)
	c.SideB = append([]string(nil), m.SideB...)
	return &c
}

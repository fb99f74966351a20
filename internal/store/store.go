package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResetMode selects how much of the stored standings a reset wipes.
type ResetMode string

const (
	ResetStandings ResetMode = "standings" // zero win/loss counters only
	ResetFull      ResetMode = "full"      // counters plus ratings back to default
)

// Record is one participant's persisted rating state. Records are created
// lazily on first reference and never deleted.
type Record struct {
	ID            primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ParticipantID string             `json:"participantId" bson:"participantId"`
	Rating        int                `json:"rating" bson:"rating"`
	PendingRating *int               `json:"pendingRating,omitempty" bson:"pendingRating,omitempty"`
	Verified      bool               `json:"verified" bson:"verified"`
	Wins          int                `json:"wins" bson:"wins"`
	Losses        int                `json:"losses" bson:"losses"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Store is the persistence boundary for participant ratings. There is no
// multi-record transaction: callers that update several records apply them
// one by one and accept partial application on failure.
type Store interface {
	// GetOrCreate returns the record for participantID, creating it with
	// defaults on first reference.
	GetOrCreate(ctx context.Context, participantID string) (*Record, error)

	// Save writes the full record back, keyed by participant ID.
	Save(ctx context.Context, rec *Record) error

	// TopByRating returns up to n records ordered by rating descending.
	// Tie order between equal ratings is store-dependent.
	TopByRating(ctx context.Context, n int) ([]Record, error)

	// TopByWins returns up to n records ordered by win count descending.
	TopByWins(ctx context.Context, n int) ([]Record, error)

	// ResetStandings clears accumulated standings according to mode.
	ResetStandings(ctx context.Context, mode ResetMode) error
}

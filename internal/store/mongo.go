package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barao1010/arenabot/internal/db"
)

// MongoStore persists participant records in the ratings collection.
type MongoStore struct {
	db            *db.MongoDB
	defaultRating int
}

func NewMongoStore(database *db.MongoDB, defaultRating int) *MongoStore {
	return &MongoStore{
		db:            database,
		defaultRating: defaultRating,
	}
}

func (s *MongoStore) GetOrCreate(ctx context.Context, participantID string) (*Record, error) {
	now := time.Now()

	// Upsert with $setOnInsert so concurrent first references stay safe
	// under the unique participantId index.
	filter := bson.M{"participantId": participantID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"participantId": participantID,
			"rating":        s.defaultRating,
			"verified":      false,
			"wins":          0,
			"losses":        0,
			"createdAt":     now,
			"updatedAt":     now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var rec Record
	if err := s.db.Ratings().FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to get or create record for %s: %w", participantID, err)
	}
	return &rec, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = time.Now()

	set := bson.M{
		"rating":    rec.Rating,
		"verified":  rec.Verified,
		"wins":      rec.Wins,
		"losses":    rec.Losses,
		"updatedAt": rec.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if rec.PendingRating != nil {
		set["pendingRating"] = *rec.PendingRating
	} else {
		update["$unset"] = bson.M{"pendingRating": ""}
	}

	_, err := s.db.Ratings().UpdateOne(ctx,
		bson.M{"participantId": rec.ParticipantID},
		update,
	)
	if err != nil {
		return fmt.Errorf("failed to save record for %s: %w", rec.ParticipantID, err)
	}
	return nil
}

func (s *MongoStore) TopByRating(ctx context.Context, n int) ([]Record, error) {
	return s.top(ctx, n, bson.M{"rating": -1})
}

func (s *MongoStore) TopByWins(ctx context.Context, n int) ([]Record, error) {
	return s.top(ctx, n, bson.M{"wins": -1})
}

func (s *MongoStore) top(ctx context.Context, n int, sort bson.M) ([]Record, error) {
	opts := options.Find().
		SetSort(sort).
		SetLimit(int64(n))

	cursor, err := s.db.Ratings().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query top records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode top records: %w", err)
	}
	return records, nil
}

func (s *MongoStore) ResetStandings(ctx context.Context, mode ResetMode) error {
	set := bson.M{
		"wins":      0,
		"losses":    0,
		"updatedAt": time.Now(),
	}
	if mode == ResetFull {
		set["rating"] = s.defaultRating
	}

	_, err := s.db.Ratings().UpdateMany(ctx, bson.M{}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to reset standings: %w", err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)

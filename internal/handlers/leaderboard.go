package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/barao1010/arenabot/internal/store"
)

const defaultLeaderboardLimit = 50

type LeaderboardHandler struct {
	store store.Store
	log   *logrus.Entry
}

func NewLeaderboardHandler(st store.Store, log *logrus.Entry) *LeaderboardHandler {
	return &LeaderboardHandler{store: st, log: log}
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participantId"`
	Rating        int    `json:"rating"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
}

// GetLeaderboard returns the top participants.
// GET /api/leaderboard?by=rating|wins&limit=N
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	var (
		records []store.Record
		err     error
	)
	switch r.URL.Query().Get("by") {
	case "wins":
		records, err = h.store.TopByWins(ctx, limit)
	default:
		records, err = h.store.TopByRating(ctx, limit)
	}
	if err != nil {
		h.log.WithError(err).Error("failed to query leaderboard")
		respondWithError(w, http.StatusInternalServerError, "failed to query leaderboard")
		return
	}

	entries := make([]LeaderboardEntry, len(records))
	for i, rec := range records {
		entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			ParticipantID: rec.ParticipantID,
			Rating:        rec.Rating,
			Wins:          rec.Wins,
			Losses:        rec.Losses,
		}
	}

	respondWithJSON(w, http.StatusOK, entries)
}

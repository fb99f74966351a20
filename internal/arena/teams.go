package arena

import (
	"fmt"
	"sort"
)

// RatedPlayer pairs a participant with the rating used for balancing.
type RatedPlayer struct {
	ParticipantID string
	Rating        int
}

// FormTeams partitions a full queue's worth of players into two sides using
// a snake-draft pass: sort by rating descending, then alternate assignments
// (rank 0, 2, 4... to side A, rank 1, 3, 5... to side B). This approximates
// balance; it is not an optimal partition. Ties keep their input order.
//
// The caller must pass exactly the drained queue, so len(players) is always
// the configured capacity and at least 2.
func FormTeams(players []RatedPlayer) (*Match, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("cannot form teams from %d players", len(players))
	}

	ranked := make([]RatedPlayer, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	var sideA, sideB []string
	for i, p := range ranked {
		if i%2 == 0 {
			sideA = append(sideA, p.ParticipantID)
		} else {
			sideB = append(sideB, p.ParticipantID)
		}
	}

	return newMatch(sideA, sideB), nil
}

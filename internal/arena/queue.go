package arena

// Queue is the ordered waiting pool for match formation. It is bounded by
// capacity, holds no duplicates, and is drained in one step the moment it
// fills. Verification gating lives in the Coordinator, which owns the store;
// the queue itself is purely mechanical.
type Queue struct {
	capacity int
	members  []string
}

func NewQueue(capacity int) *Queue {
	return &Queue{
		capacity: capacity,
		members:  make([]string, 0, capacity),
	}
}

// Join appends participantID to the queue.
func (q *Queue) Join(participantID string) error {
	if q.Contains(participantID) {
		return ErrAlreadyQueued
	}
	if len(q.members) >= q.capacity {
		return ErrQueueFull
	}
	q.members = append(q.members, participantID)
	return nil
}

// Leave removes every occurrence of participantID. Duplicates cannot exist,
// but removal stays complete and idempotent regardless.
func (q *Queue) Leave(participantID string) error {
	kept := q.members[:0]
	removed := false
	for _, id := range q.members {
		if id == participantID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	q.members = kept
	if !removed {
		return ErrNotQueued
	}
	return nil
}

func (q *Queue) Contains(participantID string) bool {
	for _, id := range q.members {
		if id == participantID {
			return true
		}
	}
	return false
}

func (q *Queue) IsFull() bool {
	return len(q.members) == q.capacity
}

func (q *Queue) Len() int {
	return len(q.members)
}

func (q *Queue) Capacity() int {
	return q.capacity
}

// Members returns a copy of the queue contents in join order.
func (q *Queue) Members() []string {
	out := make([]string, len(q.members))
	copy(out, q.members)
	return out
}

// Drain empties the queue and returns the members that were in it. Callers
// hand the drained set straight to team formation so no observer ever sees
// a full-but-undrained queue.
func (q *Queue) Drain() []string {
	drained := q.members
	q.members = make([]string, 0, q.capacity)
	return drained
}

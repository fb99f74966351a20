package duel

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/barao1010/arenabot/internal/store"
)

// LeaveButtonID is the panel button that removes the presser from all queues.
const LeaveButtonID = "leave"

const queueSize = 2

var (
	ErrQueueExists   = errors.New("queue already exists")
	ErrUnknownQueue  = errors.New("queue does not exist")
	ErrNoActiveMatch = errors.New("no active match for that participant")
)

// QueueInfo is a read-only snapshot of one named queue.
type QueueInfo struct {
	Name    string
	Color   string
	Image   string
	Members []string
}

// MatchStarted is returned when a queue fills and a two-party match begins.
type MatchStarted struct {
	QueueName string
	Players   [2]string
	Color     string
	Image     string
}

// Result is a settled duel.
type Result struct {
	QueueName string
	Winner    string
	Loser     string
}

type namedQueue struct {
	color   string
	image   string
	members []string
}

// Registry holds the duel bot's named queues and active matches. Each queue
// holds at most two participants and starts a match the moment the second
// one joins. Standings are win/loss counters in the store; ratings are not
// used in this mode.
type Registry struct {
	mu         sync.Mutex
	store      store.Store
	queues     map[string]*namedQueue
	order      []string // queue creation order, for panel rendering
	active     map[string][2]string
	panelImage string
	log        *logrus.Entry
}

func NewRegistry(st store.Store, panelImage string, log *logrus.Entry) *Registry {
	return &Registry{
		store:      st,
		queues:     make(map[string]*namedQueue),
		active:     make(map[string][2]string),
		panelImage: panelImage,
		log:        log,
	}
}

// CreateQueue registers a new named queue. Color and image fall back to the
// panel defaults when empty.
func (r *Registry) CreateQueue(name, color, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.queues[name]; ok {
		return ErrQueueExists
	}
	if image == "" {
		image = r.panelImage
	}
	r.queues[name] = &namedQueue{color: color, image: image}
	r.order = append(r.order, name)

	r.log.WithField("queue", name).Info("queue created")
	return nil
}

func (r *Registry) SetColor(name, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[name]
	if !ok {
		return ErrUnknownQueue
	}
	q.color = color
	return nil
}

func (r *Registry) SetImage(name, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[name]
	if !ok {
		return ErrUnknownQueue
	}
	q.image = image
	return nil
}

// SetPanelImage updates the default image shown on the queue panel.
func (r *Registry) SetPanelImage(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panelImage = url
}

func (r *Registry) PanelImage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.panelImage
}

// Queues returns snapshots of all queues in creation order.
func (r *Registry) Queues() []QueueInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]QueueInfo, 0, len(r.order))
	for _, name := range r.order {
		q := r.queues[name]
		out = append(out, QueueInfo{
			Name:    name,
			Color:   q.color,
			Image:   q.image,
			Members: append([]string(nil), q.members...),
		})
	}
	return out
}

// Press handles a panel button. Any press first removes the presser from
// every queue; a queue button then joins that queue, and the leave button
// stops there. When a queue reaches two members it empties and the pair is
// recorded as the queue's active match.
func (r *Registry) Press(userID, buttonID string) (*MatchStarted, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range r.queues {
		q.remove(userID)
	}

	if buttonID == LeaveButtonID {
		return nil, nil
	}

	q, ok := r.queues[buttonID]
	if !ok {
		return nil, ErrUnknownQueue
	}
	q.members = append(q.members, userID)

	if len(q.members) < queueSize {
		return nil, nil
	}

	pair := [2]string{q.members[0], q.members[1]}
	r.active[buttonID] = pair
	q.members = nil

	r.log.WithFields(logrus.Fields{
		"queue":   buttonID,
		"players": pair,
	}).Info("duel started")

	return &MatchStarted{
		QueueName: buttonID,
		Players:   pair,
		Color:     q.color,
		Image:     q.image,
	}, nil
}

// DeclareWinner settles the active match the winner belongs to, found by
// scanning active matches. The other participant of that match is the loser.
// Both counters are written to the store and the match is removed.
func (r *Registry) DeclareWinner(ctx context.Context, winnerID string) (*Result, error) {
	r.mu.Lock()
	var queueName string
	var pair [2]string
	for name, players := range r.active {
		if players[0] == winnerID || players[1] == winnerID {
			queueName = name
			pair = players
			break
		}
	}
	if queueName == "" {
		r.mu.Unlock()
		return nil, ErrNoActiveMatch
	}
	delete(r.active, queueName)
	r.mu.Unlock()

	loserID := pair[0]
	if loserID == winnerID {
		loserID = pair[1]
	}

	winner, err := r.store.GetOrCreate(ctx, winnerID)
	if err != nil {
		return nil, err
	}
	winner.Wins++
	if err := r.store.Save(ctx, winner); err != nil {
		return nil, err
	}

	loser, err := r.store.GetOrCreate(ctx, loserID)
	if err != nil {
		return nil, err
	}
	loser.Losses++
	if err := r.store.Save(ctx, loser); err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"queue":  queueName,
		"winner": winnerID,
		"loser":  loserID,
	}).Info("duel settled")

	return &Result{
		QueueName: queueName,
		Winner:    winnerID,
		Loser:     loserID,
	}, nil
}

// ActiveMatches returns the queue-name to player-pair mapping.
func (r *Registry) ActiveMatches() map[string][2]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string][2]string, len(r.active))
	for name, pair := range r.active {
		out[name] = pair
	}
	return out
}

// Standings returns up to n records ordered by wins descending.
func (r *Registry) Standings(ctx context.Context, n int) ([]store.Record, error) {
	return r.store.TopByWins(ctx, n)
}

func (q *namedQueue) remove(userID string) {
	kept := q.members[:0]
	for _, id := range q.members {
		if id != userID {
			kept = append(kept, id)
		}
	}
	q.members = kept
}

package bot

import (
	"context"

	"github.com/sirupsen/logrus"
)

// CommandFunc handles one command invocation.
type CommandFunc func(ctx context.Context, ev CommandInvoked) Reply

// ButtonFunc handles one button press.
type ButtonFunc func(ctx context.Context, ev ButtonPressed) Reply

type command struct {
	fn        CommandFunc
	adminOnly bool
}

// Router dispatches inbound events to registered handlers. Admin-only
// commands are gated on the transport-supplied capability before the
// handler runs. Unknown commands are ignored silently, matching how chat
// platforms treat unregistered prefixes.
type Router struct {
	commands map[string]command
	button   ButtonFunc
	log      *logrus.Entry
}

func NewRouter(log *logrus.Entry) *Router {
	return &Router{
		commands: make(map[string]command),
		log:      log,
	}
}

// Command registers a handler for the named command.
func (r *Router) Command(name string, adminOnly bool, fn CommandFunc) {
	r.commands[name] = command{fn: fn, adminOnly: adminOnly}
}

// Button registers the single button handler.
func (r *Router) Button(fn ButtonFunc) {
	r.button = fn
}

// Dispatch routes one event to its handler and returns the reply.
func (r *Router) Dispatch(ctx context.Context, ev Event) Reply {
	switch e := ev.(type) {
	case CommandInvoked:
		cmd, ok := r.commands[e.Name]
		if !ok {
			return Reply{}
		}
		if cmd.adminOnly && !e.IsAdmin {
			return Ephemeral("Only admins can use this command.")
		}
		return cmd.fn(ctx, e)
	case ButtonPressed:
		if r.button == nil {
			return Reply{}
		}
		return r.button(ctx, e)
	default:
		r.log.Warnf("unhandled event type %T", ev)
		return Reply{}
	}
}

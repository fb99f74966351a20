package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/barao1010/arenabot/internal/duel"
)

// NewDuelRouter wires the duel bot's commands and buttons to a registry.
// The command set mirrors the classic panel bot:
//
//	createqueue <name> [color] [image]  (admin) register a named queue
//	setpanel <url>                      (admin) change the default panel image
//	setcolor <name> <color>             (admin) change a queue's color
//	setimage <name> <url>               (admin) change a queue's image
//	panel                               show the panel with one button per queue
//	result <participant>                (admin) declare a duel winner
//	rank                                show the top 10 by wins
func NewDuelRouter(reg *duel.Registry, style PanelStyle, log *logrus.Entry) *Router {
	r := NewRouter(log)

	r.Command("createqueue", true, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 1 {
			return Ephemeral("Usage: createqueue <name> [color] [image]")
		}
		name := ev.Args[0]
		color := style.Color
		image := ""
		if len(ev.Args) > 1 {
			color = ev.Args[1]
		}
		if len(ev.Args) > 2 {
			image = ev.Args[2]
		}
		if err := reg.CreateQueue(name, color, image); err != nil {
			return duelErrorReply(err)
		}
		return Text(fmt.Sprintf("Queue %s created.", name))
	})

	r.Command("setpanel", true, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 1 {
			return Ephemeral("Usage: setpanel <image url>")
		}
		reg.SetPanelImage(ev.Args[0])
		return Text("Panel image updated.")
	})

	r.Command("setcolor", true, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 2 {
			return Ephemeral("Usage: setcolor <queue> <color>")
		}
		if err := reg.SetColor(ev.Args[0], ev.Args[1]); err != nil {
			return duelErrorReply(err)
		}
		return Text("Queue color updated.")
	})

	r.Command("setimage", true, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 2 {
			return Ephemeral("Usage: setimage <queue> <image url>")
		}
		if err := reg.SetImage(ev.Args[0], ev.Args[1]); err != nil {
			return duelErrorReply(err)
		}
		return Text("Queue image updated.")
	})

	r.Command("panel", false, func(ctx context.Context, ev CommandInvoked) Reply {
		queues := reg.Queues()
		if len(queues) == 0 {
			return Ephemeral("No queues created yet.")
		}
		actions := make([]Action, 0, len(queues)+1)
		for _, q := range queues {
			actions = append(actions, Action{Label: strings.ToUpper(q.Name), CustomID: q.Name})
		}
		actions = append(actions, Action{Label: "LEAVE", CustomID: duel.LeaveButtonID})
		return Reply{Panel: &Panel{
			Title:       "COMPETITIVE QUEUES",
			Description: "Join a queue and challenge an opponent!",
			Color:       style.Color,
			Image:       reg.PanelImage(),
			Actions:     actions,
		}}
	})

	r.Command("result", true, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 1 {
			return Ephemeral("Usage: result <winner>")
		}
		res, err := reg.DeclareWinner(ctx, ev.Args[0])
		if err != nil {
			return duelErrorReply(err)
		}
		return Text(fmt.Sprintf("RESULT RECORDED\n\nWinner: <@%s>\nLoser: <@%s>", res.Winner, res.Loser))
	})

	r.Command("rank", false, func(ctx context.Context, ev CommandInvoked) Reply {
		records, err := reg.Standings(ctx, 10)
		if err != nil {
			return duelErrorReply(err)
		}
		if len(records) == 0 {
			return Text("Ranking is empty.")
		}
		var b strings.Builder
		for i, rec := range records {
			fmt.Fprintf(&b, "%d. <@%s> - %dW\n", i+1, rec.ParticipantID, rec.Wins)
		}
		return Reply{Panel: &Panel{
			Title:       "RANKING",
			Description: b.String(),
			Color:       style.Color,
			Image:       reg.PanelImage(),
		}}
	})

	r.Button(func(ctx context.Context, ev ButtonPressed) Reply {
		started, err := reg.Press(ev.InvokerID, ev.CustomID)
		if err != nil {
			return duelErrorReply(err)
		}
		if ev.CustomID == duel.LeaveButtonID {
			return Ephemeral("You left the queue.")
		}
		if started == nil {
			return Ephemeral(fmt.Sprintf("You joined the %s queue.", ev.CustomID))
		}
		return Reply{Panel: &Panel{
			Title: fmt.Sprintf("SHOWDOWN - %s", started.QueueName),
			Description: fmt.Sprintf("<@%s> vs <@%s>\n\nAfter the match an admin runs: result <winner>",
				started.Players[0], started.Players[1]),
			Color: started.Color,
			Image: started.Image,
		}}
	})

	return r
}

func duelErrorReply(err error) Reply {
	switch {
	case errors.Is(err, duel.ErrQueueExists):
		return Ephemeral("A queue with that name already exists.")
	case errors.Is(err, duel.ErrUnknownQueue):
		return Ephemeral("That queue does not exist.")
	case errors.Is(err, duel.ErrNoActiveMatch):
		return Ephemeral("No active match found for that participant.")
	default:
		return Ephemeral("Something went wrong, try again.")
	}
}

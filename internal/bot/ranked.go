package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/barao1010/arenabot/internal/arena"
)

const (
	joinButtonID  = "join"
	leaveButtonID = "leave"
)

// PanelStyle carries the default look of rendered panels.
type PanelStyle struct {
	Image string
	Color string
}

// NewRankedRouter wires the ranked bot's commands and buttons to a
// coordinator. The command set:
//
//	panel            show the queue panel with join/leave buttons
//	setelo <value>   submit a rating for admin confirmation
//	confirm <user>   (admin) confirm a submitted rating
//	result <A|B>     (admin) settle the open match
//	rank             show the top 10 by rating
func NewRankedRouter(coord *arena.Coordinator, style PanelStyle, log *logrus.Entry) *Router {
	r := NewRouter(log)

	r.Command("panel", false, func(ctx context.Context, ev CommandInvoked) Reply {
		return queuePanel(coord, style)
	})

	r.Command("setelo", false, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 1 {
			return Ephemeral("Usage: setelo <rating>")
		}
		value, err := strconv.Atoi(ev.Args[0])
		if err != nil {
			return Ephemeral("Rating must be a number.")
		}
		if err := coord.SubmitRating(ctx, ev.InvokerID, value); err != nil {
			return errorReply(err)
		}
		return Ephemeral(fmt.Sprintf("Rating %d submitted. An admin must confirm it before you can queue.", value))
	})

	r.Command("confirm", true, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 1 {
			return Ephemeral("Usage: confirm <participant>")
		}
		target := ev.Args[0]
		if err := coord.ConfirmRating(ctx, target); err != nil {
			return errorReply(err)
		}
		return Text(fmt.Sprintf("Rating confirmed for <@%s>.", target))
	})

	r.Command("result", true, func(ctx context.Context, ev CommandInvoked) Reply {
		if len(ev.Args) < 1 {
			return Ephemeral("Usage: result <A|B>")
		}
		var winner arena.Side
		switch strings.ToUpper(ev.Args[0]) {
		case "A":
			winner = arena.SideA
		case "B":
			winner = arena.SideB
		default:
			return Ephemeral("Winner must be A or B.")
		}

		res, err := coord.Settle(ctx, winner)
		if err != nil {
			return errorReply(err)
		}
		return Reply{Panel: &Panel{
			Title: "MATCH RESULT",
			Description: fmt.Sprintf("Side %s wins! (+%d / -%d)\n\nWinners: %s\nLosers: %s",
				res.Winner, res.Delta, res.Delta,
				mentionList(res.Match.Winners(res.Winner)),
				mentionList(res.Match.Losers(res.Winner))),
			Color: style.Color,
			Image: style.Image,
		}}
	})

	r.Command("rank", false, func(ctx context.Context, ev CommandInvoked) Reply {
		records, err := coord.Top(ctx, 10)
		if err != nil {
			return errorReply(err)
		}
		if len(records) == 0 {
			return Text("Leaderboard is empty.")
		}
		var b strings.Builder
		for i, rec := range records {
			fmt.Fprintf(&b, "%d. <@%s> - %d (%dW/%dL)\n", i+1, rec.ParticipantID, rec.Rating, rec.Wins, rec.Losses)
		}
		return Reply{Panel: &Panel{
			Title:       "LEADERBOARD",
			Description: b.String(),
			Color:       style.Color,
			Image:       style.Image,
		}}
	})

	r.Button(func(ctx context.Context, ev ButtonPressed) Reply {
		switch ev.CustomID {
		case joinButtonID:
			res, err := coord.Join(ctx, ev.InvokerID)
			if err != nil {
				return errorReply(err)
			}
			if res.Match == nil {
				return Ephemeral(fmt.Sprintf("You joined the queue (%d/%d).", res.Position, res.Capacity))
			}
			return Reply{Panel: matchPanel(res.Match, style)}
		case leaveButtonID:
			if err := coord.Leave(ctx, ev.InvokerID); err != nil {
				return errorReply(err)
			}
			return Ephemeral("You left the queue.")
		default:
			return Reply{}
		}
	})

	return r
}

func queuePanel(coord *arena.Coordinator, style PanelStyle) Reply {
	members, capacity := coord.QueueSnapshot()
	desc := fmt.Sprintf("Queued: %d/%d", len(members), capacity)
	if len(members) > 0 {
		desc += "\n" + mentionList(members)
	}
	return Reply{Panel: &Panel{
		Title:       "COMPETITIVE QUEUE",
		Description: desc,
		Color:       style.Color,
		Image:       style.Image,
		Actions: []Action{
			{Label: "JOIN", CustomID: joinButtonID},
			{Label: "LEAVE", CustomID: leaveButtonID},
		},
	}}
}

func matchPanel(m *arena.Match, style PanelStyle) *Panel {
	return &Panel{
		Title: "MATCH READY",
		Description: fmt.Sprintf("Side A: %s\nSide B: %s\n\nAfter the match an admin runs: result <A|B>",
			mentionList(m.SideA), mentionList(m.SideB)),
		Color: style.Color,
		Image: style.Image,
	}
}

func mentionList(ids []string) string {
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = "<@" + id + ">"
	}
	return strings.Join(mentions, " ")
}

// errorReply maps core errors onto user-facing replies. Anything not in the
// taxonomy surfaces as a generic failure.
func errorReply(err error) Reply {
	switch {
	case errors.Is(err, arena.ErrNotVerified):
		return Ephemeral("Your rating is not verified yet. Submit one with setelo and wait for an admin.")
	case errors.Is(err, arena.ErrAlreadyQueued):
		return Ephemeral("You are already in the queue.")
	case errors.Is(err, arena.ErrQueueFull):
		return Ephemeral("The queue is full.")
	case errors.Is(err, arena.ErrNotQueued):
		return Ephemeral("You are not in the queue.")
	case errors.Is(err, arena.ErrMatchInProgress):
		return Ephemeral("A match is already in progress. Wait for the result.")
	case errors.Is(err, arena.ErrNoOpenMatch):
		return Ephemeral("There is no open match to settle.")
	case errors.Is(err, arena.ErrNoPendingValue):
		return Ephemeral("That participant has no pending rating to confirm.")
	case errors.Is(err, arena.ErrOutOfRange):
		return Ephemeral("That rating is out of the allowed range.")
	default:
		return Ephemeral("Something went wrong, try again.")
	}
}

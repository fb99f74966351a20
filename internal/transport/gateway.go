package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/barao1010/arenabot/internal/bot"
)

const (
	frameTypeCommand = "command"
	frameTypeButton  = "button"
	frameTypeReply   = "reply"

	reconnectDelay = 2 * time.Second
	writeTimeout   = 5 * time.Second
)

// inboundFrame is one event delivered by the chat gateway.
type inboundFrame struct {
	Type      string   `json:"type"`
	Name      string   `json:"name,omitempty"`
	Args      []string `json:"args,omitempty"`
	CustomID  string   `json:"customId,omitempty"`
	InvokerID string   `json:"invokerId"`
	IsAdmin   bool     `json:"isAdmin,omitempty"`
	// ReplyTo threads the reply back to the originating interaction.
	ReplyTo string `json:"replyTo,omitempty"`
}

// outboundFrame carries a reply back through the gateway.
type outboundFrame struct {
	Type      string     `json:"type"`
	ReplyTo   string     `json:"replyTo,omitempty"`
	Text      string     `json:"text,omitempty"`
	Panel     *bot.Panel `json:"panel,omitempty"`
	Ephemeral bool       `json:"ephemeral,omitempty"`
}

// Gateway connects to the chat platform's event gateway over a websocket,
// decodes frames into bot events, dispatches them one at a time through the
// router, and writes replies back. The single read loop is what serializes
// event handling; nothing else mutates core state.
type Gateway struct {
	url    string
	token  string
	router *bot.Router
	log    *logrus.Entry
}

func New(url, token string, router *bot.Router, log *logrus.Entry) *Gateway {
	return &Gateway{
		url:    url,
		token:  token,
		router: router,
		log:    log,
	}
}

// Run dials the gateway and processes events until ctx is cancelled,
// reconnecting after transient failures.
func (g *Gateway) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := g.connectAndServe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.log.WithError(err).Warnf("gateway connection lost, reconnecting in %s", reconnectDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (g *Gateway) connectAndServe(ctx context.Context) error {
	header := http.Header{}
	if g.token != "" {
		header.Set("Authorization", "Bearer "+g.token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, g.url, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	g.log.WithField("url", g.url).Info("gateway connected")

	// Close the connection when ctx is cancelled so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return err
		}

		ev, ok := frame.event()
		if !ok {
			g.log.WithField("type", frame.Type).Warn("unknown gateway frame type")
			continue
		}

		reply := g.router.Dispatch(ctx, ev)
		if reply.IsZero() {
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		out := outboundFrame{
			Type:      frameTypeReply,
			ReplyTo:   frame.ReplyTo,
			Text:      reply.Text,
			Panel:     reply.Panel,
			Ephemeral: reply.Ephemeral,
		}
		if err := conn.WriteJSON(out); err != nil {
			return err
		}
	}
}

func (f *inboundFrame) event() (bot.Event, bool) {
	switch f.Type {
	case frameTypeCommand:
		return bot.CommandInvoked{
			Name:      f.Name,
			Args:      f.Args,
			InvokerID: f.InvokerID,
			IsAdmin:   f.IsAdmin,
		}, true
	case frameTypeButton:
		return bot.ButtonPressed{
			CustomID:  f.CustomID,
			InvokerID: f.InvokerID,
		}, true
	default:
		return nil, false
	}
}

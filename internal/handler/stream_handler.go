package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/NKavindya/device-mgt-core-sub000/internal/broker"
	"github.com/NKavindya/device-mgt-core-sub000/internal/middleware"
)

// streamListener forwards payloads addressed to one user into that user's
// open stream. The channel is bounded and sends never block: a stalled
// consumer drops pushes instead of stalling the publisher.
type streamListener struct {
	username string
	ch       chan broker.Payload
}

func newStreamListener(username string) *streamListener {
	return &streamListener{
		username: username,
		ch:       make(chan broker.Payload, 16),
	}
}

func (l *streamListener) OnMessage(payload broker.Payload, usernames []string) {
	for _, username := range usernames {
		if username != l.username {
			continue
		}
		select {
		case l.ch <- payload:
		default:
			logrus.WithField("username", l.username).Warn("stream buffer full, dropping push")
		}
		return
	}
}

// StreamHandler serves the long-lived per-user push stream.
type StreamHandler struct {
	broker *broker.Broker
}

func NewStreamHandler(eventBroker *broker.Broker) *StreamHandler {
	return &StreamHandler{broker: eventBroker}
}

// Stream registers a listener for the authenticated user and writes one JSON
// object per push as a server-sent event. A failed write deregisters the
// listener and ends the stream.
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	username := middleware.GetUsername(c)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	listener := newStreamListener(username)
	h.broker.Register(listener)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.broker.Deregister(listener)

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case payload := <-listener.ch:
				data, err := json.Marshal(payload)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

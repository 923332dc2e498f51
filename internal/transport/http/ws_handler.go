package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"kbc-quiz-game/internal/app"
	"kbc-quiz-game/internal/domain"
	"kbc-quiz-game/internal/infra/sound"
)

type WSHandler struct {
	service  *app.GameService
	sounds   *sound.Catalog
	defaults domain.Settings
	topic    domain.Topic
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, sounds *sound.Catalog, defaults domain.Settings, topic domain.Topic) *WSHandler {
	return &WSHandler{
		service:  service,
		sounds:   sounds,
		defaults: defaults,
		topic:    topic,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Topic    domain.Topic     `json:"topic"`
	Settings *domain.Settings `json:"settings"`
}

type selectPayload struct {
	Index int `json:"index"`
}

type lifelinePayload struct {
	Kind string `json:"kind"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type cuePayload struct {
	Cue domain.Cue `json:"cue"`
	URL string     `json:"url,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connection is the per-socket play loop. Only the reader goroutine touches
// current and stopForward.
type connection struct {
	h        *WSHandler
	playerID string
	name     string

	send         chan outboundMessage[any]
	closeSignals chan struct{}

	current     *app.Controller
	stopForward func()
}

// ServeWS upgrades HTTP requests to websockets and drives one player's games over them.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	c := &connection{
		h:            h,
		playerID:     playerID,
		name:         name,
		send:         make(chan outboundMessage[any], 32),
		closeSignals: make(chan struct{}),
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range c.send {
			if failed {
				continue // drain until closed
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("player_id", playerID).Msg("ws write error")
				failed = true
				_ = conn.Close()
			}
		}
	}()

	log.Info().Str("player_id", playerID).Str("name", name).Msg("player connected")

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		c.handle(r.Context(), inbound)
	}

	close(c.closeSignals)
	c.leave()
	close(c.send)
	<-writerDone
	log.Info().Str("player_id", playerID).Msg("player disconnected")
}

func (c *connection) handle(ctx context.Context, inbound inboundMessage) {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.sendError("invalid start payload")
				return
			}
		}
		c.start(ctx, payload)
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.sendError("invalid select payload")
			return
		}
		if c.requireGame() {
			c.current.Select(payload.Index)
		}
	case "lifeline":
		var payload lifelinePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.sendError("invalid lifeline payload")
			return
		}
		kind, ok := domain.ParseLifeline(payload.Kind)
		if !ok {
			c.sendError("unknown lifeline")
			return
		}
		if c.requireGame() {
			c.current.UseLifeline(kind)
		}
	case "closeOverlay":
		if c.requireGame() {
			c.current.CloseOverlay()
		}
	case "restart":
		if !c.requireGame() {
			return
		}
		if _, err := c.h.service.Restart(c.current.ID()); err != nil {
			c.sendError(domain.PlayerMessage(err))
		}
	case "menu":
		c.leave()
		c.push(outboundMessage[any]{Type: "menu", Payload: struct{}{}})
	default:
		c.sendError("unsupported message type")
	}
}

func (c *connection) start(ctx context.Context, payload startPayload) {
	c.leave()

	settings := c.h.defaults
	if payload.Settings != nil {
		settings = *payload.Settings
	}
	topic := payload.Topic
	if topic == "" {
		topic = c.h.topic
	}

	ctrl, err := c.h.service.StartGame(ctx, app.StartRequest{
		PlayerID:   c.playerID,
		PlayerName: c.name,
		Topic:      topic,
		Settings:   settings,
	})
	if err != nil {
		c.sendError(domain.PlayerMessage(err))
		return
	}
	c.current = ctrl
	c.forward(ctrl)
}

// forward relays a session's updates to the socket until stopped.
func (c *connection) forward(ctrl *app.Controller) {
	updates, cancel := ctrl.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			if !c.push(outboundMessage[any]{Type: "state", Payload: update.Snapshot}) {
				return
			}
			for _, cue := range update.Cues {
				if !c.push(outboundMessage[any]{Type: "cue", Payload: cuePayload{Cue: cue, URL: c.h.sounds.URL(cue)}}) {
					return
				}
			}
		}
	}()
	c.stopForward = func() {
		cancel()
		<-done
	}
}

// leave discards the running game, if any. The closing menu cue is still relayed.
func (c *connection) leave() {
	if c.current == nil {
		return
	}
	c.h.service.ReturnToMenu(c.current.ID())
	c.stopForward()
	c.current = nil
	c.stopForward = nil
}

func (c *connection) requireGame() bool {
	if c.current == nil {
		c.sendError("no game in progress")
		return false
	}
	return true
}

func (c *connection) sendError(message string) {
	c.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}})
}

func (c *connection) push(msg outboundMessage[any]) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.closeSignals:
		return false
	}
}

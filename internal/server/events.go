package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

// writeTimeout bounds one broadcast write per subscriber.
const writeTimeout = 2 * time.Second

// Event is one message on the live event stream.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventHub fans analysis lifecycle events out to websocket subscribers.
// Slow or dead subscribers are dropped rather than blocking broadcasts.
type EventHub struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
	log  zerolog.Logger
}

// NewEventHub creates an event hub.
func NewEventHub(log zerolog.Logger) *EventHub {
	return &EventHub{
		subs: make(map[*websocket.Conn]struct{}),
		log:  log.With().Str("component", "event_hub").Logger(),
	}
}

// Broadcast sends an event to every subscriber.
func (h *EventHub) Broadcast(eventType string, data map[string]interface{}) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		h.log.Error().Err(err).Str("type", eventType).Msg("Failed to encode event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subs {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			delete(h.subs, conn)
			conn.Close(websocket.StatusPolicyViolation, "write timeout")
		}
	}
}

// HandleEvents handles GET /api/events: upgrades to a websocket and
// streams events until the client disconnects.
func (h *EventHub) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.subs[conn] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()
	h.log.Debug().Int("subscribers", count).Msg("Event subscriber connected")

	// Read loop only detects disconnect; clients do not send data.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.subs, conn)
	h.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
	h.log.Debug().Msg("Event subscriber disconnected")
}

// Subscribers returns the current subscriber count.
func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

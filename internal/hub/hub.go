package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// EventNotificationsChanged tells a recipient to refresh its notifications.
const EventNotificationsChanged = "notifications_changed"

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client is one open stream. The SSE handler reads from it until it is closed.
type Client chan []byte

// Hub fans events out to the open streams of each profile.
type Hub struct {
	clients map[uuid.UUID]map[Client]bool
	mu      sync.RWMutex
}

// GlobalHub is the process-wide hub used by the HTTP layer.
var GlobalHub = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[Client]bool),
	}
}

// Subscribe registers client for events addressed to profileID.
func (h *Hub) Subscribe(profileID uuid.UUID, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[profileID]; !ok {
		h.clients[profileID] = make(map[Client]bool)
	}
	h.clients[profileID][client] = true
}

// Unsubscribe removes client and closes it.
func (h *Hub) Unsubscribe(profileID uuid.UUID, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[profileID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.clients, profileID)
			}
		}
	}
}

// Subscribers returns how many streams profileID has open.
func (h *Hub) Subscribers(profileID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[profileID])
}

// Broadcast sends event to every stream of profileID without blocking.
// A full client buffer drops the event for that client.
func (h *Hub) Broadcast(profileID uuid.UUID, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[profileID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("hub: marshal event failed", "type", event.Type, "error", err)
		return
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
		}
	}
}

// NotificationsChanged implements store.Notifier.
func (h *Hub) NotificationsChanged(recipientID uuid.UUID) {
	h.Broadcast(recipientID, Event{Type: EventNotificationsChanged})
}

package websocket

import (
	"log"
)

// PresenceStore persists the last-known online state of a user. The hub
// writes it on every connect/disconnect so list endpoints can filter on it.
type PresenceStore interface {
	SetOnlineStatus(userID uint, online bool) error
}

// Hub maintains the set of active presence sessions and broadcasts events to
// all of them. All registration, disconnection and broadcast flows through
// the single Run loop, which is what orders a user's login/logout events the
// way their connects and disconnects happened.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound frames to fan out to every client
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	presence PresenceStore
}

// NewHub creates a new hub instance. Callers hold the reference and pass it
// to whatever needs to emit; there is no package-level hub.
func NewHub(presence PresenceStore) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		presence:   presence,
	}
}

// Run starts the hub loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if err := h.presence.SetOnlineStatus(client.userID, true); err != nil {
				log.Printf("error setting online status for user %d: %v", client.userID, err)
			}
			h.broadcastAll(MarshalEvent(LoginEventName(client.userID)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if err := h.presence.SetOnlineStatus(client.userID, false); err != nil {
					log.Printf("error setting offline status for user %d: %v", client.userID, err)
				}
				h.broadcastAll(MarshalEvent(LogoutEventName(client.userID)))
			}
		case message := <-h.broadcast:
			h.broadcastAll(message)
		}
	}
}

// Broadcast queues a frame for delivery to every connected session.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// broadcastAll delivers best-effort: a client whose send buffer is full is
// dropped rather than blocking the loop.
func (h *Hub) broadcastAll(message []byte) {
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

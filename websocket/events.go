package websocket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Event is the frame broadcast over the presence channel. Presence events
// carry no payload; the name encodes the user id and the transition.
type Event struct {
	Event string `json:"event"`
}

// LoginEventName is the event broadcast when a user's session connects.
func LoginEventName(userID uint) string {
	return fmt.Sprintf("user.%d.login", userID)
}

// LogoutEventName is the event broadcast when a user's session disconnects.
func LogoutEventName(userID uint) string {
	return fmt.Sprintf("user.%d.logout", userID)
}

// MarshalEvent encodes an event frame for the wire.
func MarshalEvent(name string) []byte {
	frame, err := json.Marshal(Event{Event: name})
	if err != nil {
		return nil
	}
	return frame
}

// ParsePresenceEvent decodes a `user.<id>.login|logout` event name. ok is
// false for anything else.
func ParsePresenceEvent(name string) (userID uint, online bool, ok bool) {
	parts := strings.Split(name, ".")
	if len(parts) != 3 || parts[0] != "user" {
		return 0, false, false
	}

	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, false, false
	}

	switch parts[2] {
	case "login":
		return uint(id), true, true
	case "logout":
		return uint(id), false, true
	default:
		return 0, false, false
	}
}

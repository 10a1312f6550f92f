package push

import (
	"time"

	"cardwatch/pkg/models"
)

// Event is the wire envelope for everything sent over a socket, the
// greeting on connect included.
type Event struct {
	Type  string               `json:"type"` // "welcome", "watchlist.restock" or "watchlist.refresh"
	Items []models.TrackedItem `json:"items,omitempty"`
	At    time.Time            `json:"at"`
}

func RestockEvent(items []models.TrackedItem) Event {
	return Event{Type: "watchlist.restock", Items: items, At: time.Now().UTC()}
}

func RefreshEvent() Event {
	return Event{Type: "watchlist.refresh", At: time.Now().UTC()}
}

// WelcomeEvent is sent once to each client right after the upgrade.
func WelcomeEvent() Event {
	return Event{Type: "welcome", At: time.Now().UTC()}
}

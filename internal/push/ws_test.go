package push

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cardwatch/pkg/models"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", WSHandler(hub))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) Event {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := ws.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestWSHandlerGreetsAndBroadcasts(t *testing.T) {
	hub := NewHub()
	ws := dialTestHub(t, hub)

	if ev := readEvent(t, ws); ev.Type != "welcome" {
		t.Fatalf("first event type = %q, want welcome", ev.Type)
	}
	if hub.Count() != 1 {
		t.Fatalf("hub count = %d, want 1", hub.Count())
	}

	items := []models.TrackedItem{{ID: "t1", URL: "https://example.com/p/1", Name: "Booster Box", InStock: true}}
	hub.BroadcastJSON(RestockEvent(items))

	ev := readEvent(t, ws)
	if ev.Type != "watchlist.restock" {
		t.Fatalf("event type = %q, want watchlist.restock", ev.Type)
	}
	if len(ev.Items) != 1 || ev.Items[0].ID != "t1" {
		t.Fatalf("event items = %+v", ev.Items)
	}
}

func TestWSHandlerRemovesClientOnClose(t *testing.T) {
	hub := NewHub()
	ws := dialTestHub(t, hub)

	readEvent(t, ws) // welcome
	ws.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("hub count = %d after close, want 0", hub.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

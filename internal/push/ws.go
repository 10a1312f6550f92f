package push

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a different origin during local dev,
	// so origin checks are off.
	CheckOrigin: func(*http.Request) bool { return true },
}

// WSHandler upgrades the request and parks the connection in the hub until
// the peer goes away. Clients only listen; whatever they send is drained
// and dropped.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer func() {
			hub.Remove(ws)
			log.Printf("[ws] client disconnected (%d left)", hub.Count())
		}()

		hub.Add(ws)
		log.Printf("[ws] client connected (%d total)", hub.Count())

		if err := ws.WriteJSON(WelcomeEvent()); err != nil {
			return
		}

		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}
}

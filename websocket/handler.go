package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// In production, you should check the origin
		return true
	},
}

// HandleWebSocket upgrades a staff-dashboard connection and attaches it to
// the hub. The route sits behind the auth middleware, so user_id is always
// present here.
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID, exists := c.Get("user_id")
		if !exists {
			staffID = uint(0)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Error upgrading connection: %v", err)
			return
		}

		client := &Client{
			hub:     hub,
			conn:    conn,
			send:    make(chan []byte, 256),
			staffID: staffID.(uint),
		}

		client.hub.register <- client

		log.Printf("[WS] New dashboard client connected: staff ID %d", client.staffID)

		go client.writePump()
		go client.readPump()
	}
}

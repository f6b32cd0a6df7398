// Package websocket owns the transport layer: upgrading HTTP connections and
// pumping envelopes in and out. It knows nothing about matchmaking or games;
// the server wires those in through the message handler.
package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"carduel/models"
)

// Upgrader configures the WebSocket upgrader
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the HTTP connection and starts the pumps. The
// channel is anonymous at this point; authentication happens over the first
// envelope.
func HandleWebSocket(
	c *gin.Context,
	handleMessage func(*Client, models.WSMessage),
	onClose func(*Client),
) {
	conn, err := Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := &Client{
		ChannelID: uuid.New().String(),
		Conn:      conn,
		Send:      make(chan []byte, 256),
	}

	go client.WritePump()
	go client.ReadPump(handleMessage, onClose)
}

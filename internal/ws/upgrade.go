package ws

import (
	"net/http"
	"time"

	"shelterconnect/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10

	// A rune can arrive as a 12-byte escaped surrogate pair; the rest covers the envelope.
	maxMessageSize = 12*domain.MaxMessageRunes + 4096
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Serve runs the connection until the peer goes away: frames queued on client.Send are
// written by a separate goroutine, and each text frame read is passed to onMessage. On
// return the client has left every room and the connection is closed.
func Serve(conn *websocket.Conn, client *Client, onMessage func(raw []byte)) {
	defer conn.Close()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(client, conn)
	}()

	readPump(conn, onMessage)
	client.Close()
	<-done
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn, onMessage func(raw []byte)) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			onMessage(raw)
		}
	}
}

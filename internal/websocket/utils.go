package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// idleTimeout closes a form stream nobody has touched for a while.
	idleTimeout = 10 * time.Minute
	// maxMessageBytes bounds one form-state message.
	maxMessageBytes = 4096
)

// Prepare applies the read limit used for all form streams.
func Prepare(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageBytes)
}

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func WriteError(conn *websocket.Conn, resp ErrorResponse) error {
	resp.Event = EventError
	return WriteTyped(conn, resp)
}

// ReadJSON reads and decodes a message into the provided structure.
// It sets a read deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(idleTimeout))
	return conn.ReadJSON(v)
}

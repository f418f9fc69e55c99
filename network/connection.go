// network/connection.go
package network

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope is one frame on the wire: a named event plus its JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Connection interface {
	Send(event string, payload interface{}) error
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
	ReadEnvelope() (*Envelope, error)
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) Send(event string, payload interface{}) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = encoded
	}

	return c.conn.WriteJSON(&Envelope{Event: event, Data: data})
}

func (c *WSConnection) ReadEnvelope() (*Envelope, error) {
	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	var envelope Envelope
	if err := c.conn.ReadJSON(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// SetHeartbeat arms the read deadline: a connection that stays silent for
// two intervals fails its next read and is torn down.
func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

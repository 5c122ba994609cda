package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("connection buffer exceeded")
)

// Socket is the part of a websocket connection the realtime layer drives.
// *websocket.Conn from gofiber/contrib satisfies it.
type Socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Connection owns the outbound side of one websocket. Writes go through a bounded
// queue drained by a single goroutine, so Send is safe for concurrent use.
type Connection struct {
	ID     string
	UserID uint

	ws   Socket
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewConnection(userID uint, ws Socket, buffer int) *Connection {
	if buffer <= 0 {
		buffer = 128
	}
	return &Connection{
		ID:     uuid.NewString(),
		UserID: userID,
		ws:     ws,
		send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

// Start launches the write loop. Call it once.
func (c *Connection) Start() {
	go c.writeLoop()
}

func (c *Connection) SubscriberID() string {
	return c.ID
}

// Send enqueues payload. A client that cannot keep up is disconnected.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		c.Close()
		return ErrSendBufferFull
	}
}

func (c *Connection) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *Connection) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}

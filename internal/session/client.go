package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	// Uploads travel base64 encoded inside a message.
	maxMsgSize = 16 << 20
	sendBuffer = 256
)

// Client pumps messages between one websocket connection and its session.
type Client struct {
	ID     string
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		ID:     id,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: logger.With("client", id),
	}
}

// ReadPump decodes incoming frames and queues them on the session until the
// connection closes.
func (c *Client) ReadPump(ctx context.Context, s *Session) {
	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				c.logger.Debug("read error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("invalid message", "error", err)
			continue
		}
		s.Submit(&msg)
	}
}

// WritePump flushes queued messages and pings the peer. It closes the
// connection when the session ends or a write fails.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	status, reason := websocket.StatusGoingAway, "session closed"
	defer func() {
		ticker.Stop()
		c.conn.Close(status, reason)
	}()

	write := func(data []byte) error {
		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		defer cancel()
		return c.conn.Write(writeCtx, websocket.MessageText, data)
	}

	for {
		select {
		case data := <-c.send:
			if err := write(data); err != nil {
				c.logger.Debug("write error", "error", err)
				status, reason = websocket.StatusInternalError, "write failed"
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.logger.Debug("ping failed", "error", err)
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}

package ipc

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection is one game session with the bridge. Messages are handled in
// arrival order on the ReadLoop goroutine.
type Connection struct {
	conn     io.ReadWriteCloser
	handlers map[string]Handler
	writeMu  sync.Mutex
	Player   string
}

func NewConnection(conn io.ReadWriteCloser, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// Close ends the session; a blocked ReadLoop returns.
func (c *Connection) Close() error { return c.conn.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				slog.Info("connection closed", "player", c.Player)
			} else {
				slog.Info("connection read ended", "player", c.Player, "error", err)
			}
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "player", c.Player)
		}
	}
}

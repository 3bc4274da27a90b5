package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/famichat/famichat/internal/chat"
	"github.com/famichat/famichat/internal/relay"
)

// Conn is the WebSocket transport between a conversation store and the
// relay. It implements Transport; sends are fire-and-forget and relay
// responses are drained by the read loop.
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	store   *Store
	done    chan struct{}
}

// Dial connects to the relay, performs the connect handshake, and starts
// the read loop that feeds delivered messages into the store.
func Dial(ctx context.Context, url, name, token string, store *Store) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}

	c := &Conn{ws: ws, store: store, done: make(chan struct{})}

	params, _ := json.Marshal(relay.ConnectParams{Name: name, Token: token})
	hello := relay.Frame{Type: "req", ID: uuid.NewString(), Method: relay.MethodConnect, Params: params}
	if err := c.writeFrame(hello); err != nil {
		ws.Close()
		return nil, fmt.Errorf("send connect: %w", err)
	}

	res, err := relay.ReadFrame(ws)
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("read connect response: %w", err)
	}
	if res.OK == nil || !*res.OK {
		ws.Close()
		if res.Error != nil {
			return nil, fmt.Errorf("connect rejected: %s: %s", res.Error.Code, res.Error.Message)
		}
		return nil, fmt.Errorf("connect rejected")
	}

	store.SetTransport(c)
	go c.readLoop()
	return c, nil
}

// Send forwards a message to the relay and returns without waiting for the
// response frame.
func (c *Conn) Send(msg chat.Message) error {
	params, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.writeFrame(relay.Frame{
		Type:   "req",
		ID:     uuid.NewString(),
		Method: relay.MethodSend,
		Params: params,
	})
}

func (c *Conn) writeFrame(frame relay.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(frame)
}

func (c *Conn) readLoop() {
	defer close(c.done)
	for {
		frame, err := relay.ReadFrame(c.ws)
		if err != nil {
			slog.Debug("relay connection closed", "error", err)
			return
		}
		switch {
		case frame.Type == "event" && frame.Event == relay.EventMessage:
			var msg chat.Message
			if err := json.Unmarshal(frame.Payload, &msg); err != nil {
				slog.Warn("bad message event", "error", err)
				continue
			}
			c.store.Receive(msg)
		case frame.Type == "res":
			if frame.OK != nil && !*frame.OK && frame.Error != nil {
				slog.Warn("relay rejected send", "code", frame.Error.Code, "message", frame.Error.Message)
			}
		}
	}
}

// Done is closed when the read loop exits, i.e. the connection dropped.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

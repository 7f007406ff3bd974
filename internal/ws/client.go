package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sketchparty/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Client is one websocket connection. Its id is minted server-side and is
// the connection identifier the game layer keys everything on.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	hub    *Hub
	engine *game.Engine
	log    zerolog.Logger
}

func NewClient(conn *websocket.Conn, hub *Hub, engine *game.Engine, log zerolog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
		hub:    hub,
		engine: engine,
		log:    log.With().Str("conn", id).Logger(),
	}
}

func (c *Client) ID() string { return c.id }

// Serve registers the client and pumps messages until the connection
// drops. Blocks for the connection's lifetime.
func (c *Client) Serve() {
	c.hub.add(c)
	go c.readPump()
	c.writePump()
}

// cleanup deregisters the client before anything else so no room
// broadcast can reach it mid-teardown. The send queue is never closed;
// once the client is out of the hub it simply stops receiving.
func (c *Client) cleanup() {
	c.once.Do(func() {
		c.hub.remove(c.id)
		c.cancel()
		c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("readPump panic")
		}
		c.cleanup()
		c.engine.Disconnect(c.id)
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, msg, err := c.conn.ReadMessage()
			if err != nil {
				c.log.Debug().Err(err).Msg("read closed")
				return
			}

			var env Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				c.log.Warn().Err(err).Msg("invalid envelope")
				continue
			}
			c.dispatch(env)
		}
	}
}

// dispatch routes one inbound event to the engine. Payloads that fail to
// parse are dropped; a misbehaving client can't corrupt room state.
func (c *Client) dispatch(env Envelope) {
	switch env.Type {
	case "createRoom":
		var p struct {
			RoomID   string `json:"roomId"`
			Username string `json:"username"`
		}
		if json.Unmarshal(env.Data, &p) == nil {
			c.engine.CreateRoom(c.id, p.RoomID, p.Username)
		}

	case "joinRoom":
		var p struct {
			RoomID   string `json:"roomId"`
			Username string `json:"username"`
		}
		if json.Unmarshal(env.Data, &p) == nil {
			c.engine.JoinRoom(c.id, p.RoomID, p.Username)
		}

	case "leaveRoom":
		var p struct {
			RoomID string `json:"roomId"`
		}
		if json.Unmarshal(env.Data, &p) == nil {
			c.engine.LeaveRoom(c.id, p.RoomID)
		}

	case "startGame":
		var p struct {
			RoomID string `json:"roomId"`
		}
		if json.Unmarshal(env.Data, &p) == nil {
			c.engine.StartGame(p.RoomID, c.id)
		}

	case "submitGuess":
		var p struct {
			RoomID string `json:"roomId"`
			Guess  string `json:"guess"`
		}
		if json.Unmarshal(env.Data, &p) == nil {
			c.engine.SubmitGuess(p.RoomID, c.id, p.Guess)
		}

	case "drawing":
		var p struct {
			RoomID string          `json:"roomId"`
			Stroke json.RawMessage `json:"stroke"`
		}
		if json.Unmarshal(env.Data, &p) == nil {
			c.engine.RelayStroke(p.RoomID, c.id, p.Stroke)
		}

	case "checkCheating":
		var p struct {
			RoomID   string `json:"roomId"`
			Snapshot string `json:"snapshot"`
		}
		if json.Unmarshal(env.Data, &p) == nil {
			c.engine.CheckCheating(c.ctx, p.RoomID, c.id, p.Snapshot)
		}

	default:
		c.log.Debug().Str("type", env.Type).Msg("unknown event")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.cleanup()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

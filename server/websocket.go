package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lab1702/squadron-ai/game"
	"github.com/lab1702/squadron-ai/sim"
	"github.com/rs/zerolog"
)

// isValidOrigin checks if the origin is allowed to connect
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.log.Warn().Str("origin", origin).Msg("Invalid origin URL")
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	s.log.Warn().Str("origin", origin).Msg("Rejected WebSocket connection")
	return false
}

// Message types
const (
	MsgTypeUpdate    = "update"
	MsgTypeDamage    = "damage"
	MsgTypeRepair    = "repair"
	MsgTypeSpawn     = "spawn"
	MsgTypeFormation = "formation"
	MsgTypeStrike    = "strike"
	MsgTypeReset     = "reset"
	MsgTypeMessage   = "message"
	MsgTypeError     = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents a connected observer
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// Options configures the simulation the server drives
type Options struct {
	TickRate         int // Steps per second
	Squad            sim.Squad
	SpawnCenter      game.Vec3
	SpawnRadius      float64
	FormationOnStart bool
}

// Server steps the session on a ticker, streams snapshots to every
// connected observer and applies their control messages.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*Client
	register     chan *Client
	unregister   chan *Client
	broadcast    chan ServerMessage
	session      *sim.Session
	player       *sim.ScriptedPlayer // Only touched by the game loop
	playerDeaths int
	opts         Options
	nextID       int
	upgrader     websocket.Upgrader
	log          zerolog.Logger
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a server around an existing session and player
func NewServer(session *sim.Session, player *sim.ScriptedPlayer, opts Options, log zerolog.Logger) *Server {
	if opts.TickRate <= 0 {
		opts.TickRate = 10
	}
	s := &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		session:    session,
		player:     player,
		opts:       opts,
		log:        log.With().Str("component", "server").Logger(),
		done:       make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:       s.isValidOrigin,
		EnableCompression: true, // Enable per-message deflate compression
	}
	return s
}

// Run starts the game loop and handles client events until Shutdown
func (s *Server) Run() {
	go s.gameLoop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			s.log.Info().Int("client", client.ID).Msg("Client connected")

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
			}
			s.mu.Unlock()
			s.log.Info().Int("client", client.ID).Msg("Client disconnected")

		case message := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client send channel is full, skip this message
					s.log.Warn().Int("client", client.ID).Msg("Send buffer full, skipping broadcast")
				}
			}
			s.mu.RUnlock()

		case <-s.done:
			s.mu.Lock()
			for id, client := range s.clients {
				delete(s.clients, id)
				close(client.send)
			}
			s.mu.Unlock()
			return
		}
	}
}

// Shutdown stops the game loop and the hub. Safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.done)
	})
}

// ClientCount returns the number of connected observers
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warn().Err(err).Int("client", c.ID).Msg("WebSocket error")
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes a control message from the client
func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			c.server.log.Error().
				Int("client", c.ID).
				Str("type", msg.Type).
				Interface("panic", r).
				Msg("PANIC in handleMessage")
		}
	}()

	switch msg.Type {
	case MsgTypeDamage:
		c.handleDamage(msg.Data)
	case MsgTypeRepair:
		c.handleRepair(msg.Data)
	case MsgTypeSpawn:
		c.handleSpawn(msg.Data)
	case MsgTypeFormation:
		c.handleFormation(msg.Data)
	case MsgTypeStrike:
		c.handleStrike()
	case MsgTypeReset:
		c.handleReset()
	default:
		c.server.log.Warn().Str("type", msg.Type).Msg("Unknown message type")
		c.sendError("unknown message type: " + msg.Type)
	}
}

// reply queues a message for this client only, dropping it if the buffer is full
func (c *Client) reply(msg ServerMessage) {
	select {
	case c.send <- msg:
	default:
		c.server.log.Warn().Int("client", c.ID).Msg("Send buffer full, dropping reply")
	}
}

func (c *Client) sendInfo(text string) {
	c.reply(ServerMessage{
		Type: MsgTypeMessage,
		Data: map[string]interface{}{
			"text": text,
			"type": "info",
		},
	})
}

func (c *Client) sendError(text string) {
	c.reply(ServerMessage{
		Type: MsgTypeError,
		Data: map[string]interface{}{
			"text": text,
		},
	})
}

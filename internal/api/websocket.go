package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"acorn-arena/internal/game"
	"acorn-arena/internal/protocol"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("websocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient tracks a WebSocket connection with its source IP and the payload
// encoding it negotiated at connect time.
type wsClient struct {
	conn *websocket.Conn
	ip   string
	enc  protocol.Encoding
}

// wsFrame is one outbound message, pre-encoded for both codecs so the
// broadcast path encodes once regardless of client count.
type wsFrame struct {
	jsonData    []byte
	msgpackData []byte
}

func encodeFrame(env protocol.Envelope) (wsFrame, error) {
	jd, err := protocol.EncodingJSON.Marshal(env)
	if err != nil {
		return wsFrame{}, err
	}
	md, err := protocol.EncodingMsgpack.Marshal(env)
	if err != nil {
		return wsFrame{}, err
	}
	return wsFrame{jsonData: jd, msgpackData: md}, nil
}

func (c *wsClient) send(f wsFrame) error {
	if c.enc.Binary() {
		return c.conn.WriteMessage(websocket.BinaryMessage, f.msgpackData)
	}
	return c.conn.WriteMessage(websocket.TextMessage, f.jsonData)
}

// WebSocketHub manages all WebSocket connections with DoS protection
type WebSocketHub struct {
	engine EngineInterface

	clients    map[*websocket.Conn]*wsClient
	broadcast  chan wsFrame
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	// Connection limiting per IP
	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a new hub with connection limiting
func NewWebSocketHub(engine EngineInterface) *WebSocketHub {
	return &WebSocketHub{
		engine:     engine,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan wsFrame, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run starts the hub
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()

			count := len(h.clients)
			log.Printf("client connected from %s using %s (%d total)", client.ip, client.enc, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				// Release the connection slot for this IP
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

			count := len(h.clients)
			log.Printf("client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case frame := <-h.broadcast:
			h.mu.RLock()
			for conn, client := range h.clients {
				if err := client.send(frame); err != nil {
					conn.Close()
					h.mu.RUnlock()
					h.mu.Lock()
					if c, ok := h.clients[conn]; ok {
						h.wsLimiter.Release(c.ip)
						delete(h.clients, conn)
					}
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
			IncrementWSMessages()
		}
	}
}

// Broadcast queues an envelope to every connected client.
func (h *WebSocketHub) Broadcast(env protocol.Envelope) {
	frame, err := encodeFrame(env)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop starts pushing arena snapshots to every client at the
// given rate. 7 Hz is plenty for presentation; the simulation keeps its own
// tick rate.
func (h *WebSocketHub) StartBroadcastLoop(hz int) {
	if hz <= 0 {
		hz = 7
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))

	go func() {
		var lastSeq uint64
		for range ticker.C {
			if h.ClientCount() == 0 {
				continue
			}

			snap := h.engine.Snapshot()
			if snap.Sequence == lastSeq {
				continue // engine idle, nothing new to send
			}
			lastSeq = snap.Sequence

			h.Broadcast(protocol.Envelope{
				T: protocol.TypeSnapshot,
				D: protocol.SnapshotFrom(snap),
			})
			UpdateArenaGauges(snap)
		}
	}()
}

// BroadcastMatchEvent pushes a round/match transition to every client.
func (h *WebSocketHub) BroadcastMatchEvent(ev game.MatchEvent) {
	RecordMatchEvent(ev)
	h.Broadcast(protocol.Envelope{
		T: protocol.TypeMatchEvent,
		D: protocol.MatchEventFrom(ev),
	})
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	// Check total connection limit
	h.mu.RLock()
	totalConnections := len(h.clients)
	h.mu.RUnlock()

	if totalConnections >= MaxWSConnectionsTotal {
		log.Printf("websocket connection rejected: total limit reached (%d)", totalConnections)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	// Check per-IP connection limit
	if !h.wsLimiter.Allow(ip) {
		log.Printf("websocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		h.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}

	enc := protocol.ParseEncoding(r.URL.Query().Get("format"))
	client := &wsClient{conn: conn, ip: ip, enc: enc}

	// Welcome frame before the client enters the broadcast set.
	cfg := h.engine.Config()
	if welcome, err := encodeFrame(protocol.Envelope{
		T: protocol.TypeWelcome,
		D: protocol.WelcomeMsg{
			PlayerTeam: cfg.PlayerTeam.String(),
			TickRate:   cfg.TickRate,
			ArenaW:     cfg.ArenaWidth,
			ArenaH:     cfg.ArenaHeight,
			Encoding:   enc.String(),
		},
	}); err == nil {
		client.send(welcome)
	}

	h.register <- client

	go h.readLoop(client)
}

// readLoop consumes client frames and routes them to the engine. Malformed
// frames get an error reply; the connection survives.
func (h *WebSocketHub) readLoop(client *wsClient) {
	defer func() {
		h.unregister <- client.conn
	}()

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		in, err := client.enc.DecodeInbound(message)
		if err != nil {
			h.sendError(client, "malformed envelope")
			continue
		}
		h.dispatch(client, in)
	}
}

func (h *WebSocketHub) dispatch(client *wsClient, in protocol.Inbound) {
	switch in.T {
	case protocol.TypeInput:
		var msg protocol.InputMsg
		if err := in.Decode(&msg); err != nil {
			h.sendError(client, "malformed input")
			return
		}
		key, ok := game.ParseKey(msg.Key)
		if !ok {
			h.sendError(client, "unknown key")
			return
		}
		if msg.Pressed {
			h.engine.PressKey(key)
		} else {
			h.engine.ReleaseKey(key)
		}

	case protocol.TypeDeploy:
		h.engine.PressKey(game.KeyDeploy)

	case protocol.TypeControl:
		var msg protocol.ControlMsg
		if err := in.Decode(&msg); err != nil {
			h.sendError(client, "malformed control")
			return
		}
		h.engine.SetControlMode(game.ParseControlMode(msg.Mode))

	case protocol.TypeReset:
		h.engine.Reset()
		RecordMatchReset()

	default:
		h.sendError(client, "unknown message type")
	}
}

func (h *WebSocketHub) sendError(client *wsClient, message string) {
	frame, err := encodeFrame(protocol.Envelope{
		T: protocol.TypeError,
		D: protocol.ErrorMsg{Message: message},
	})
	if err != nil {
		return
	}
	client.send(frame)
}

package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// Message types
const (
	TypeSystem   = "system"
	TypeSnapshot = "snapshot"
	TypeWindow   = "window"
	TypeSettings = "settings"
	TypePing     = "ping"
	TypePong     = "pong"
	TypeError    = "error"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

var codec = sonic.ConfigStd

// SnapshotFunc returns the current desktop state for new clients
type SnapshotFunc func() interface{}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans out events to connected clients
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	upgrader websocket.Upgrader
	snapshot SnapshotFunc
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHub creates a hub. snapshot may be nil.
func NewHub(snapshot SnapshotFunc, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		snapshot: snapshot,
		logger:   logger,
	}
}

// WithMetrics attaches a metrics collector
func (h *Hub) WithMetrics(metrics *monitoring.Metrics) *Hub {
	h.metrics = metrics
	return h
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client without blocking
func (h *Hub) Broadcast(msg types.WSMessage) {
	data, err := codec.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode broadcast", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	var slow []*client
	for _, c := range h.clients {
		select {
		case c.send <- data:
			h.recordMessage("out", msg.Type)
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow client", zap.String("client_id", c.id))
		h.unregister(c)
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
		h.decConnections()
	}
}

// Handle upgrades the request and serves the client until it disconnects
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.queue(cl, types.WSMessage{Type: TypeSystem, Message: "Connected to WebDesk", Data: gin.H{"client_id": cl.id}})
	h.queueSnapshot(cl)
	h.register(cl)

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	h.logger.Debug("Client connected", zap.String("client_id", c.id))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if ok {
		c.close()
		h.decConnections()
		h.logger.Debug("Client disconnected", zap.String("client_id", c.id))
	}
}

func (h *Hub) decConnections() {
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
		h.recordMessage("in", msg.Type)

		switch msg.Type {
		case TypePing:
			h.reply(c, types.WSMessage{Type: TypePong})
		case TypeSnapshot:
			if h.snapshot != nil {
				h.reply(c, types.WSMessage{Type: TypeSnapshot, Data: h.snapshot()})
			}
		default:
			h.reply(c, types.WSMessage{Type: TypeError, Message: "unknown message type"})
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// reply queues a message for a registered client. The hub lock keeps
// unregister from closing the send channel underneath.
func (h *Hub) reply(c *client, msg types.WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c.id]; ok {
		h.queue(c, msg)
	}
}

// queue sends to one client, dropping the message if its buffer is full
func (h *Hub) queue(c *client, msg types.WSMessage) {
	data, err := codec.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	select {
	case c.send <- data:
		h.recordMessage("out", msg.Type)
	default:
	}
}

func (h *Hub) queueSnapshot(c *client) {
	if h.snapshot == nil {
		return
	}
	h.queue(c, types.WSMessage{Type: TypeSnapshot, Data: h.snapshot()})
}

func (h *Hub) recordMessage(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/raidbot/internal/core/events"
	"github.com/zeusync/raidbot/internal/core/observability/log"
)

const (
	sendBuffer   = 32
	writeTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The overlay is a local debugging tool served from anywhere.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Message is the envelope streamed to overlay clients.
type Message struct {
	Type string `json:"type"`
	Time int64  `json:"time"`
	Data any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans player events out to websocket clients. Slow clients miss
// messages instead of stalling the frame loop.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	dropped uint64
	log     log.Log
	subs    []events.Subscription
}

func NewHub(logger log.Log) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     logger.Named("telemetry"),
	}
}

// Attach streams frame reports and state changes published on bus.
func (h *Hub) Attach(bus events.Bus) error {
	for _, typ := range []string{events.FrameProcessed, events.StateChanged} {
		sub, err := bus.Subscribe(typ, h.forward)
		if err != nil {
			h.Detach()
			return err
		}
		h.subs = append(h.subs, sub)
	}
	return nil
}

func (h *Hub) Detach() {
	for _, sub := range h.subs {
		_ = sub.Cancel()
	}
	h.subs = nil
}

func (h *Hub) forward(e events.Event) error {
	return h.Broadcast(Message{Type: e.Type(), Time: e.Timestamp().UnixMilli(), Data: e.Data()})
}

// Broadcast encodes msg once and queues it for every client.
func (h *Hub) Broadcast(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.dropped++
		}
	}
	return nil
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped counts messages not delivered to slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("overlay connected", log.String("remote", conn.RemoteAddr().String()))

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop discards client messages; it only exists to notice disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Debug("overlay write failed", log.Error(err))
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

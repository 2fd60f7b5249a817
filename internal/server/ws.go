package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vinizanotti89/influencer-panel-go/internal/service"
	"go.uber.org/zap"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsPingInterval   = 30 * time.Second
	wsSendBufferSize = 16
)

// Hub broadcasts search progress events to connected dashboard clients. It
// implements service.ProgressPublisher; publishing never blocks, slow clients
// are dropped instead.
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[*wsClient]bool
	clientsMu  sync.Mutex
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	logger     *zap.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
	}
}

// Run pumps registrations and broadcasts until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug("WebSocket client connected", zap.Int("clients", count))

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.clientsMu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client is not keeping up; drop it.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.clientsMu.Unlock()
		}
	}
}

// Publish implements service.ProgressPublisher.
func (h *Hub) Publish(event service.SearchEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("Failed to encode search event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Debug("Broadcast buffer full, dropping event",
			zap.String("type", event.Type))
	}
}

// ServeWS upgrades an HTTP request into a hub subscription.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, wsSendBufferSize),
	}

	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the stream is one-way. Reading is still
// required to notice a closed connection.
func (h *Hub) readPump(client *wsClient) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(client *wsClient) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("WebSocket client disconnected", zap.Int("clients", len(h.clients)))
	}
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for client := range h.clients {
		close(client.send)
		client.conn.Close()
		delete(h.clients, client)
	}
}

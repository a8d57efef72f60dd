package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a single connected store staff member.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	StoreID uuid.UUID
}

// OrderEvent is the payload pushed to store clients when an order changes.
type OrderEvent struct {
	Event string                 `json:"event"` // order_created, order_status_changed
	Data  map[string]interface{} `json:"data"`
}

type storeMessage struct {
	storeID uuid.UUID
	payload []byte
}

// Hub fans order events out to the staff of the affected store only.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan storeMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

// NewHub initializes a new WS Hub instance.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan storeMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the core dispatch loop for WebSocket events.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Println("WebSocket client connected for store", client.StoreID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Println("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.StoreID != message.storeID {
					continue
				}
				select {
				case client.Send <- message.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastOrderEvent pushes an event to every connected client of one store.
// The send is non-blocking so request handling never stalls on slow consumers.
func (h *Hub) BroadcastOrderEvent(storeID uuid.UUID, event OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Println("Failed to marshal ws event:", err)
		return
	}
	select {
	case h.broadcast <- storeMessage{storeID: storeID, payload: payload}:
	default:
		log.Println("WS broadcast queue full, dropping event", event.Event)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ServeWs upgrades the connection for store accounts. The access token comes in
// as a query parameter because browsers cannot set headers on ws handshakes.
func ServeWs(hub *Hub, c *gin.Context, jwtSecret []byte) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "token query parameter is required"})
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid token claims"})
		return
	}

	storeIDStr, _ := claims["store_id"].(string)
	storeID, err := uuid.Parse(storeIDStr)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"detail": "store account with a store membership required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}

	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 16), StoreID: storeID}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

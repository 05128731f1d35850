package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Websocket event names, shared by both directions of the wire.
const (
	EventSendMessage      = "send_message"      // inbound: client submits a chat message
	EventPreviousMessages = "previous_messages" // outbound: backlog replay on join
	EventReceiveMessage   = "receive_message"   // outbound: a message entered Sent
	EventMessageDelivered = "message_delivered" // outbound: a message entered Delivered
)

// Event is the JSON envelope carried over the websocket.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client is one live, authenticated websocket connection. Username is set
// once at authentication and never changes; clients without a username are
// never constructed.
type Client struct {
	Conn        *websocket.Conn
	Username    string
	ConnectedAt time.Time
	SendChan    chan []byte // outbound frames, drained by the client's write pump
}

// NewClient builds a client for an authenticated connection.
func NewClient(conn *websocket.Conn, username string) *Client {
	return &Client{
		Conn:        conn,
		Username:    username,
		ConnectedAt: time.Now(),
		SendChan:    make(chan []byte, 256),
	}
}

// Hub owns the set of live client connections and fans events out to them.
// It is the only holder of the set; everything else goes through Register,
// Unregister, Broadcast and SendTo.
type Hub struct {
	clients    map[*Client]bool
	clientsMux sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

// Register adds an authenticated client to the live set.
func (h *Hub) Register(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	h.clients[client] = true
}

// Unregister removes the client and closes its send channel. Safe to call
// more than once; only the first call closes the channel.
func (h *Hub) Unregister(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.SendChan)
	}
}

// ClientCount reports the number of live connections.
func (h *Hub) ClientCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	return len(h.clients)
}

// Broadcast delivers one event to every live client. The payload is encoded
// once; each delivery is a non-blocking channel send so one slow client never
// stalls the others. A client whose queue is full is dropped, which is its
// problem alone.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		log.Printf("event encoding error: %v", err)
		return
	}

	var stalled []*Client
	h.clientsMux.RLock()
	for client := range h.clients {
		select {
		case client.SendChan <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range stalled {
		log.Printf("dropping stalled client %s", client.Username)
		h.Unregister(client)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

// SendTo delivers one event to a single client. Used for the backlog replay
// right after a client joins.
func (h *Hub) SendTo(client *Client, event string, payload interface{}) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		log.Printf("event encoding error: %v", err)
		return
	}

	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.SendChan <- data:
	default:
		log.Printf("backlog send to %s dropped: queue full", client.Username)
	}
}

func marshalEvent(event string, payload interface{}) ([]byte, error) {
	return json.Marshal(struct {
		Event string      `json:"event"`
		Data  interface{} `json:"data"`
	}{Event: event, Data: payload})
}

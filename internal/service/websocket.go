package service

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"relay_chat/internal/utils"
)

// WebSocketManager owns the lifecycle of a websocket session: it gates the
// connection on credential verification, registers it with the hub, replays
// the backlog, and runs the read/write pumps until disconnect.
type WebSocketManager struct {
	hub            *Hub
	messageService *MessageService
	historyLimit   int
}

func NewWebSocketManager(hub *Hub, messageService *MessageService, historyLimit int) *WebSocketManager {
	return &WebSocketManager{
		hub:            hub,
		messageService: messageService,
		historyLimit:   historyLimit,
	}
}

// HandleConnection drives one connection from handshake to close. A failed
// verification closes the connection with no payload; the session is never
// registered. On success, the client receives the backlog once and then the
// live stream. Returns when the connection is gone; the client is always
// unregistered on the way out, even when disconnect races an in-flight send.
func (m *WebSocketManager) HandleConnection(conn *websocket.Conn, token string) {
	claims, err := utils.ParseToken(token)
	if err != nil || claims.Username == "" {
		log.Printf("authentication error: %v", err)
		conn.Close()
		return
	}

	client := NewClient(conn, claims.Username)
	m.hub.Register(client)

	defer func() {
		m.hub.Unregister(client)
		conn.Close()
	}()

	// Backlog replay, to this session only.
	history, err := m.messageService.Recent(m.historyLimit)
	if err != nil {
		log.Printf("backlog query failed: %v", err)
	} else {
		m.hub.SendTo(client, EventPreviousMessages, history)
	}

	go m.writePump(client)
	m.readPump(client)
}

// readPump consumes inbound frames until the connection drops.
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096)
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("event parse error: %v", err)
			continue
		}

		switch event.Event {
		case EventSendMessage:
			// Registered clients are authenticated by construction, but a
			// message from a session without an identity is never forwarded.
			if client.Username == "" {
				continue
			}
			var payload struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(event.Data, &payload); err != nil {
				log.Printf("send_message parse error: %v", err)
				continue
			}
			m.messageService.Ingest(client.Username, payload.Message)
		default:
			log.Printf("unknown event %q from %s", event.Event, client.Username)
		}
	}
}

// writePump pushes queued frames to the peer and keeps the connection alive
// with pings. It exits when the hub closes the client's send channel.
func (m *WebSocketManager) writePump(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				// Dead socket: let readPump's exit run the disconnect path.
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
